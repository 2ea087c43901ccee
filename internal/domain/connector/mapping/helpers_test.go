package mapping

import (
	"context"
	"time"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/google/uuid"
)

type fakeBinder struct {
	ids map[connector.EntityType]map[int64]uuid.UUID
}

func newFakeBinder() *fakeBinder {
	return &fakeBinder{ids: make(map[connector.EntityType]map[int64]uuid.UUID)}
}

func (b *fakeBinder) add(entity connector.EntityType, externalID int64) uuid.UUID {
	id := uuid.New()
	if b.ids[entity] == nil {
		b.ids[entity] = make(map[int64]uuid.UUID)
	}
	b.ids[entity][externalID] = id
	return id
}

func (b *fakeBinder) ToInternal(_ context.Context, entity connector.EntityType, externalID int64) (uuid.UUID, bool, error) {
	id, ok := b.ids[entity][externalID]
	return id, ok, nil
}

func (b *fakeBinder) ToExternal(_ context.Context, entity connector.EntityType, internalID uuid.UUID) (int64, bool, error) {
	for ext, id := range b.ids[entity] {
		if id == internalID {
			return ext, true, nil
		}
	}
	return 0, false, nil
}

func (b *fakeBinder) Bind(_ context.Context, entity connector.EntityType, externalID int64, internalID uuid.UUID) (*connector.Binding, error) {
	if b.ids[entity] == nil {
		b.ids[entity] = make(map[int64]uuid.UUID)
	}
	b.ids[entity][externalID] = internalID
	return &connector.Binding{EntityType: entity, ExternalID: externalID, InternalID: internalID}, nil
}

type fakeLookup struct {
	templateCodes map[string]bool
	variantCodes  map[string]bool
	groupTaxes    map[int64]*connector.Tax
	groupErr      error
	taxes         map[uuid.UUID]*connector.Tax
	templates     map[uuid.UUID]*connector.ProductTemplate
	remote        map[int64]connector.Record
	resolved      uuid.UUID
	countries     map[int64]string
	partners      map[string]uuid.UUID
	groups        map[string]uuid.UUID
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		templateCodes: map[string]bool{},
		variantCodes:  map[string]bool{},
		groupTaxes:    map[int64]*connector.Tax{},
		taxes:         map[uuid.UUID]*connector.Tax{},
		templates:     map[uuid.UUID]*connector.ProductTemplate{},
		remote:        map[int64]connector.Record{},
		countries:     map[int64]string{},
		partners:      map[string]uuid.UUID{},
		groups:        map[string]uuid.UUID{},
	}
}

func (l *fakeLookup) TemplateCodeExists(_ context.Context, code string) (bool, error) {
	return l.templateCodes[code], nil
}

func (l *fakeLookup) VariantCodeExists(_ context.Context, code string) (bool, error) {
	return l.variantCodes[code], nil
}

func (l *fakeLookup) TaxForGroup(_ context.Context, externalGroupID int64) (*connector.Tax, error) {
	if l.groupErr != nil {
		return nil, l.groupErr
	}
	return l.groupTaxes[externalGroupID], nil
}

func (l *fakeLookup) ResolveTemplate(context.Context, connector.Record) (uuid.UUID, bool, error) {
	return l.resolved, l.resolved != uuid.Nil, nil
}

func (l *fakeLookup) Tax(_ context.Context, id uuid.UUID) (*connector.Tax, error) {
	return l.taxes[id], nil
}

func (l *fakeLookup) Template(_ context.Context, id uuid.UUID) (*connector.ProductTemplate, error) {
	return l.templates[id], nil
}

func (l *fakeLookup) RemoteRecord(_ context.Context, _ connector.EntityType, id int64) (connector.Record, error) {
	if r, ok := l.remote[id]; ok {
		return r, nil
	}
	return connector.Record{}, nil
}

func (l *fakeLookup) CountryCode(_ context.Context, id int64) (string, error) {
	return l.countries[id], nil
}

func (l *fakeLookup) PartnerByEmail(_ context.Context, email string) (uuid.UUID, bool, error) {
	id, ok := l.partners[email]
	return id, ok, nil
}

func (l *fakeLookup) TaxGroupByName(_ context.Context, name string) (uuid.UUID, bool, error) {
	id, ok := l.groups[name]
	return id, ok, nil
}

var frozenNow = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

func newTestEnv() (*Env, *fakeBinder, *fakeLookup) {
	binder := newFakeBinder()
	lookup := newFakeLookup()
	backend := &connector.Backend{
		ID:                uuid.MustParse("7d7c5d42-30a4-4d2c-9c7c-1b1d5f1f0a01"),
		Name:              "shop",
		Version:           "1.6.1.2",
		CompanyID:         uuid.New(),
		MatchingProductCh: connector.MatchingByBarcode,
		Languages:         []connector.Language{{ExternalID: 1, Code: "en_US"}},
	}
	env := &Env{
		Backend: backend,
		Binder:  binder,
		Lookup:  lookup,
		Now:     func() time.Time { return frozenNow },
	}
	return env, binder, lookup
}
