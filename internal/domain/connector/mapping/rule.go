package mapping

import (
	"context"
	"fmt"
	"time"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/google/uuid"
)

// Lookup gives rules read access to local state and to the shop. It is
// implemented by the importer environment.
type Lookup interface {
	// TemplateCodeExists reports whether a template of the backend company
	// uses code and is not bound to the backend
	TemplateCodeExists(ctx context.Context, code string) (bool, error)
	// VariantCodeExists is TemplateCodeExists for variants
	VariantCodeExists(ctx context.Context, code string) (bool, error)
	// TaxForGroup returns the single tax of a bound tax group, nil for group 0
	TaxForGroup(ctx context.Context, externalGroupID int64) (*connector.Tax, error)
	// ResolveTemplate finds an unbound local template matching the record
	ResolveTemplate(ctx context.Context, record connector.Record) (uuid.UUID, bool, error)
	// Tax loads a local tax
	Tax(ctx context.Context, id uuid.UUID) (*connector.Tax, error)
	// Template loads a local template
	Template(ctx context.Context, id uuid.UUID) (*connector.ProductTemplate, error)
	// RemoteRecord reads a record from the shop
	RemoteRecord(ctx context.Context, entity connector.EntityType, id int64) (connector.Record, error)
	// CountryCode returns the ISO code of a shop country
	CountryCode(ctx context.Context, externalCountryID int64) (string, error)
	// PartnerByEmail finds a local partner of the backend company by email
	PartnerByEmail(ctx context.Context, email string) (uuid.UUID, bool, error)
	// TaxGroupByName finds a local tax group of the backend company by name
	TaxGroupByName(ctx context.Context, name string) (uuid.UUID, bool, error)
}

// Env is the read-only context rules run in.
type Env struct {
	Backend *connector.Backend
	Binder  connector.Binder
	Lookup  Lookup
	Now     func() time.Time
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// ApplyFunc computes values from a remote record
type ApplyFunc func(ctx context.Context, env *Env, record connector.Record) (Values, error)

// Rule is one field mapping rule
type Rule struct {
	// Target names the field the rule feeds, for logs and tests
	Target       string
	Apply        ApplyFunc
	OnlyOnCreate bool
	Translatable bool
}

// OnCreate marks the rule as only evaluated when creating a record
func (r Rule) OnCreate() Rule {
	r.OnlyOnCreate = true
	return r
}

// Translated marks the rule as evaluated for every shop language
func (r Rule) Translated() Rule {
	r.Translatable = true
	return r
}

// Computed builds a rule from a function
func Computed(target string, fn ApplyFunc) Rule {
	return Rule{Target: target, Apply: fn}
}

// Direct copies a remote field as a string
func Direct(from, to string) Rule {
	return Rule{Target: to, Apply: func(_ context.Context, _ *Env, record connector.Record) (Values, error) {
		return Values{to: record.String(from)}, nil
	}}
}

// DirectBool copies an integer-string remote field as a boolean
func DirectBool(from, to string) Rule {
	return Rule{Target: to, Apply: func(_ context.Context, _ *Env, record connector.Record) (Values, error) {
		return Values{to: ParseBool(record.String(from))}, nil
	}}
}

// DirectInt copies a remote field as an integer
func DirectInt(from, to string) Rule {
	return Rule{Target: to, Apply: func(_ context.Context, _ *Env, record connector.Record) (Values, error) {
		return Values{to: record.Int64(from)}, nil
	}}
}

// DirectDecimal copies a remote numeric field, empty values map to zero
func DirectDecimal(from, to string) Rule {
	return Rule{Target: to, Apply: func(_ context.Context, _ *Env, record connector.Record) (Values, error) {
		return Values{to: ParseDecimal(record.String(from))}, nil
	}}
}

// Const always assigns the same value
func Const(to string, value any) Rule {
	return Rule{Target: to, Apply: func(context.Context, *Env, connector.Record) (Values, error) {
		return Values{to: value}, nil
	}}
}

// Result is the output of an import mapping
type Result struct {
	Values Values
	// Translations holds translatable values per secondary language code
	Translations map[string]Values
}

// Mapper is a fixed list of rules for one entity type.
type Mapper struct {
	entity connector.EntityType
	rules  []Rule
}

// NewMapper creates a mapper
func NewMapper(entity connector.EntityType, rules ...Rule) *Mapper {
	return &Mapper{entity: entity, rules: rules}
}

// Entity returns the entity type the mapper handles
func (m *Mapper) Entity() connector.EntityType {
	return m.entity
}

// Rules returns the mapper rules in declaration order
func (m *Mapper) Rules() []Rule {
	return m.rules
}

// Map evaluates every rule on the record. When create is false, rules marked
// OnlyOnCreate are skipped. Errors from rules are returned unchanged.
func (m *Mapper) Map(ctx context.Context, env *Env, record connector.Record, create bool) (*Result, error) {
	result := &Result{Values: Values{}, Translations: map[string]Values{}}

	main := record
	var secondary []connector.Language
	if env.Backend != nil {
		if lang, ok := env.Backend.MainLanguage(); ok {
			main = record.ForLanguage(lang.ExternalID)
			secondary = env.Backend.Languages[1:]
		}
	}

	for _, rule := range m.rules {
		if rule.OnlyOnCreate && !create {
			continue
		}
		values, err := rule.Apply(ctx, env, main)
		if err != nil {
			return nil, fmt.Errorf("mapping %s.%s: %w", m.entity, rule.Target, err)
		}
		result.Values.Merge(values)
	}

	for _, lang := range secondary {
		projected := record.ForLanguage(lang.ExternalID)
		translated := Values{}
		for _, rule := range m.rules {
			if !rule.Translatable || (rule.OnlyOnCreate && !create) {
				continue
			}
			values, err := rule.Apply(ctx, env, projected)
			if err != nil {
				return nil, fmt.Errorf("mapping %s.%s [%s]: %w", m.entity, rule.Target, lang.Code, err)
			}
			translated.Merge(values)
		}
		if len(translated) > 0 {
			result.Translations[lang.Code] = translated
		}
	}
	return result, nil
}
