package connector

import (
	"context"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/domain/connector/mapping"
	"github.com/google/uuid"
)

// combinationHandler imports shop combinations as product variants
type combinationHandler struct {
	baseHandler
	mapper *mapping.Mapper
}

func newCombinationHandler() *combinationHandler {
	return &combinationHandler{mapper: mapping.NewCombinationMapper()}
}

func (h *combinationHandler) Entity() connector.EntityType { return connector.EntityProductCombination }

func (h *combinationHandler) Mapper() *mapping.Mapper { return h.mapper }

func (h *combinationHandler) ImportDependencies(ctx context.Context, imp *Importer, record connector.Record) error {
	if err := imp.ImportDependency(ctx, connector.EntityProductTemplate, record.Int64("id_product"), false); err != nil {
		return err
	}
	return importOptionValues(ctx, imp, mapping.OptionValueEntries(imp.env.Backend, record))
}

// Resolve attaches the combination to an unbound variant of its template
// with the same reference or barcode.
func (h *combinationHandler) Resolve(ctx context.Context, imp *Importer, record connector.Record, result *mapping.Result) (uuid.UUID, bool, error) {
	if !imp.env.Backend.MatchingProductTemplate {
		return uuid.Nil, false, nil
	}
	templateID, ok := result.Values["template_id"].(uuid.UUID)
	if !ok {
		return uuid.Nil, false, nil
	}
	return imp.resolver.ResolveVariant(ctx, templateID, record)
}

func (h *combinationHandler) Write(ctx context.Context, imp *Importer, id uuid.UUID, result *mapping.Result) (uuid.UUID, error) {
	repo := imp.env.Repos.Variants()
	now := imp.env.Now()

	var variant *connector.ProductVariant
	if id == uuid.Nil {
		variant = &connector.ProductVariant{ID: uuid.New(), Active: true, CreatedAt: now}
	} else {
		existing, err := repo.FindByID(ctx, id)
		if err != nil {
			return uuid.Nil, err
		}
		variant = existing
	}
	if err := result.Values.Decode(variant); err != nil {
		return uuid.Nil, err
	}
	variant.UpdatedAt = now
	if err := repo.Save(ctx, variant); err != nil {
		return uuid.Nil, err
	}
	if variant.Default {
		if err := seedTemplate(ctx, imp, variant); err != nil {
			return uuid.Nil, err
		}
	}
	return variant.ID, nil
}

// seedTemplate makes the default combination the template default variant
// and fills the template fields still empty from it.
func seedTemplate(ctx context.Context, imp *Importer, variant *connector.ProductVariant) error {
	repos := imp.env.Repos
	tmpl, err := repos.Templates().FindByID(ctx, variant.TemplateID)
	if err != nil {
		return err
	}
	tmpl.DefaultVariantID = &variant.ID
	if tmpl.DefaultCode == "" {
		tmpl.DefaultCode = variant.DefaultCode
	}
	if tmpl.Barcode == "" {
		tmpl.Barcode = variant.Barcode
	}
	if tmpl.StandardPrice.IsZero() {
		tmpl.StandardPrice = variant.StandardPrice
	}
	if tmpl.Weight.IsZero() {
		tmpl.Weight = variant.Weight
	}
	tmpl.UpdatedAt = imp.env.Now()
	if err := repos.Templates().Save(ctx, tmpl); err != nil {
		return err
	}

	siblings, err := repos.Variants().ListByTemplate(ctx, variant.TemplateID)
	if err != nil {
		return err
	}
	for i := range siblings {
		s := &siblings[i]
		if s.ID == variant.ID || !s.Default {
			continue
		}
		s.Default = false
		s.UpdatedAt = imp.env.Now()
		if err := repos.Variants().Save(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// optionHandler imports shop product options as attributes
type optionHandler struct {
	baseHandler
	mapper *mapping.Mapper
}

func newOptionHandler() *optionHandler {
	return &optionHandler{mapper: mapping.NewOptionMapper()}
}

func (h *optionHandler) Entity() connector.EntityType { return connector.EntityCombinationOption }

func (h *optionHandler) Mapper() *mapping.Mapper { return h.mapper }

func (h *optionHandler) Write(ctx context.Context, imp *Importer, id uuid.UUID, result *mapping.Result) (uuid.UUID, error) {
	repo := imp.env.Repos.Attributes()
	now := imp.env.Now()

	attribute := &connector.Attribute{ID: uuid.New(), CreatedAt: now}
	if id != uuid.Nil {
		existing, err := repo.FindByID(ctx, id)
		if err != nil {
			return uuid.Nil, err
		}
		attribute = existing
	}
	if attribute.Translations == nil {
		attribute.Translations = connector.Translations{}
	}
	if err := result.Values.Decode(attribute); err != nil {
		return uuid.Nil, err
	}
	applyTranslations(attribute.Translations, result)
	attribute.UpdatedAt = now
	if err := repo.Save(ctx, attribute); err != nil {
		return uuid.Nil, err
	}
	return attribute.ID, nil
}

// optionValueHandler imports shop option values as attribute values
type optionValueHandler struct {
	baseHandler
	mapper *mapping.Mapper
}

func newOptionValueHandler() *optionValueHandler {
	return &optionValueHandler{mapper: mapping.NewOptionValueMapper()}
}

func (h *optionValueHandler) Entity() connector.EntityType {
	return connector.EntityCombinationOptionValue
}

func (h *optionValueHandler) Mapper() *mapping.Mapper { return h.mapper }

func (h *optionValueHandler) ImportDependencies(ctx context.Context, imp *Importer, record connector.Record) error {
	return imp.ImportDependency(ctx, connector.EntityCombinationOption, record.Int64("id_attribute_group"), false)
}

func (h *optionValueHandler) Write(ctx context.Context, imp *Importer, id uuid.UUID, result *mapping.Result) (uuid.UUID, error) {
	repo := imp.env.Repos.Attributes()
	now := imp.env.Now()

	value := &connector.AttributeValue{ID: uuid.New(), CreatedAt: now}
	if id != uuid.Nil {
		existing, err := repo.FindValueByID(ctx, id)
		if err != nil {
			return uuid.Nil, err
		}
		value = existing
	}
	if value.Translations == nil {
		value.Translations = connector.Translations{}
	}
	if err := result.Values.Decode(value); err != nil {
		return uuid.Nil, err
	}
	applyTranslations(value.Translations, result)
	value.UpdatedAt = now
	if err := repo.SaveValue(ctx, value); err != nil {
		return uuid.Nil, err
	}
	return value.ID, nil
}
