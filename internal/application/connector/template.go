package connector

import (
	"context"
	"fmt"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/domain/connector/mapping"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// templateHandler imports shop products as product templates
type templateHandler struct {
	mapper *mapping.Mapper
}

func newTemplateHandler() *templateHandler {
	return &templateHandler{mapper: mapping.NewTemplateMapper()}
}

func (h *templateHandler) Entity() connector.EntityType { return connector.EntityProductTemplate }

func (h *templateHandler) Mapper() *mapping.Mapper { return h.mapper }

// ImportDependencies imports the manufacturer, the tax group and every
// option and option value the product uses.
func (h *templateHandler) ImportDependencies(ctx context.Context, imp *Importer, record connector.Record) error {
	if err := imp.ImportDependency(ctx, connector.EntityManufacturer, record.Int64("id_manufacturer"), false); err != nil {
		return err
	}
	if err := imp.ImportDependency(ctx, connector.EntityTaxGroup, record.Int64("id_tax_rules_group"), false); err != nil {
		return err
	}
	return importOptionValues(ctx, imp, mapping.OptionValueEntries(imp.env.Backend, record))
}

// importOptionValues imports the option of each option value, then the value
func importOptionValues(ctx context.Context, imp *Importer, entries []connector.Record) error {
	for _, entry := range entries {
		value, err := imp.env.Read(ctx, connector.EntityCombinationOptionValue, entry.ID())
		if err != nil {
			return err
		}
		if err := imp.ImportDependency(ctx, connector.EntityCombinationOption, value.Int64("id_attribute_group"), false); err != nil {
			return err
		}
		if err := imp.ImportDependency(ctx, connector.EntityCombinationOptionValue, entry.ID(), false); err != nil {
			return err
		}
	}
	return nil
}

func (h *templateHandler) Write(ctx context.Context, imp *Importer, id uuid.UUID, result *mapping.Result) (uuid.UUID, error) {
	repo := imp.env.Repos.Templates()
	now := imp.env.Now()

	created := id == uuid.Nil
	var tmpl *connector.ProductTemplate
	if created {
		tmpl = &connector.ProductTemplate{
			ID:           uuid.New(),
			Active:       true,
			Translations: connector.Translations{},
			CreatedAt:    now,
		}
	} else {
		existing, err := repo.FindByID(ctx, id)
		if err != nil {
			return uuid.Nil, err
		}
		tmpl = existing
		if tmpl.Translations == nil {
			tmpl.Translations = connector.Translations{}
		}
	}

	if err := result.Values.Decode(tmpl); err != nil {
		return uuid.Nil, err
	}
	applyTranslations(tmpl.Translations, result)
	tmpl.UpdatedAt = now

	if created {
		variant := &connector.ProductVariant{
			ID:            uuid.New(),
			TemplateID:    tmpl.ID,
			CompanyID:     tmpl.CompanyID,
			DefaultCode:   tmpl.DefaultCode,
			Barcode:       tmpl.Barcode,
			StandardPrice: tmpl.StandardPrice,
			Weight:        tmpl.Weight,
			Default:       true,
			Active:        true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		tmpl.DefaultVariantID = &variant.ID
		if err := repo.Save(ctx, tmpl); err != nil {
			return uuid.Nil, err
		}
		if err := imp.env.Repos.Variants().Save(ctx, variant); err != nil {
			return uuid.Nil, err
		}
		return tmpl.ID, nil
	}

	if err := repo.Save(ctx, tmpl); err != nil {
		return uuid.Nil, err
	}
	// without combinations the template fields describe its single variant
	if result.Values.Has("default_code") {
		if err := syncSingleVariant(ctx, imp, tmpl); err != nil {
			return uuid.Nil, err
		}
	}
	return tmpl.ID, nil
}

func syncSingleVariant(ctx context.Context, imp *Importer, tmpl *connector.ProductTemplate) error {
	variants, err := imp.env.Repos.Variants().ListByTemplate(ctx, tmpl.ID)
	if err != nil {
		return err
	}
	for i := range variants {
		v := &variants[i]
		if v.HasAttributes() {
			continue
		}
		v.DefaultCode = tmpl.DefaultCode
		v.Barcode = tmpl.Barcode
		v.StandardPrice = tmpl.StandardPrice
		v.Weight = tmpl.Weight
		v.UpdatedAt = imp.env.Now()
		return imp.env.Repos.Variants().Save(ctx, v)
	}
	return nil
}

// AfterImport schedules the images, rebuilds the attribute lines, imports
// the combinations and deactivates the generated variant, in that order.
func (h *templateHandler) AfterImport(ctx context.Context, imp *Importer, binding *connector.Binding, record connector.Record) error {
	images := h.scheduleImages(imp, record)
	if err := h.rebuildAttributeLines(ctx, imp, binding.InternalID, record); err != nil {
		return err
	}
	if err := h.importCombinations(ctx, imp, record, images); err != nil {
		return err
	}
	return h.deactivateDefaultVariants(ctx, imp, binding.InternalID)
}

func (h *templateHandler) scheduleImages(imp *Importer, record connector.Record) int {
	backend := imp.env.Backend
	ids := record.AssociationIDs("images", backend.VersionKey("images"))
	for _, imageID := range ids {
		job := connector.NewJob(connector.JobImportProductImage, backend.ID, connector.JobArgs{
			TemplateID: record.ID(),
			ImageID:    imageID,
		}).WithPriority(connector.PriorityImage).WithExactIdentity(record.ID(), imageID)
		imp.env.Schedule(job)
	}
	return len(ids)
}

// rebuildAttributeLines makes the template attribute lines match the option
// values of the product. Lines of attributes no longer used are removed.
func (h *templateHandler) rebuildAttributeLines(ctx context.Context, imp *Importer, templateID uuid.UUID, record connector.Record) error {
	repos := imp.env.Repos
	now := imp.env.Now()

	var order []uuid.UUID
	values := make(map[uuid.UUID][]uuid.UUID)
	for _, entry := range mapping.OptionValueEntries(imp.env.Backend, record) {
		valueID, err := imp.requireInternal(ctx, connector.EntityCombinationOptionValue, entry.ID())
		if err != nil {
			return err
		}
		value, err := repos.Attributes().FindValueByID(ctx, valueID)
		if err != nil {
			return fmt.Errorf("attribute value %s: %w", valueID, err)
		}
		if _, ok := values[value.AttributeID]; !ok {
			order = append(order, value.AttributeID)
		}
		values[value.AttributeID] = appendUnique(values[value.AttributeID], value.ID)
	}

	lines, err := repos.AttributeLines().ListByTemplate(ctx, templateID)
	if err != nil {
		return err
	}
	remaining := make(map[uuid.UUID]connector.AttributeLine, len(lines))
	for _, line := range lines {
		remaining[line.AttributeID] = line
	}

	for seq, attributeID := range order {
		line, ok := remaining[attributeID]
		if ok {
			delete(remaining, attributeID)
		} else {
			line = connector.AttributeLine{
				ID:          uuid.New(),
				TemplateID:  templateID,
				AttributeID: attributeID,
				CreatedAt:   now,
			}
		}
		line.ValueIDs = values[attributeID]
		line.Sequence = seq
		line.UpdatedAt = now
		if err := repos.AttributeLines().Save(ctx, &line); err != nil {
			return err
		}
	}
	for _, line := range remaining {
		if err := repos.AttributeLines().Delete(ctx, line.ID); err != nil {
			return err
		}
	}
	return nil
}

// importCombinations imports the default combination first, then the others
// in remote order. Variant images are linked by one deferred job once every
// combination exists.
func (h *templateHandler) importCombinations(ctx context.Context, imp *Importer, record connector.Record, images int) error {
	backend := imp.env.Backend
	ids := orderCombinations(record.AssociationIDs("combinations", backend.VersionKey("combinations")),
		record.Int64("id_default_combination"))
	if len(ids) == 0 {
		return nil
	}
	for _, id := range ids {
		if err := imp.ImportDependency(ctx, connector.EntityProductCombination, id, true); err != nil {
			return err
		}
	}
	if len(ids) > 1 && images > 0 {
		job := connector.NewJob(connector.JobSetProductImageVariant, backend.ID, connector.JobArgs{
			TemplateID:   record.ID(),
			Combinations: ids,
		}).WithPriority(connector.PriorityVariantImage).WithExactIdentity(record.ID(), ids)
		imp.env.Schedule(job)
	}
	return nil
}

// orderCombinations moves the default combination to the front
func orderCombinations(ids []int64, defaultID int64) []int64 {
	ordered := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id == defaultID {
			ordered = append(ordered, id)
		}
	}
	for _, id := range ids {
		if id != defaultID {
			ordered = append(ordered, id)
		}
	}
	return ordered
}

// deactivateDefaultVariants disables variants without attribute values once
// the template has several active variants.
func (h *templateHandler) deactivateDefaultVariants(ctx context.Context, imp *Importer, templateID uuid.UUID) error {
	variants, err := imp.env.Repos.Variants().ListByTemplate(ctx, templateID)
	if err != nil {
		return err
	}
	active := 0
	for _, v := range variants {
		if v.Active {
			active++
		}
	}
	if active <= 1 {
		return nil
	}
	for i := range variants {
		v := &variants[i]
		if !v.Active || v.HasAttributes() {
			continue
		}
		v.Active = false
		v.UpdatedAt = imp.env.Now()
		if err := imp.env.Repos.Variants().Save(ctx, v); err != nil {
			return err
		}
		imp.env.Logger.Debug("Generated variant deactivated", zap.String("variant_id", v.ID.String()))
	}
	return nil
}

func appendUnique(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
