package connector

import (
	"context"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/domain/connector/mapping"
	"github.com/google/uuid"
)

// taxGroupHandler imports shop tax rule groups as tax groups
type taxGroupHandler struct {
	baseHandler
	mapper *mapping.Mapper
}

func newTaxGroupHandler() *taxGroupHandler {
	return &taxGroupHandler{mapper: mapping.NewTaxGroupMapper()}
}

func (h *taxGroupHandler) Entity() connector.EntityType { return connector.EntityTaxGroup }

func (h *taxGroupHandler) Mapper() *mapping.Mapper { return h.mapper }

func (h *taxGroupHandler) Write(ctx context.Context, imp *Importer, id uuid.UUID, result *mapping.Result) (uuid.UUID, error) {
	repo := imp.env.Repos.Taxes()
	now := imp.env.Now()

	group := &connector.TaxGroup{ID: uuid.New(), Active: true, CreatedAt: now}
	if id != uuid.Nil {
		existing, err := repo.FindGroupByID(ctx, id)
		if err != nil {
			return uuid.Nil, err
		}
		group = existing
	}
	if err := result.Values.Decode(group); err != nil {
		return uuid.Nil, err
	}
	group.UpdatedAt = now
	if err := repo.SaveGroup(ctx, group); err != nil {
		return uuid.Nil, err
	}
	return group.ID, nil
}

// AfterImport schedules the export of the group taxes the shop does not
// know yet.
func (h *taxGroupHandler) AfterImport(ctx context.Context, imp *Importer, binding *connector.Binding, _ connector.Record) error {
	taxes, err := imp.env.Repos.Taxes().ListByGroup(ctx, binding.InternalID)
	if err != nil {
		return err
	}
	ids := make([]uuid.UUID, 0, len(taxes))
	for _, tax := range taxes {
		if !tax.IsSalePercent() {
			continue
		}
		_, bound, err := imp.env.Binder.ToExternal(ctx, connector.EntityTax, tax.ID)
		if err != nil {
			return err
		}
		if !bound {
			ids = append(ids, tax.ID)
		}
	}
	ScheduleExports(imp.env, connector.EntityTax, ids)
	return nil
}
