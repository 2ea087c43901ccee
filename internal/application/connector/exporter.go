package connector

import (
	"context"
	"fmt"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/domain/connector/mapping"
	"github.com/binovo/connector-prestashop/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Exporter pushes local records to the shop.
type Exporter struct {
	env      *Environment
	lookup   mapping.Lookup
	taxes    *mapping.ExportMapper[connector.Tax]
	taxGroup *mapping.ExportMapper[connector.TaxGroup]
}

// NewExporter creates an exporter sharing the importer lookup
func NewExporter(imp *Importer) *Exporter {
	return &Exporter{
		env:      imp.env,
		lookup:   imp.lookup,
		taxes:    mapping.NewTaxExportMapper(),
		taxGroup: mapping.NewTaxGroupExportMapper(),
	}
}

// Export creates or updates the remote counterpart of a local record. It
// returns a nil binding when the record is not eligible for export.
func (x *Exporter) Export(ctx context.Context, entity connector.EntityType, internalID uuid.UUID) (*connector.Binding, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "exporter", "export_record",
		telemetry.WithAttribute(telemetry.SpanAttrEntity, entity.String()),
		telemetry.WithAttribute(telemetry.SpanAttrInternalID, internalID.String()),
	)
	defer span.End()

	var (
		binding *connector.Binding
		err     error
	)
	switch entity {
	case connector.EntityTax:
		var tax *connector.Tax
		if tax, err = x.env.Repos.Taxes().FindByID(ctx, internalID); err == nil {
			binding, err = exportRecord(ctx, x, x.taxes, internalID, tax)
		}
	case connector.EntityTaxGroup:
		var group *connector.TaxGroup
		if group, err = x.env.Repos.Taxes().FindGroupByID(ctx, internalID); err == nil {
			binding, err = exportRecord(ctx, x, x.taxGroup, internalID, group)
		}
	default:
		err = connector.NewValidationError(connector.CodeValidation, connector.ErrUnknownEntity,
			"%s cannot be exported", entity)
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return binding, nil
}

func exportRecord[T any](ctx context.Context, x *Exporter, mapper *mapping.ExportMapper[T], id uuid.UUID, src *T) (*connector.Binding, error) {
	entity := mapper.Entity()
	logger := x.env.Logger.With(zap.String("entity", entity.String()), zap.String("internal_id", id.String()))
	if mapper.Skip(src) {
		logger.Debug("Record not eligible for export, skipped")
		return nil, nil
	}

	values, err := mapper.Map(ctx, x.env.mappingEnv(x.lookup), src)
	if err != nil {
		return nil, err
	}

	ws := x.env.WebService
	externalID, bound, err := x.env.Binder.ToExternal(ctx, entity, id)
	if err != nil {
		return nil, err
	}
	if bound {
		if err := ws.Write(ctx, entity.Resource(), entity.Node(), externalID, values); err != nil {
			return nil, fmt.Errorf("export %s %d: %w", entity, externalID, err)
		}
	} else {
		if externalID, err = ws.Create(ctx, entity.Resource(), entity.Node(), values); err != nil {
			return nil, fmt.Errorf("export %s: %w", entity, err)
		}
	}

	binding, err := x.env.Binder.Bind(ctx, entity, externalID, id)
	if err != nil {
		return nil, err
	}
	logger.Info("Record exported", zap.Int64("external_id", externalID), zap.Bool("created", !bound))
	return binding, nil
}

// ScheduleExports schedules one export job per local record
func ScheduleExports(env *Environment, entity connector.EntityType, ids []uuid.UUID) int {
	for _, id := range ids {
		job := connector.NewJob(connector.JobExportRecord, env.Backend.ID, connector.JobArgs{
			Entity:     entity,
			InternalID: id,
		}).WithIdentity(entity, id)
		env.Schedule(job)
	}
	return len(ids)
}
