package connector

import (
	"context"
	"fmt"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultPageSize is the number of ids requested per search page
const DefaultPageSize = 1000

// BatchImporter enumerates remote ids matching filters.
type BatchImporter struct {
	ws       connector.WebService
	pageSize int
	logger   *zap.Logger
}

// NewBatchImporter creates a batch importer. pageSize <= 0 uses
// DefaultPageSize.
func NewBatchImporter(ws connector.WebService, pageSize int, logger *zap.Logger) *BatchImporter {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchImporter{ws: ws, pageSize: pageSize, logger: logger}
}

// Search returns the ids of every remote record matching filters, in
// remote order. The shop is paged with limit=<offset>,<size> until a short
// page, unless filters already carry a limit.
func (b *BatchImporter) Search(ctx context.Context, entity connector.EntityType, filters connector.Filters) ([]int64, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "batch_importer", "search",
		telemetry.WithAttribute(telemetry.SpanAttrEntity, entity.String()),
	)
	defer span.End()

	query := entity.DefaultFilters()
	for k, v := range filters {
		query[k] = v
	}
	if _, ok := query["limit"]; ok {
		ids, err := b.ws.Search(ctx, entity.Resource(), query)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("search %s: %w", entity.Resource(), err)
		}
		return ids, nil
	}

	ids := make([]int64, 0)
	for offset := 0; ; offset += b.pageSize {
		page := query.Clone()
		page["limit"] = fmt.Sprintf("%d,%d", offset, b.pageSize)
		found, err := b.ws.Search(ctx, entity.Resource(), page)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("search %s: %w", entity.Resource(), err)
		}
		ids = append(ids, found...)
		if len(found) < b.pageSize {
			break
		}
	}
	telemetry.SetAttributes(span, "count", len(ids))
	return ids, nil
}

// Delay schedules one import_record job per remote record matching filters
// and returns how many were scheduled.
func (b *BatchImporter) Delay(ctx context.Context, env *Environment, entity connector.EntityType, filters connector.Filters) (int, error) {
	ids, err := b.Search(ctx, entity, filters)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		job := connector.NewJob(connector.JobImportRecord, env.Backend.ID, connector.JobArgs{
			Entity:     entity,
			ExternalID: id,
		}).WithIdentity(entity, id)
		env.Schedule(job)
	}
	b.logger.Info("Batch import scheduled",
		zap.String("entity", entity.String()),
		zap.Int("count", len(ids)),
	)
	return len(ids), nil
}

// BatchFailure is the error of one record of a direct batch
type BatchFailure struct {
	ExternalID int64  `json:"external_id"`
	Error      string `json:"error"`
	Fatal      bool   `json:"fatal"`
}

// BatchResult reports a batch import run
type BatchResult struct {
	Entity    connector.EntityType `json:"entity"`
	Total     int                  `json:"total"`
	Imported  int                  `json:"imported"`
	Scheduled int                  `json:"scheduled"`
	Failures  []BatchFailure       `json:"failures,omitempty"`
}

// Failed returns the number of records that could not be imported
func (r *BatchResult) Failed() int {
	return len(r.Failures)
}

func (r *BatchResult) addFailure(externalID int64, err error) {
	r.Failures = append(r.Failures, BatchFailure{
		ExternalID: externalID,
		Error:      err.Error(),
		Fatal:      connector.IsFatal(err),
	})
}
