package connector

import (
	"context"
	"fmt"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConnectorService is the entry point of operators and schedulers: it
// enqueues jobs, runs direct batches and answers binding queries.
type ConnectorService struct {
	runner *JobRunner
}

// NewConnectorService creates a connector service on top of a job runner
func NewConnectorService(runner *JobRunner) *ConnectorService {
	return &ConnectorService{runner: runner}
}

// Runner returns the job runner used by queue workers
func (s *ConnectorService) Runner() *JobRunner {
	return s.runner
}

// ListBackends returns every configured backend
func (s *ConnectorService) ListBackends(ctx context.Context) ([]connector.Backend, error) {
	return s.runner.backends.List(ctx)
}

// GetBackend returns one backend
func (s *ConnectorService) GetBackend(ctx context.Context, id uuid.UUID) (*connector.Backend, error) {
	return s.runner.backends.FindByID(ctx, id)
}

// CreateBackendInput holds the settings of a new backend
type CreateBackendInput struct {
	Name                    string
	URL                     string
	APIKey                  string
	Version                 string
	CompanyID               uuid.UUID
	TaxesIncluded           bool
	MatchingProductTemplate bool
	MatchingProductCh       connector.MatchingStrategy
	MatchingCustomer        bool
	Languages               []connector.Language
}

// CreateBackend registers a shop
func (s *ConnectorService) CreateBackend(ctx context.Context, in CreateBackendInput) (*connector.Backend, error) {
	backend, err := connector.NewBackend(in.Name, in.URL, in.APIKey, in.Version, in.CompanyID)
	if err != nil {
		return nil, err
	}
	backend.TaxesIncluded = in.TaxesIncluded
	backend.MatchingProductTemplate = in.MatchingProductTemplate
	backend.MatchingCustomer = in.MatchingCustomer
	backend.Languages = in.Languages
	if in.MatchingProductCh != "" {
		backend.MatchingProductCh = in.MatchingProductCh
	}
	if err := backend.Validate(); err != nil {
		return nil, err
	}
	if err := s.runner.backends.Save(ctx, backend); err != nil {
		return nil, fmt.Errorf("save backend %s: %w", backend.Name, err)
	}
	s.runner.logger.Info("Backend created",
		zap.String("backend_id", backend.ID.String()),
		zap.String("name", backend.Name),
	)
	return backend, nil
}

// EnqueueImport enqueues the import of one remote record. The returned flag
// is false when an identical job is already pending. A forced import is not
// absorbed by a pending unforced one.
func (s *ConnectorService) EnqueueImport(ctx context.Context, backendID uuid.UUID, entity connector.EntityType, externalID int64, force bool) (*connector.Job, bool, error) {
	if _, err := s.GetBackend(ctx, backendID); err != nil {
		return nil, false, err
	}
	job := connector.NewJob(connector.JobImportRecord, backendID, connector.JobArgs{
		Entity:     entity,
		ExternalID: externalID,
		Force:      force,
	}).WithIdentity(entity, externalID, force)
	return s.enqueue(ctx, job)
}

// EnqueueBatchImport enqueues a search of remote records that schedules one
// import per match
func (s *ConnectorService) EnqueueBatchImport(ctx context.Context, backendID uuid.UUID, entity connector.EntityType, filters connector.Filters) (*connector.Job, bool, error) {
	if _, err := s.GetBackend(ctx, backendID); err != nil {
		return nil, false, err
	}
	job := connector.NewJob(connector.JobImportBatch, backendID, connector.JobArgs{
		Entity:  entity,
		Filters: filters,
	})
	return s.enqueue(ctx, job)
}

// EnqueueExport enqueues the export of one local record
func (s *ConnectorService) EnqueueExport(ctx context.Context, backendID uuid.UUID, entity connector.EntityType, internalID uuid.UUID) (*connector.Job, bool, error) {
	if _, err := s.GetBackend(ctx, backendID); err != nil {
		return nil, false, err
	}
	job := connector.NewJob(connector.JobExportRecord, backendID, connector.JobArgs{
		Entity:     entity,
		InternalID: internalID,
	}).WithIdentity(entity, internalID)
	return s.enqueue(ctx, job)
}

func (s *ConnectorService) enqueue(ctx context.Context, job *connector.Job) (*connector.Job, bool, error) {
	accepted, err := s.runner.queue.Enqueue(ctx, job)
	if err != nil {
		return nil, false, fmt.Errorf("enqueue %s: %w", job.Name, err)
	}
	return job, accepted, nil
}

// ImportBatch imports every matching record synchronously in remote order.
// Each record runs in its own transaction; failures are reported and do not
// stop the batch.
func (s *ConnectorService) ImportBatch(ctx context.Context, backendID uuid.UUID, entity connector.EntityType, filters connector.Filters) (*BatchResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "connector", "import_batch",
		telemetry.WithAttribute(telemetry.SpanAttrBackendID, backendID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrEntity, entity.String()),
	)
	defer span.End()

	job := connector.NewJob(connector.JobImportBatch, backendID, connector.JobArgs{Entity: entity, Filters: filters})
	backend, ws, err := s.runner.open(ctx, job)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	ids, err := NewBatchImporter(ws, s.runner.pageSize, s.runner.logger).Search(ctx, entity, filters)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	result := &BatchResult{Entity: entity, Total: len(ids)}
	for _, id := range ids {
		err := s.runner.execute(ctx, backend, ws, func(ctx context.Context, env *Environment) error {
			_, err := NewImporter(env).Import(ctx, entity, id, false)
			return err
		})
		if err != nil {
			result.addFailure(id, err)
			s.runner.logger.Warn("Record import failed",
				zap.String("entity", entity.String()),
				zap.Int64("external_id", id),
				zap.Error(err),
			)
			continue
		}
		result.Imported++
	}
	telemetry.SetAttributes(span, "imported", result.Imported, "failed", result.Failed())
	return result, nil
}

// ImportSince enqueues the import of records of entity modified since the
// last periodic run and records the run start on the backend.
func (s *ConnectorService) ImportSince(ctx context.Context, backendID uuid.UUID, entity connector.EntityType) (*connector.Job, error) {
	backend, err := s.GetBackend(ctx, backendID)
	if err != nil {
		return nil, err
	}
	started := s.runner.now()
	filters := connector.Filters{}
	if since := backend.SinceFor(entity); since != nil {
		filters["filter[date_upd]"] = fmt.Sprintf(">[%s]", since.Format(connector.DateLayout))
		filters["date"] = "1"
	}
	job := connector.NewJob(connector.JobImportBatch, backendID, connector.JobArgs{Entity: entity, Filters: filters})
	if _, _, err := s.enqueue(ctx, job); err != nil {
		return nil, err
	}
	backend.MarkImported(entity, started)
	if err := s.runner.backends.Save(ctx, backend); err != nil {
		return nil, fmt.Errorf("save backend %s: %w", backend.Name, err)
	}
	s.runner.logger.Info("Periodic import scheduled",
		zap.String("backend_id", backendID.String()),
		zap.String("entity", entity.String()),
		zap.Any("filters", filters),
	)
	return job, nil
}

// GetBinding returns the binding of a remote record
func (s *ConnectorService) GetBinding(ctx context.Context, backendID uuid.UUID, entity connector.EntityType, externalID int64) (*connector.Binding, error) {
	var binding *connector.Binding
	err := s.runner.scope.Execute(ctx, func(ctx context.Context, repos connector.Repositories) error {
		var err error
		binding, err = repos.Bindings().FindByExternalID(ctx, backendID, entity, externalID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return binding, nil
}
