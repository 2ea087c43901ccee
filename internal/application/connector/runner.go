package connector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// JobRunner executes connector jobs. Each job runs in its own transaction;
// the jobs it schedules are enqueued once that transaction committed.
type JobRunner struct {
	backends    connector.BackendRepository
	scope       connector.TransactionScope
	webservices connector.WebServiceFactory
	queue       connector.JobQueue
	images      connector.ImageStore
	logger      *zap.Logger
	pageSize    int
	now         func() time.Time
}

// JobRunnerConfig holds the runner collaborators
type JobRunnerConfig struct {
	Backends    connector.BackendRepository
	Scope       connector.TransactionScope
	WebServices connector.WebServiceFactory
	Queue       connector.JobQueue
	Images      connector.ImageStore
	Logger      *zap.Logger
	PageSize    int
	Now         func() time.Time
}

// NewJobRunner creates a job runner
func NewJobRunner(cfg JobRunnerConfig) *JobRunner {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &JobRunner{
		backends:    cfg.Backends,
		scope:       cfg.Scope,
		webservices: cfg.WebServices,
		queue:       cfg.Queue,
		images:      cfg.Images,
		logger:      logger,
		pageSize:    cfg.PageSize,
		now:         now,
	}
}

// Run executes one job. Errors for which connector.IsFatal is true must
// not be retried. When the jobs it scheduled could not be enqueued, Run
// returns an *EnqueueError and marks the job forced so that a retry does
// not stop at the up-to-date check.
func (r *JobRunner) Run(ctx context.Context, job *connector.Job) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "job_runner", string(job.Name),
		telemetry.WithAttribute(telemetry.SpanAttrJobID, job.ID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrBackendID, job.BackendID.String()),
	)
	defer span.End()

	backend, ws, err := r.open(ctx, job)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	err = r.execute(ctx, backend, ws, func(ctx context.Context, env *Environment) error {
		return r.dispatch(ctx, env, job)
	})
	var lost *EnqueueError
	if errors.As(err, &lost) {
		// the next attempt must run the after-import steps again
		job.Args.Force = true
	}
	if err != nil {
		telemetry.RecordError(span, err)
		r.logger.Warn("Job failed",
			zap.String("job_id", job.ID.String()),
			zap.String("job_name", string(job.Name)),
			zap.Bool("fatal", connector.IsFatal(err)),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *JobRunner) open(ctx context.Context, job *connector.Job) (*connector.Backend, connector.WebService, error) {
	backend, err := r.backends.FindByID(ctx, job.BackendID)
	if notFound(err) {
		return nil, nil, connector.NewValidationError(connector.CodeValidation, err, "backend %s", job.BackendID)
	}
	if err != nil {
		return nil, nil, err
	}
	ws, err := r.webservices.For(backend)
	if err != nil {
		return nil, nil, fmt.Errorf("web service for backend %s: %w", backend.Name, err)
	}
	return backend, ws, nil
}

// execute runs fn in a transaction and enqueues the jobs it scheduled
func (r *JobRunner) execute(ctx context.Context, backend *connector.Backend, ws connector.WebService, fn func(ctx context.Context, env *Environment) error) error {
	var env *Environment
	err := r.scope.Execute(ctx, func(ctx context.Context, repos connector.Repositories) error {
		env = NewEnvironment(backend, repos, ws, r.images, r.logger, r.now)
		return fn(ctx, env)
	})
	if err != nil {
		return err
	}
	return r.flush(ctx, env.Jobs())
}

func (r *JobRunner) flush(ctx context.Context, jobs []*connector.Job) error {
	var errs []error
	for _, job := range jobs {
		if _, err := r.queue.Enqueue(ctx, job); err != nil {
			errs = append(errs, fmt.Errorf("enqueue %s: %w", job.Name, err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &EnqueueError{Failed: len(errs), Total: len(jobs), Err: errors.Join(errs...)}
}

// EnqueueError reports jobs scheduled by a committed job that the queue
// refused. It is not fatal: the job is retried with Force set.
type EnqueueError struct {
	Failed int
	Total  int
	Err    error
}

func (e *EnqueueError) Error() string {
	return fmt.Sprintf("enqueue %d of %d scheduled jobs: %v", e.Failed, e.Total, e.Err)
}

func (e *EnqueueError) Unwrap() error {
	return e.Err
}

func (r *JobRunner) dispatch(ctx context.Context, env *Environment, job *connector.Job) error {
	imp := NewImporter(env)
	args := job.Args
	switch job.Name {
	case connector.JobImportRecord:
		_, err := imp.Import(ctx, args.Entity, args.ExternalID, args.Force)
		return err
	case connector.JobImportBatch:
		if !imp.Importable(args.Entity) {
			return connector.NewValidationError(connector.CodeValidation, connector.ErrUnknownEntity,
				"%s cannot be imported", args.Entity)
		}
		_, err := NewBatchImporter(env.WebService, r.pageSize, env.Logger).Delay(ctx, env, args.Entity, args.Filters)
		return err
	case connector.JobImportProductImage:
		_, err := imp.ImportProductImage(ctx, args.TemplateID, args.ImageID)
		return err
	case connector.JobSetProductImageVariant:
		return imp.SetProductImageVariant(ctx, args.Combinations)
	case connector.JobExportRecord:
		_, err := NewExporter(imp).Export(ctx, args.Entity, args.InternalID)
		return err
	}
	return connector.NewValidationError(connector.CodeValidation, connector.ErrUnknownJob, "job %q", job.Name)
}
