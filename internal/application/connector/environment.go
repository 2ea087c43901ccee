package connector

import (
	"context"
	"fmt"
	"time"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/domain/connector/mapping"
	"go.uber.org/zap"
)

// Environment carries what one job needs: the backend, the repositories of
// the job transaction, the shop client and the jobs scheduled by the run.
// Scheduled jobs are buffered and handed to the queue after commit.
type Environment struct {
	Backend    *connector.Backend
	Repos      connector.Repositories
	WebService connector.WebService
	Images     connector.ImageStore
	Binder     connector.Binder
	Logger     *zap.Logger
	Now        func() time.Time

	jobs      []*connector.Job
	scheduled map[string]bool
	records   map[recordKey]connector.Record
	countries map[int64]string
}

type recordKey struct {
	entity connector.EntityType
	id     int64
}

// NewEnvironment creates an environment bound to one transaction
func NewEnvironment(
	backend *connector.Backend,
	repos connector.Repositories,
	ws connector.WebService,
	images connector.ImageStore,
	logger *zap.Logger,
	now func() time.Time,
) *Environment {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Environment{
		Backend:    backend,
		Repos:      repos,
		WebService: ws,
		Images:     images,
		Binder:     connector.NewRepositoryBinder(backend.ID, repos.Bindings(), now),
		Logger:     logger.With(zap.String("backend_id", backend.ID.String())),
		Now:        now,
		scheduled:  make(map[string]bool),
		records:    make(map[recordKey]connector.Record),
		countries:  make(map[int64]string),
	}
}

// Read returns a remote record. Records are read once per environment.
func (e *Environment) Read(ctx context.Context, entity connector.EntityType, id int64) (connector.Record, error) {
	key := recordKey{entity: entity, id: id}
	if record, ok := e.records[key]; ok {
		return record, nil
	}
	record, err := e.WebService.Read(ctx, entity.Resource(), id)
	if err != nil {
		return nil, fmt.Errorf("read %s %d: %w", entity.Resource(), id, err)
	}
	e.records[key] = record
	return record, nil
}

// Schedule buffers a job. Jobs with an identity key already scheduled by
// this environment are dropped.
func (e *Environment) Schedule(job *connector.Job) {
	if job.IdentityKey != "" {
		if e.scheduled[job.IdentityKey] {
			return
		}
		e.scheduled[job.IdentityKey] = true
	}
	e.jobs = append(e.jobs, job)
	e.Logger.Debug("Job scheduled",
		zap.String("job_name", string(job.Name)),
		zap.Int("priority", job.Priority),
	)
}

// Jobs returns the buffered jobs in scheduling order
func (e *Environment) Jobs() []*connector.Job {
	return e.jobs
}

// mappingEnv builds the rule context for one import
func (e *Environment) mappingEnv(lookup mapping.Lookup) *mapping.Env {
	return &mapping.Env{
		Backend: e.Backend,
		Binder:  e.Binder,
		Lookup:  lookup,
		Now:     e.Now,
	}
}
