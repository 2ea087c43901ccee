package jobqueue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/infrastructure/cache"
	"github.com/google/uuid"
)

var errTransient = errors.New("connection reset")

// recordingRunner records executed jobs and fails according to failFn
type recordingRunner struct {
	mu     sync.Mutex
	calls  []*connector.Job
	failFn func(job *connector.Job, attempt int) error
}

func (r *recordingRunner) Run(_ context.Context, job *connector.Job) error {
	r.mu.Lock()
	r.calls = append(r.calls, job)
	attempt := 0
	for _, c := range r.calls {
		if c.ID == job.ID {
			attempt++
		}
	}
	r.mu.Unlock()
	if r.failFn != nil {
		return r.failFn(job, attempt)
	}
	return nil
}

func (r *recordingRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *recordingRunner) names() []connector.JobName {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]connector.JobName, 0, len(r.calls))
	for _, c := range r.calls {
		out = append(out, c.Name)
	}
	return out
}

func testConfig() Config {
	return Config{
		Workers:     1,
		QueueSize:   16,
		MaxRetries:  2,
		RetryDelay:  time.Millisecond,
		JobTimeout:  time.Second,
		IdentityTTL: time.Hour,
	}
}

func newStore() *cache.MemoryIdentityStore {
	return cache.NewMemoryIdentityStore(time.Hour)
}

func importJob(backendID uuid.UUID, externalID int64) *connector.Job {
	return connector.NewJob(connector.JobImportRecord, backendID, connector.JobArgs{
		Entity:     connector.EntityProductTemplate,
		ExternalID: externalID,
	}).WithIdentity(connector.EntityProductTemplate, externalID)
}
