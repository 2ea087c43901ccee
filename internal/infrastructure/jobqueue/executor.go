package jobqueue

import (
	"context"
	"time"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Runner executes one job. *connector.JobRunner from the application layer
// satisfies it.
type Runner interface {
	Run(ctx context.Context, job *connector.Job) error
}

// Config holds the worker settings shared by the drivers
type Config struct {
	Workers     int
	QueueSize   int
	MaxRetries  int
	RetryDelay  time.Duration
	JobTimeout  time.Duration
	IdentityTTL time.Duration
}

// DefaultConfig returns the default worker settings
func DefaultConfig() Config {
	return Config{
		Workers:     4,
		QueueSize:   1024,
		MaxRetries:  5,
		RetryDelay:  10 * time.Second,
		JobTimeout:  10 * time.Minute,
		IdentityTTL: time.Hour,
	}
}

// Outcome of one job execution
type Outcome int

const (
	OutcomeDone Outcome = iota
	OutcomeFatal
	OutcomeExhausted
	OutcomeCanceled
)

// executor runs a job, retrying transient failures with a linear backoff
type executor struct {
	runner Runner
	cfg    Config
	logger *zap.Logger
}

func (e *executor) execute(ctx context.Context, job *connector.Job) (Outcome, error) {
	ctx, log := logger.WithJobID(ctx, e.logger, job.ID.String())
	log = log.With(
		zap.String("job_name", string(job.Name)),
		zap.String("backend_id", job.BackendID.String()),
	)

	var err error
	for attempt := 0; ; attempt++ {
		err = e.attempt(ctx, job)
		if err == nil {
			log.Debug("Job done", zap.Int("attempt", attempt+1))
			return OutcomeDone, nil
		}
		if connector.IsFatal(err) {
			log.Error("Job failed permanently", zap.Error(err))
			return OutcomeFatal, err
		}
		if attempt >= e.cfg.MaxRetries {
			log.Error("Job retries exhausted", zap.Int("attempts", attempt+1), zap.Error(err))
			return OutcomeExhausted, err
		}

		delay := e.cfg.RetryDelay * time.Duration(attempt+1)
		log.Warn("Job failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return OutcomeCanceled, ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (e *executor) attempt(ctx context.Context, job *connector.Job) error {
	if e.cfg.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.JobTimeout)
		defer cancel()
	}
	return e.runner.Run(ctx, job)
}
