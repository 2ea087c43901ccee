package jobqueue

import (
	"context"
	"fmt"
	"time"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ImportTrigger schedules periodic imports. *ConnectorService from the
// application layer satisfies it.
type ImportTrigger interface {
	ListBackends(ctx context.Context) ([]connector.Backend, error)
	ImportSince(ctx context.Context, backendID uuid.UUID, entity connector.EntityType) (*connector.Job, error)
}

// CronConfig holds the cron specs of the periodic imports
type CronConfig struct {
	ProductsSchedule string
	PartnersSchedule string
	RunTimeout       time.Duration
}

// CronScheduler enqueues, for every backend, the import of products and
// customers updated since the previous run.
type CronScheduler struct {
	cfg     CronConfig
	trigger ImportTrigger
	cron    *cron.Cron
	logger  *zap.Logger
}

// NewCronScheduler registers the periodic imports. Specs use the standard
// five field format.
func NewCronScheduler(cfg CronConfig, trigger ImportTrigger, logger *zap.Logger) (*CronScheduler, error) {
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 5 * time.Minute
	}
	s := &CronScheduler{
		cfg:     cfg,
		trigger: trigger,
		cron:    cron.New(),
		logger:  logger,
	}
	entries := []struct {
		spec   string
		entity connector.EntityType
	}{
		{cfg.ProductsSchedule, connector.EntityProductTemplate},
		{cfg.PartnersSchedule, connector.EntityPartner},
	}
	for _, e := range entries {
		if e.spec == "" {
			continue
		}
		entity := e.entity
		if _, err := s.cron.AddFunc(e.spec, func() { s.runWithTimeout(entity) }); err != nil {
			return nil, fmt.Errorf("invalid schedule %q for %s: %w", e.spec, entity, err)
		}
	}
	return s, nil
}

// Start starts the cron loop
func (s *CronScheduler) Start() {
	s.cron.Start()
	s.logger.Info("Periodic imports scheduled",
		zap.String("products", s.cfg.ProductsSchedule),
		zap.String("partners", s.cfg.PartnersSchedule),
	)
}

// Stop stops the cron loop and waits for a running import to finish
func (s *CronScheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Periodic imports stopped")
}

// Entries returns the number of registered schedules
func (s *CronScheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *CronScheduler) runWithTimeout(entity connector.EntityType) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RunTimeout)
	defer cancel()
	s.Run(ctx, entity)
}

// Run enqueues the import of entity on every backend. A failing backend
// does not stop the others. It returns the number of scheduled backends.
func (s *CronScheduler) Run(ctx context.Context, entity connector.EntityType) int {
	backends, err := s.trigger.ListBackends(ctx)
	if err != nil {
		s.logger.Error("Failed to list backends", zap.Error(err))
		return 0
	}
	scheduled := 0
	for _, b := range backends {
		if _, err := s.trigger.ImportSince(ctx, b.ID, entity); err != nil {
			s.logger.Error("Failed to schedule periodic import",
				zap.String("backend", b.Name),
				zap.String("entity", entity.String()),
				zap.Error(err),
			)
			continue
		}
		scheduled++
	}
	return scheduled
}
