package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	app "github.com/binovo/connector-prestashop/internal/application/connector"
	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/infrastructure/cache"
	"github.com/binovo/connector-prestashop/internal/infrastructure/config"
	"github.com/binovo/connector-prestashop/internal/infrastructure/jobqueue"
	"github.com/binovo/connector-prestashop/internal/infrastructure/logger"
	"github.com/binovo/connector-prestashop/internal/infrastructure/persistence"
	"github.com/binovo/connector-prestashop/internal/infrastructure/storage"
	"github.com/binovo/connector-prestashop/internal/infrastructure/telemetry"
	"github.com/binovo/connector-prestashop/internal/infrastructure/webservice"
	"github.com/binovo/connector-prestashop/internal/interfaces/http/handler"
	"github.com/binovo/connector-prestashop/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting PrestaShop connector",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("jobs_driver", cfg.Jobs.Driver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	images, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize image storage", zap.Error(err))
	}

	identities := cache.NewIdentityStore(ctx, cfg.Redis, log)
	defer func() { _ = identities.Close() }()

	workerCfg := jobqueue.Config{
		Workers:     cfg.Jobs.Workers,
		QueueSize:   cfg.Jobs.QueueSize,
		MaxRetries:  cfg.Jobs.MaxRetries,
		RetryDelay:  cfg.Jobs.RetryDelay,
		JobTimeout:  cfg.Jobs.JobTimeout,
		IdentityTTL: cfg.Jobs.IdentityTTL,
	}

	var (
		queue     connector.JobQueue
		startJobs func(runner jobqueue.Runner)
		stopJobs  func(ctx context.Context)
	)
	switch cfg.Jobs.Driver {
	case config.JobDriverKafka:
		kafkaCfg := jobqueue.KafkaConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic, GroupID: cfg.Kafka.GroupID}
		publisher := jobqueue.NewKafkaPublisher(kafkaCfg, identities, cfg.Jobs.IdentityTTL, log)
		var consumer *jobqueue.KafkaConsumer
		queue = publisher
		startJobs = func(runner jobqueue.Runner) {
			consumer = jobqueue.NewKafkaConsumer(kafkaCfg, workerCfg, runner, identities, log)
			_ = consumer.Start(ctx)
		}
		stopJobs = func(context.Context) {
			if err := consumer.Stop(); err != nil {
				log.Warn("Failed to stop job consumer", zap.Error(err))
			}
			_ = publisher.Close()
		}
	default:
		pool := jobqueue.NewPool(workerCfg, identities, log)
		queue = pool
		startJobs = func(runner jobqueue.Runner) { _ = pool.Start(ctx, runner) }
		stopJobs = func(ctx context.Context) {
			if err := pool.Stop(ctx); err != nil {
				log.Warn("Failed to stop job pool", zap.Error(err))
			}
		}
	}

	runner := app.NewJobRunner(app.JobRunnerConfig{
		Backends: persistence.NewGormBackendRepository(db.DB),
		Scope:    persistence.NewGormTransactionScope(db.DB),
		WebServices: webservice.NewFactory(webservice.Config{
			Timeout:       cfg.WebService.Timeout,
			RetryCount:    cfg.WebService.RetryCount,
			RetryWaitTime: cfg.WebService.RetryWaitTime,
			Debug:         cfg.WebService.Debug,
		}, log),
		Queue:    queue,
		Images:   images,
		Logger:   log,
		PageSize: cfg.WebService.PageSize,
	})
	service := app.NewConnectorService(runner)
	startJobs(runner)

	var scheduler *jobqueue.CronScheduler
	if cfg.Scheduler.Enabled {
		scheduler, err = jobqueue.NewCronScheduler(jobqueue.CronConfig{
			ProductsSchedule: cfg.Scheduler.ProductsSchedule,
			PartnersSchedule: cfg.Scheduler.PartnersSchedule,
		}, service, log)
		if err != nil {
			log.Fatal("Failed to schedule periodic imports", zap.Error(err))
		}
		scheduler.Start()
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine, err := router.New(handler.NewConnectorHandler(service), db, log)
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}
	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}
	go func() {
		log.Info("Operator API listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP server shutdown failed", zap.Error(err))
	}
	if scheduler != nil {
		scheduler.Stop()
	}
	stopJobs(shutdownCtx)
	if err := tracer.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer shutdown failed", zap.Error(err))
	}
}
