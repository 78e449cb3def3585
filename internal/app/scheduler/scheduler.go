// Package scheduler содержит приложение планировщика повторяющихся записей.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/finance-ledger/internal/cache"
	"github.com/magabrotheeeer/finance-ledger/internal/config"
	"github.com/magabrotheeeer/finance-ledger/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/finance-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/finance-ledger/internal/metrics"
	schedulerservice "github.com/magabrotheeeer/finance-ledger/internal/services/scheduler"
	"github.com/magabrotheeeer/finance-ledger/internal/storage/repository"
)

// Sweeper выполняет один обход шаблонов.
type Sweeper interface {
	Sweep(ctx context.Context) (schedulerservice.SweepResult, error)
}

// App представляет приложение планировщика.
type App struct {
	cron          *cron.Cron
	metricsServer *http.Server
	conn          *amqp.Connection
	ch            *amqp.Channel
	db            *repository.Storage
	cache         *cache.Cache
	logger        *slog.Logger
	cronSpec      string
	sweeper       Sweeper
}

func waitForDB(ctx context.Context, db *repository.Storage) error {
	return repository.WaitReady(ctx, db, 10, 3*time.Second)
}

// New создает новый экземпляр приложения планировщика.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.LedgerExchange, rabbitmq.GetLedgerQueues())
	if err != nil {
		closeResources(nil, conn, nil, nil, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, nil, nil, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	if err := waitForDB(ctx, db); err != nil {
		closeResources(ch, conn, nil, db, logger)
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		closeResources(ch, conn, nil, db, logger)
		return nil, fmt.Errorf("cache not initialized: %w", err)
	}

	sweepMetrics := metrics.NewSweep(prometheus.DefaultRegisterer)
	publisher := rabbitmq.NewPublisher(ch, rabbitmq.LedgerExchange)
	schedulerService := schedulerservice.NewSchedulerService(db, cacheRedis, publisher, sweepMetrics, cfg.Scheduler, logger)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &App{
		cron: newCron(logger),
		metricsServer: &http.Server{
			Addr:              cfg.MetricsAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		conn:     conn,
		ch:       ch,
		db:       db,
		cache:    cacheRedis,
		logger:   logger,
		cronSpec: cfg.CronSpec,
		sweeper:  schedulerService,
	}, nil
}

func newCron(logger *slog.Logger) *cron.Cron {
	cronLog := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	return cron.New(
		cron.WithLocation(time.Local),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)
}

// sweepJob возвращает задачу cron, которая выполняет обход и логирует итог.
func sweepJob(ctx context.Context, sweeper Sweeper, logger *slog.Logger) func() {
	return func() {
		const op = "app.scheduler.sweepJob"
		log := logger.With(slog.String("op", op))

		res, err := sweeper.Sweep(ctx)
		switch {
		case errors.Is(err, schedulerservice.ErrSweepLocked):
			log.Info("sweep skipped, lock is held elsewhere")
		case err != nil:
			log.Error("sweep failed", slog.String("run_id", res.RunID), sl.Err(err))
		default:
			log.Info("sweep completed",
				slog.String("run_id", res.RunID),
				slog.Int("materialized", res.Materialized),
				slog.Int("failed", res.Failed),
			)
		}
	}
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, c *cache.Cache, db *repository.Storage, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if c != nil {
		if err := c.Close(); err != nil {
			logger.Error("failed to close cache", sl.Err(err))
		}
	}
	if db != nil {
		if err := db.Close(); err != nil {
			logger.Error("failed to close storage", sl.Err(err))
		}
	}
}

// Run регистрирует обход в cron и держит процесс до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	if _, err := a.cron.AddFunc(a.cronSpec, sweepJob(ctx, a.sweeper, a.logger)); err != nil {
		closeResources(a.ch, a.conn, a.cache, a.db, a.logger)
		return fmt.Errorf("invalid cron spec %q: %w", a.cronSpec, err)
	}

	go func() {
		a.logger.Info("metrics server starting on", slog.String("address", a.metricsServer.Addr))
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", sl.Err(err))
		}
	}()

	a.cron.Start()
	a.logger.Info("recurring scheduler started", slog.String("cron_spec", a.cronSpec))

	<-ctx.Done()

	a.logger.Info("shutting down scheduler service")
	<-a.cron.Stop().Done()

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.metricsServer.Shutdown(timeoutCtx); err != nil {
		a.logger.Error("failed to stop metrics server", sl.Err(err))
	}

	closeResources(a.ch, a.conn, a.cache, a.db, a.logger)
	return nil
}
