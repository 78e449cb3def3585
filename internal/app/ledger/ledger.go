package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/finance-ledger/internal/cache"
	"github.com/magabrotheeeer/finance-ledger/internal/config"
	"github.com/magabrotheeeer/finance-ledger/internal/http/handlers/health"
	"github.com/magabrotheeeer/finance-ledger/internal/lib/jwt"
	"github.com/magabrotheeeer/finance-ledger/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/finance-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/finance-ledger/internal/metrics"
	"github.com/magabrotheeeer/finance-ledger/internal/migrations"
	ledgerservice "github.com/magabrotheeeer/finance-ledger/internal/services/ledger"
	"github.com/magabrotheeeer/finance-ledger/internal/storage/repository"
)

// App представляет HTTP API журнала.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	db      *repository.Storage
	cache   *cache.Cache
	conn    *amqp.Connection
	ch      *amqp.Channel
	service *ledgerservice.LedgerService
}

func waitForDB(ctx context.Context, db *repository.Storage) error {
	return repository.WaitReady(ctx, db, 10, 3*time.Second)
}

// New подключает хранилище, кеш и брокер, применяет миграции и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	if err = waitForDB(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache not initialized: %w", err)
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		closeResources(nil, nil, cacheRedis, db, logger)
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.LedgerExchange, rabbitmq.GetLedgerQueues())
	if err != nil {
		closeResources(nil, conn, cacheRedis, db, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	service := ledgerservice.NewLedgerService(db, cacheRedis, logger, cfg.CacheTTL)
	tokens := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, service, tokens, metrics.NewHTTP(prometheus.DefaultRegisterer), cfg.HTTPServer,
		map[string]health.Check{
			"postgres": db.DB.PingContext,
			"redis": func(ctx context.Context) error {
				return cacheRedis.Db.Ping(ctx).Err()
			},
		})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:  srv,
		logger:  logger,
		db:      db,
		cache:   cacheRedis,
		conn:    conn,
		ch:      ch,
		service: service,
	}, nil
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

// Run запускает потребителя событий планировщика и HTTP-сервер до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.MaterializedQueue, a.logger, func(body []byte) error {
		return a.service.HandleMaterialized(ctx, body)
	})
	if err != nil {
		a.logger.Error("failed to start materialized events consumer", sl.Err(err))
		closeResources(a.ch, a.conn, a.cache, a.db, a.logger)
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err = a.server.Shutdown(timeoutCtx)
	}
	closeResources(a.ch, a.conn, a.cache, a.db, a.logger)
	return err
}
