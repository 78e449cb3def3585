// Package ledger собирает HTTP API журнала: маршруты, зависимости и запуск сервера.
package ledger

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// регистрирует описание API для /docs
	_ "github.com/magabrotheeeer/finance-ledger/docs"

	"github.com/magabrotheeeer/finance-ledger/internal/config"
	"github.com/magabrotheeeer/finance-ledger/internal/http/handlers/entry/create"
	"github.com/magabrotheeeer/finance-ledger/internal/http/handlers/entry/listrecurring"
	"github.com/magabrotheeeer/finance-ledger/internal/http/handlers/entry/read"
	"github.com/magabrotheeeer/finance-ledger/internal/http/handlers/entry/remove"
	"github.com/magabrotheeeer/finance-ledger/internal/http/handlers/entry/setrecurring"
	"github.com/magabrotheeeer/finance-ledger/internal/http/handlers/entry/update"
	"github.com/magabrotheeeer/finance-ledger/internal/http/handlers/health"
	"github.com/magabrotheeeer/finance-ledger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/finance-ledger/internal/metrics"
	"github.com/magabrotheeeer/finance-ledger/internal/models"
)

// EntryService объединяет операции журнала, доступные через HTTP.
type EntryService interface {
	Create(ctx context.Context, userUID string, req models.CreateEntryRequest) (*models.Entry, error)
	Read(ctx context.Context, userUID string, id int64) (*models.Entry, error)
	Update(ctx context.Context, userUID string, id int64, req models.UpdateEntryRequest) (*models.Entry, error)
	SetRecurring(ctx context.Context, userUID string, id int64, req models.SetRecurringRequest) (*models.Entry, error)
	ListRecurring(ctx context.Context, userUID string) ([]*models.Entry, error)
	Delete(ctx context.Context, userUID string, id int64) error
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, service EntryService, tokens middlewarectx.TokenParser,
	httpMetrics *metrics.HTTP, limits config.HTTPServer, checks map[string]health.Check) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.MetricsMiddleware(httpMetrics),
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(tokens, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, limits.RateLimit, limits.RateBurst))
			r.Post("/entries", create.New(logger, service).ServeHTTP)
			r.Get("/entries/recurring", listrecurring.New(logger, service).ServeHTTP)
			r.Get("/entries/{id}", read.New(logger, service).ServeHTTP)
			r.Put("/entries/{id}", update.New(logger, service).ServeHTTP)
			r.Delete("/entries/{id}", remove.New(logger, service).ServeHTTP)
			r.Patch("/entries/{id}/recurring", setrecurring.New(logger, service).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, checks).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
