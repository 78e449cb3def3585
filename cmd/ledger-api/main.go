// Package main запускает HTTP API журнала личных финансов.
//
// @title           Finance Ledger API
// @version         1.0
// @description     API журнала личных финансов с повторяющимися записями

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/finance-ledger/internal/app/ledger"
	"github.com/magabrotheeeer/finance-ledger/internal/config"
	"github.com/magabrotheeeer/finance-ledger/internal/lib/logger"
	"github.com/magabrotheeeer/finance-ledger/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	log := logger.Setup(cfg.Env)

	log.Info("starting ledger-api", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := ledger.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	log.Info("ledger-api stopped gracefully")
}
