package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"paddy-books/internal/config"
	"paddy-books/internal/db"
	"paddy-books/internal/observability"
	"paddy-books/migrations"
)

func main() {
	cfg, err := config.Load()
	logger := observability.InitLogger(observability.LogConfig{Level: "info"})
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger = observability.InitLogger(observability.LogConfig{Level: cfg.Log.Level, Format: cfg.Log.Format})

	if err := cfg.Validate(false); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	n, err := migrations.Apply(ctx, pool, logger)
	if err != nil {
		logger.Error("migration failed", "applied", n, "error", err)
		pool.Close()
		os.Exit(1)
	}
	logger.Info("all migrations processed", "applied", n)
}
