package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	webAdapter "paddy-books/internal/adapters/web"
	"paddy-books/internal/ai"
	"paddy-books/internal/app"
	"paddy-books/internal/config"
	"paddy-books/internal/db"
	"paddy-books/internal/events"
	"paddy-books/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.InitLogger(observability.LogConfig{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err := cfg.Validate(true); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.KafkaEnabled() {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		logger.Info("publishing events to kafka", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}
	defer publisher.Close()

	var interpreter ai.SaleInterpreter
	if cfg.OpenAI.APIKey != "" {
		interpreter = ai.NewAgent(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	} else {
		logger.Warn("OPENAI_API_KEY is not set; AI sale entry is disabled")
	}

	metrics := observability.NewMetrics()
	svc := app.NewAppService(app.NewServices(pool), app.Options{
		Agent:           interpreter,
		Publisher:       publisher,
		Metrics:         metrics,
		Logger:          logger,
		DefaultBusiness: cfg.BusinessCode,
	})

	handler := webAdapter.NewHandler(svc, webAdapter.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		JWTSecret:      cfg.Server.JWTSecret,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		Metrics:        metrics,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
