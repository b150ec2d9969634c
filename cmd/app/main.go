package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"paddy-books/internal/adapters/cli"
	"paddy-books/internal/adapters/repl"
	"paddy-books/internal/ai"
	"paddy-books/internal/app"
	"paddy-books/internal/config"
	"paddy-books/internal/db"
	"paddy-books/internal/events"
	"paddy-books/internal/observability"
)

// calculators run without a database.
var calculators = map[string]bool{
	"tiers": true, "tier": true, "level": true, "installment": true, "inst": true, "tax": true,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	// Log to stderr so command output on stdout stays clean.
	logger := observability.NewLogger(os.Stderr, observability.LogConfig{Level: cfg.Log.Level, Format: cfg.Log.Format})
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	args := os.Args[1:]
	if len(args) > 0 && calculators[args[0]] {
		svc := app.NewAppService(app.Services{}, app.Options{Logger: logger})
		exit(cli.Run(ctx, svc, args, os.Stdout))
		return
	}

	if err := cfg.Validate(false); err != nil {
		exit(err)
	}
	pool, err := db.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		exit(err)
	}
	defer pool.Close()

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.KafkaEnabled() {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	}
	defer publisher.Close()

	var interpreter ai.SaleInterpreter
	if cfg.OpenAI.APIKey != "" {
		interpreter = ai.NewAgent(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	}

	svc := app.NewAppService(app.NewServices(pool), app.Options{
		Agent:           interpreter,
		Publisher:       publisher,
		Logger:          logger,
		DefaultBusiness: cfg.BusinessCode,
	})

	if len(args) > 0 {
		err = cli.Run(ctx, svc, args, os.Stdout)
	} else {
		err = repl.Run(ctx, svc, bufio.NewReader(os.Stdin), os.Stdout)
	}
	if err != nil {
		publisher.Close()
		pool.Close()
		exit(err)
	}
}

func exit(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	if errors.Is(err, cli.ErrUsage) {
		os.Exit(2)
	}
	os.Exit(1)
}
