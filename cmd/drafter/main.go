// Command drafter runs the AI drafting worker. It polls for submitted
// questions, produces a draft and a humanized rewrite through the Anthropic
// API, and attaches the result so the question enters expert review.
//
// Exit codes: 0 = clean shutdown, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/askwell/askwell-backend/internal/adapter/postgres"
	"github.com/askwell/askwell-backend/internal/app"
	"github.com/askwell/askwell-backend/internal/app/drafter"
	"github.com/askwell/askwell-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	services := app.BuildServices(pool, cfg, logger)

	worker := drafter.New(logger, services.Question, drafter.NewClient(cfg.Drafter), cfg.Drafter)
	if err := worker.Run(ctx); err != nil {
		logger.Error("drafter failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
