// Command purchase-sweep settles stale pending purchases as failed. A
// purchase stays pending when the process dies between recording the intent
// and hearing back from the gateway; this sweep is the recovery path. It is
// intended to be invoked by an external cron job, not as an in-process
// goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/askwell/askwell-backend/internal/adapter/postgres"
	"github.com/askwell/askwell-backend/internal/app"
	"github.com/askwell/askwell-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	services := app.BuildServices(pool, cfg, logger)

	failed, err := services.Ledger.FailStalePending(ctx, cfg.Payment.StaleAfter, cfg.Payment.SweepBatch)
	if err != nil {
		logger.Error("sweep failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("sweep completed",
		slog.Int("failed", failed),
		slog.Duration("stale_after", cfg.Payment.StaleAfter),
	)
}
