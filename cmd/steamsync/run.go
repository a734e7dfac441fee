package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	corecfg "github.com/steamopera/steamsync/internal/core/config"
	"github.com/steamopera/steamsync/internal/core/storage/postgres"
	"github.com/steamopera/steamsync/internal/metrics"
	"github.com/steamopera/steamsync/internal/migrations"
)

const metricsPushTimeout = 10 * time.Second

// instrument runs fn under a fresh run id, records its duration and pushes the
// registry when a Pushgateway is configured.
func instrument(ctx context.Context, cfg *corecfg.Config, command string, fn func(ctx context.Context) error) error {
	runID := uuid.NewString()
	slog.SetDefault(slog.Default().With("run_id", runID, "command", command))

	start := time.Now()
	slog.Info("[Run] Starting")

	err := fn(ctx)

	status := "success"
	if err != nil {
		status = "failure"
	} else {
		metrics.LastSuccess.WithLabelValues(command).SetToCurrentTime()
	}
	elapsed := time.Since(start)
	metrics.RunDuration.WithLabelValues(command, status).Observe(elapsed.Seconds())

	slog.Info("[Run] Finished", "status", status, "duration", elapsed)

	pushCtx, cancel := context.WithTimeout(context.Background(), metricsPushTimeout)
	defer cancel()
	if pushErr := metrics.Push(pushCtx, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); pushErr != nil {
		slog.Warn("[Run] Metrics push failed", "error", pushErr)
	}
	return err
}

// openStore connects, migrates when enabled and checks the schema.
func openStore(ctx context.Context, cfg corecfg.DatabaseConfig) (*postgres.Adapter, error) {
	db, err := postgres.Open(cfg.DSN, cfg.MaxOpenConns, cfg.MaxIdleConns)
	if err != nil {
		return nil, err
	}

	if err := migrations.RunMigrations(db, cfg.AutoMigrate); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	adapter := postgres.NewAdapter(db)
	if err := adapter.ValidateSchema(ctx); err != nil {
		adapter.Close()
		return nil, err
	}
	return adapter, nil
}
