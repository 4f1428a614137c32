package api

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"crash-data-audit/internal/api/handler"
	"crash-data-audit/internal/config"
	"crash-data-audit/internal/metrics"
	"crash-data-audit/internal/pipeline"
	"crash-data-audit/internal/session"
	"crash-data-audit/internal/store"
	"crash-data-audit/pkg/utils"
)

// Serve wires the store, sessions and router from cfg and serves until ctx
// is cancelled.
func Serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.Store.DSN)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	output := utils.NewOutputManager(cfg.Output.Dir)
	if err := output.EnsureOutputDirExists(); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	m := metrics.New()
	sessions := session.NewRegistry(db, session.Options{
		Contract: cfg.Contract(),
		Location: loc,
		Parallel: cfg.Audit.Parallel,
		Retry:    cfg.Retry(),
		Logger:   logger,
		Metrics:  m,
	})
	h := handler.New(sessions, &pipeline.Exporter{Output: output, Logger: logger}, logger)

	r := NewRouter(h, Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		Metrics:     m,
		Logger:      logger,
	})
	logger.Info("serving crash data audit API",
		zap.String("addr", cfg.Server.Addr),
		zap.String("store", cfg.Store.DSN),
		zap.String("output", cfg.Output.Dir),
	)
	return r.Start(ctx, cfg.Server.Addr, cfg.Server.ShutdownTimeout.Duration())
}
