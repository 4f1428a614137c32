// Package main implements the crashaudit CLI: audit, clean and summarise a
// crash report CSV from the command line, or serve the HTTP API.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"crash-data-audit/internal/config"
	"crash-data-audit/internal/logging"
	"crash-data-audit/internal/session"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app is the state shared by all commands, set up before each run.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger *zap.Logger
	loc    *time.Location
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "crashaudit",
		Short: "Audit and clean crash report datasets",
		Long: `crashaudit scores the data quality of a crash reports CSV, applies
cleaning steps and summarises the result.

Examples:
  # Audit a file
  crashaudit audit crashes.csv

  # Fill missing weather, fix dates and re-audit
  crashaudit clean crashes.csv --step "impute:Weather:Fill 'Unknown'" --step fix-dates --audit

  # Serve the HTTP API
  crashaudit serve --addr :8080`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { logging.Sync(a.logger) },
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", os.Getenv("CRASHAUDIT_CONFIG"), "path to config.yaml")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "console", "log format (console or json)")

	root.AddCommand(
		newAuditCmd(a),
		newCleanCmd(a),
		newInsightsCmd(a),
		newTrendCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") || cmd.Name() != "serve" {
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-format") || cmd.Name() != "serve" {
		cfg.Log.Format = a.logFormat
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	a.cfg, a.logger, a.loc = cfg, logger, loc
	return nil
}

// open starts a session and loads path into it.
func (a *app) open(ctx context.Context, path string) (*session.Session, error) {
	s := session.New(session.Options{
		Contract: a.cfg.Contract(),
		Location: a.loc,
		Parallel: a.cfg.Audit.Parallel,
		Retry:    a.cfg.Retry(),
		Logger:   a.logger,
	})
	if err := s.Load(ctx, path); err != nil {
		return nil, err
	}
	return s, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
