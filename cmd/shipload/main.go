package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/shipload/internal/config"
	"github.com/JonMunkholm/shipload/internal/logging"
	"github.com/JonMunkholm/shipload/internal/pipeline"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	inputDir  string
	dbPath    string
	table     string
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "shipload",
		Short: "Load shipment spreadsheets into a SQLite shipments table",
		Long: `shipload reads up to three shipment spreadsheets from a directory,
normalizes their differing schemas into one canonical record shape, and
appends the result to a SQLite shipments table.

A run always completes: a source that fails to read or normalize is
reported and skipped, and the remaining sources are still processed.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.inputDir, "input", "", "directory containing input spreadsheets (overrides SHIPLOAD_INPUT_DIR)")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "SQLite database file (default: <input>/shipping_data.db)")
	cmd.Flags().StringVar(&opts.table, "table", "", "destination table name (overrides SHIPLOAD_TABLE)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", "", "log format: text or json")

	return cmd
}

func run(ctx context.Context, opts rootOptions) error {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	applyFlags(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.ResolveDatabasePath()

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx = logging.WithRunID(ctx, uuid.NewString())
	logger := logging.FromContext(ctx)

	logger.Info("configuration loaded",
		"input_dir", cfg.Input.Dir,
		"db_path", cfg.Database.Path,
		"table", cfg.Database.Table,
	)

	report := pipeline.Run(ctx, cfg)
	summarize(logger, report)

	// Failures inside the run are reported above; once configuration has
	// parsed, the process exits 0 regardless.
	return nil
}

// applyFlags overrides env-derived configuration with explicit CLI flags.
func applyFlags(cfg *config.Config, opts rootOptions) {
	if opts.inputDir != "" {
		cfg.Input.Dir = opts.inputDir
	}
	if opts.dbPath != "" {
		cfg.Database.Path = opts.dbPath
	}
	if opts.table != "" {
		cfg.Database.Table = opts.table
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Logging.Format = opts.logFormat
	}
}

// summarize emits one structured log line per stage outcome.
func summarize(logger *slog.Logger, report *pipeline.Report) {
	if report.Err != nil {
		logger.Error("run failed", "error", report.Err)
		return
	}

	for _, src := range report.Sources {
		if src.Err != nil {
			logger.Warn("source skipped", "label", src.Label, "path", src.Path, "error", src.Err)
		}
	}

	logBatch(logger, report.Direct)
	logBatch(logger, report.Merged)

	logger.Info("run complete",
		"table_rows", report.TableRows,
		"failed", report.Failed(),
	)
}

func logBatch(logger *slog.Logger, b *pipeline.BatchResult) {
	if b == nil {
		return
	}
	if b.Err != nil {
		logger.Warn("batch skipped", "batch", b.Label, "error", b.Err)
		return
	}
	logger.Info("batch complete", "batch", b.Label, "normalized", b.Normalized, "appended", b.Appended)
}
