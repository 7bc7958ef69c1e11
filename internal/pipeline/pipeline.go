// Package pipeline wires discovery, normalization, and storage into the
// one-shot load: read each labeled source, normalize through whichever
// reconciliation path its shape requires, and append the canonical records
// to the shipments table. A failing source never aborts the others.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/shipload/internal/config"
	"github.com/JonMunkholm/shipload/internal/dataset"
	"github.com/JonMunkholm/shipload/internal/logging"
	"github.com/JonMunkholm/shipload/internal/normalize"
	"github.com/JonMunkholm/shipload/internal/store"
)

// Run executes a complete load and returns the per-stage report. The run
// always completes; errors are carried in the report, not returned. The
// store is held for the schema-ensure, append, and verification steps and
// released on every exit path.
func Run(ctx context.Context, cfg *config.Config) *Report {
	logger := logging.FromContext(ctx)
	report := &Report{}

	sources, err := Discover(cfg.Input.Dir)
	if err != nil {
		report.Err = err
		logger.Error("discover sources", "dir", cfg.Input.Dir, "error", err)
		return report
	}
	if sources.Empty() {
		report.Err = fmt.Errorf("no input spreadsheets found in %s", cfg.Input.Dir)
		logger.Error("discover sources", "dir", cfg.Input.Dir, "error", report.Err)
		return report
	}

	direct := report.loadSource(logger, "direct", sources.Direct)
	quantities := report.loadSource(logger, "quantities", sources.Quantity)
	routing := report.loadSource(logger, "routing", sources.Routing)

	st, err := store.Open(cfg.Database.Path, cfg.Database.Table)
	if err != nil {
		report.Err = err
		logger.Error("open store", "path", cfg.Database.Path, "error", err)
		return report
	}
	defer st.Close()

	if err := st.EnsureSchema(ctx); err != nil {
		report.Err = err
		logger.Error("ensure schema", "table", cfg.Database.Table, "error", err)
		return report
	}

	if direct != nil {
		report.Direct = appendBatch(ctx, st, logger, "direct", func() ([]normalize.Record, error) {
			return normalize.DirectMap(direct)
		})
	}
	if quantities != nil && routing != nil {
		report.Merged = appendBatch(ctx, st, logger, "split-merge", func() ([]normalize.Record, error) {
			return normalize.SplitMerge(quantities, routing)
		})
	}

	if n, err := st.Count(ctx); err != nil {
		logger.Warn("verify row count", "table", cfg.Database.Table, "error", err)
	} else {
		report.TableRows = n
		logger.Info("table verified", "table", cfg.Database.Table, "rows", n)
	}

	return report
}

// loadSource reads one labeled source if a file was discovered for it,
// recording the outcome. A read failure yields nil so the caller skips the
// reconciliation paths that need this source.
func (r *Report) loadSource(logger *slog.Logger, label, path string) *dataset.Dataset {
	if path == "" {
		return nil
	}

	res := SourceResult{Label: label, Path: path}
	ds, err := dataset.ReadFile(path)
	if err != nil {
		res.Err = err
		r.Sources = append(r.Sources, res)
		logger.Error("read source", "label", label, "path", path, "error", err)
		return nil
	}

	res.Columns = ds.Columns
	res.Rows = len(ds.Rows)
	r.Sources = append(r.Sources, res)
	logger.Info("source loaded", "label", label, "path", path, "rows", len(ds.Rows), "columns", ds.Columns)
	return ds
}

func appendBatch(ctx context.Context, st *store.Store, logger *slog.Logger, label string, fn func() ([]normalize.Record, error)) *BatchResult {
	res := &BatchResult{Label: label}

	records, err := fn()
	if err != nil {
		res.Err = err
		logger.Error("normalize", "batch", label, "error", err)
		return res
	}
	res.Normalized = len(records)

	n, err := st.Append(ctx, records)
	if err != nil {
		res.Err = err
		logger.Error("append", "batch", label, "error", err)
		return res
	}
	res.Appended = n
	logger.Info("batch appended", "batch", label, "records", n)
	return res
}
