// Package logging provides structured logging configuration using log/slog.
//
// A run identifier can be attached to the context so that every log entry
// from one invocation carries the same run_id, keeping runs distinguishable
// when several append to the same log stream.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Setup configures the global slog logger based on level and format.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
func Setup(level, format string) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type runIDKey struct{}

// WithRunID returns a context carrying the invocation's run identifier.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// FromContext returns a logger enriched with the run ID when present.
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()

	if id, ok := ctx.Value(runIDKey{}).(string); ok && id != "" {
		logger = logger.With("run_id", id)
	}

	return logger
}

// WithFields returns a logger with additional structured fields, useful for
// operation-specific loggers that carry consistent context through a
// multi-step process.
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
