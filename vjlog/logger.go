// Package vjlog constructs the structured logger used across the
// orchestrator, extractor, agent runtime, and aggregator.
//
// A logger is built once at process start (see cmd/vibejudge-worker) and
// threaded down through an explicit context rather than held in a
// package-level global, matching the donor SDK's "construct once at
// process start; never mutate" configuration discipline.
package vjlog

import (
	"context"
	"log/slog"
	"os"
)

// Config controls how the process-wide logger is constructed.
type Config struct {
	// Development selects a human-readable text handler instead of the
	// JSON handler used in production.
	Development bool

	// Level is the minimum level logged. Defaults to slog.LevelInfo.
	Level slog.Level
}

// New builds a *slog.Logger per cfg.
func New(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	if cfg.Development {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

// contextKey is an unexported type to avoid collisions with other
// packages' context keys.
type contextKey struct{}

var loggerKey = contextKey{}

// WithLogger returns a context carrying logger, retrievable with
// FromContext.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger attached to ctx, or slog.Default() if
// none was attached.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// ForJob returns a child logger scoped to one analysis job, attaching
// the job_id and hack_id fields once so pipeline stages do not need to
// repeat them on every call.
func ForJob(logger *slog.Logger, jobID, hackID string) *slog.Logger {
	return logger.With(slog.String("job_id", jobID), slog.String("hack_id", hackID))
}

// ForSubmission returns a child logger scoped to one submission.
func ForSubmission(logger *slog.Logger, subID string) *slog.Logger {
	return logger.With(slog.String("sub_id", subID))
}

// ForAgent returns a child logger scoped to one agent invocation.
func ForAgent(logger *slog.Logger, agent string) *slog.Logger {
	return logger.With(slog.String("agent", agent))
}
