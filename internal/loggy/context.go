package loggy

import (
	"context"

	"github.com/tildaslashalef/prreview/internal/ulid"
)

type contextKey string

const (
	loggerKey contextKey = "logger"
	runIDKey  contextKey = "run_id"
)

// FromContext retrieves the logger from the context, falling back to the global logger
func FromContext(ctx context.Context) *Logger {
	if ctx == nil {
		return globalLogger
	}

	if logger, ok := ctx.Value(loggerKey).(*Logger); ok {
		return logger
	}

	return globalLogger
}

// WithLogger returns a new context with the logger attached
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// GetRunID retrieves the analysis run ID from the context
func GetRunID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}

	return ""
}

// WithRunID returns a new context carrying the run ID. The logger stored in
// the context, if any, is tagged with the same ID.
func WithRunID(ctx context.Context, runID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, runIDKey, runID)
	if logger := FromContext(ctx); logger != nil {
		ctx = WithLogger(ctx, logger.With("run_id", runID))
	}
	return ctx
}

// NewRunID generates a new run ID using ULID
func NewRunID() string {
	return ulid.RunID()
}
