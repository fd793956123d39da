// Package trace tags each command invocation with a run id so that all log
// lines of one invocation can be correlated.
package trace

import (
	"context"
	"time"

	"github.com/google/uuid"

	applog "finance/internal/log"
)

// ContextKey type for context keys
type ContextKey string

const (
	// RunIDKey is the context key for the run id
	RunIDKey ContextKey = "run_id"
)

// NewRunID returns a random run id.
func NewRunID() string {
	return uuid.NewString()
}

// WithRunID stores id in ctx.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RunIDKey, id)
}

// RunIDFrom returns the run id stored in ctx, or "" when there is none.
func RunIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(RunIDKey).(string)
	return id
}

// Start assigns a run id to ctx and returns a logger carrying it. The returned
// func logs completion of the command together with its outcome.
func Start(ctx context.Context, logger *applog.Logger, command string) (context.Context, *applog.Logger, func(error)) {
	id := RunIDFrom(ctx)
	if id == "" {
		id = NewRunID()
		ctx = WithRunID(ctx, id)
	}
	runLogger := logger.With(applog.FieldRunID, id)
	start := time.Now()

	runLogger.DebugContext(ctx, "Command started", applog.FieldCommand, command)

	return ctx, runLogger, func(err error) {
		elapsed := time.Since(start).Milliseconds()
		if err != nil {
			runLogger.ErrorContext(ctx, "Command failed",
				applog.FieldCommand, command,
				applog.FieldDuration, elapsed,
				applog.FieldError, err)
			return
		}
		runLogger.DebugContext(ctx, "Command completed",
			applog.FieldCommand, command,
			applog.FieldDuration, elapsed)
	}
}
