package observability

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// LogContext holds structured logging context information.
type LogContext struct {
	BuildID string
	Stage   string
	Plugin  string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// NewBuildID returns a fresh identifier for one lifecycle transition.
func NewBuildID() string {
	return uuid.NewString()
}

// WithBuildID adds a build ID to the context.
func WithBuildID(ctx context.Context, buildID string) context.Context {
	lc := extractLogContext(ctx)
	lc.BuildID = buildID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithStage adds a stage name to the context.
func WithStage(ctx context.Context, stage string) context.Context {
	lc := extractLogContext(ctx)
	lc.Stage = stage
	return context.WithValue(ctx, logContextKey, lc)
}

// WithPlugin adds a plugin identifier to the context.
func WithPlugin(ctx context.Context, plugin string) context.Context {
	lc := extractLogContext(ctx)
	lc.Plugin = plugin
	return context.WithValue(ctx, logContextKey, lc)
}

func extractLogContext(ctx context.Context) LogContext {
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

// Logger returns base annotated with the attributes stored in ctx.
func Logger(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	lc := extractLogContext(ctx)
	var args []any
	if lc.BuildID != "" {
		args = append(args, logfields.BuildID(lc.BuildID))
	}
	if lc.Stage != "" {
		args = append(args, logfields.Stage(lc.Stage))
	}
	if lc.Plugin != "" {
		args = append(args, logfields.Plugin(lc.Plugin))
	}
	if len(args) == 0 {
		return base
	}
	return base.With(args...)
}
