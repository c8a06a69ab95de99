package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type loggerKey struct{}

var fallbackLogger atomic.Pointer[slog.Logger]

func init() {
	fallbackLogger.Store(slog.Default())
}

// Default returns the logger used when a context carries none.
func Default() *slog.Logger {
	return fallbackLogger.Load()
}

// SetDefault replaces the fallback logger and the slog package default.
func SetDefault(logger *slog.Logger) {
	if logger == nil {
		return
	}

	fallbackLogger.Store(logger)
	slog.SetDefault(logger)
}

// FromContext returns the logger carried by ctx, or Default.
func FromContext(ctx context.Context) *slog.Logger {
	return FromContextOr(ctx, Default())
}

// FromContextOr returns the logger carried by ctx, or fallback.
func FromContextOr(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if ctx == nil {
		return fallback
	}

	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}

	return fallback
}

// WithContext stores logger in ctx.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// With derives the context logger with args appended, so every record logged
// through the returned context carries them. Middleware uses it for request
// and correlation IDs; route handlers add the itinerary and route kind.
func With(ctx context.Context, args ...any) context.Context {
	if len(args) == 0 {
		return ctx
	}

	return WithContext(ctx, FromContext(ctx).With(args...))
}
