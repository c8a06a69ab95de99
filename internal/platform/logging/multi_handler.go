package logging

import (
	"context"
	"errors"
	"log/slog"
)

// teeHandler duplicates every record to each of its sinks, typically the
// terminal handler and the rolling JSON file.
type teeHandler struct {
	sinks []slog.Handler
}

// Tee returns a handler that writes each record to every non-nil handler.
// Nested tees are flattened and a single handler is returned unwrapped.
func Tee(handlers ...slog.Handler) slog.Handler {
	sinks := make([]slog.Handler, 0, len(handlers))

	for _, h := range handlers {
		switch h := h.(type) {
		case nil:
		case *teeHandler:
			sinks = append(sinks, h.sinks...)
		default:
			sinks = append(sinks, h)
		}
	}

	if len(sinks) == 1 {
		return sinks[0]
	}

	return &teeHandler{sinks: sinks}
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, sink := range h.sinks {
		if sink.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

// Handle writes r to every sink enabled for its level. A failing sink does not
// stop the others; all failures are returned joined.
func (h *teeHandler) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	var errs []error

	for _, sink := range h.sinks {
		if !sink.Enabled(ctx, r.Level) {
			continue
		}

		if err := sink.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(sink slog.Handler) slog.Handler { return sink.WithAttrs(attrs) })
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(sink slog.Handler) slog.Handler { return sink.WithGroup(name) })
}

func (h *teeHandler) derive(f func(slog.Handler) slog.Handler) slog.Handler {
	sinks := make([]slog.Handler, len(h.sinks))
	for i, sink := range h.sinks {
		sinks[i] = f(sink)
	}

	return &teeHandler{sinks: sinks}
}
