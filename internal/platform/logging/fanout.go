package logging

import (
	"context"
	"errors"
	"log/slog"
)

// fanoutHandler copies every record to each handler that accepts its level.
// The console and the rolling file sink are combined this way.
type fanoutHandler struct {
	handlers []slog.Handler
}

func newFanoutHandler(handlers ...slog.Handler) slog.Handler {
	if len(handlers) == 1 {
		return handlers[0]
	}

	return &fanoutHandler{handlers: handlers}
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, next := range h.handlers {
		if next.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

// Handle hands each sink its own clone of r and reports every sink failure.
func (h *fanoutHandler) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	var errs []error

	for _, next := range h.handlers {
		if !next.Enabled(ctx, r.Level) {
			continue
		}

		if err := next.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(next slog.Handler) slog.Handler { return next.WithAttrs(attrs) })
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(next slog.Handler) slog.Handler { return next.WithGroup(name) })
}

func (h *fanoutHandler) derive(fn func(slog.Handler) slog.Handler) slog.Handler {
	derived := make([]slog.Handler, len(h.handlers))
	for i, next := range h.handlers {
		derived[i] = fn(next)
	}

	return &fanoutHandler{handlers: derived}
}
