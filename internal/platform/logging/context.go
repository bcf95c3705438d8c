package logging

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

var defaultLogger = slog.Default()

// FromContext returns the request logger stored in ctx, or the default logger.
func FromContext(ctx context.Context) *slog.Logger {
	return FromContextOr(ctx, defaultLogger)
}

// FromContextOr returns the request logger stored in ctx, or fallback.
func FromContextOr(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if ctx == nil {
		return fallback
	}

	if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return logger
	}

	return fallback
}

// WithContext stores a logger in the context.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// WithRequestID tags the context logger with request_id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withAttr(ctx, "request_id", requestID)
}

// WithTraceID tags the context logger with trace_id.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return withAttr(ctx, "trace_id", traceID)
}

// WithCorrelationID tags the context logger with correlation_id.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return withAttr(ctx, "correlation_id", correlationID)
}

func withAttr(ctx context.Context, key, value string) context.Context {
	return WithContext(ctx, FromContext(ctx).With(slog.String(key, value)))
}

// SetDefault installs logger as the package and slog default.
func SetDefault(logger *slog.Logger) {
	defaultLogger = logger
	slog.SetDefault(logger)
}
