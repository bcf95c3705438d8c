package telemetry

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/wine-catalog/internal/platform/logging"
)

// HeaderTraceID echoes the active trace id back to the client.
const HeaderTraceID = "X-Trace-ID"

// Metrics are the HTTP server instruments recorded per request.
type Metrics struct {
	duration metric.Float64Histogram
	total    metric.Int64Counter
	active   metric.Int64UpDownCounter
}

// NewMetrics creates the instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	var (
		m   Metrics
		err error
	)

	if m.duration, err = meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"), metric.WithUnit("s")); err != nil {
		return nil, err
	}

	if m.total, err = meter.Int64Counter("http.server.request.total",
		metric.WithDescription("Total number of HTTP requests")); err != nil {
		return nil, err
	}

	if m.active, err = meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Number of in-flight HTTP requests")); err != nil {
		return nil, err
	}

	return &m, nil
}

func (m *Metrics) begin(ctx context.Context, attrs attribute.Set) {
	m.active.Add(ctx, 1, metric.WithAttributeSet(attrs))
}

func (m *Metrics) end(ctx context.Context, attrs attribute.Set, status int, elapsed time.Duration) {
	m.active.Add(ctx, -1, metric.WithAttributeSet(attrs))

	done := metric.WithAttributeSet(attrs)
	withStatus := metric.WithAttributes(attribute.Int("http.status_code", status))
	m.duration.Record(ctx, elapsed.Seconds(), done, withStatus)
	m.total.Add(ctx, 1, done, withStatus)
}

// Middleware records request metrics for serviceName. Placed after
// TracingMiddleware it also tags the request logger with the trace id and
// echoes it in HeaderTraceID. Instrument errors go to otel.Handle and leave
// the middleware recording nothing.
func Middleware(serviceName string) gin.HandlerFunc {
	metrics, err := NewMetrics()
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			id := sc.TraceID().String()
			c.Request = c.Request.WithContext(logging.WithTraceID(ctx, id))
			c.Header(HeaderTraceID, id)
		}

		if metrics == nil {
			c.Next()
			return
		}

		attrs := attribute.NewSet(
			attribute.String("service.name", serviceName),
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", c.FullPath()),
		)
		start := time.Now()

		metrics.begin(ctx, attrs)
		defer func() {
			metrics.end(ctx, attrs, c.Writer.Status(), time.Since(start))
		}()

		c.Next()
	}
}

// TracingMiddleware starts a server span per request and extracts the
// propagated parent context.
func TracingMiddleware(serviceName string, opts ...otelgin.Option) gin.HandlerFunc {
	return otelgin.Middleware(serviceName, opts...)
}
