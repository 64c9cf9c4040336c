package telemetry

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quotation-wall/internal/platform/logging"
)

// HeaderTraceID carries the trace ID of a sampled request back to the client.
const HeaderTraceID = "X-Trace-ID"

type httpMetrics struct {
	duration metric.Float64Histogram
	total    metric.Int64Counter
	active   metric.Int64UpDownCounter
}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	duration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	total, err := meter.Int64Counter(
		"http.server.request.total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	active, err := meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Number of in-flight HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &httpMetrics{duration: duration, total: total, active: active}, nil
}

// Middleware returns the tracing and metrics handlers, in order. The first
// starts a span per request; the second records request metrics, adds the
// trace ID to the request logger and echoes it in X-Trace-ID.
func Middleware(serviceName string) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		otelgin.Middleware(serviceName),
		requestMetrics(otel.Meter(instrumentationName)),
	}
}

func requestMetrics(meter metric.Meter) gin.HandlerFunc {
	metrics, err := newHTTPMetrics(meter)
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()

		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			traceID := sc.TraceID().String()
			c.Header(HeaderTraceID, traceID)
			c.Request = c.Request.WithContext(logging.WithTraceID(ctx, traceID))
		}

		route := attribute.String("http.route", c.FullPath())
		method := attribute.String("http.method", c.Request.Method)

		if metrics != nil {
			inflight := metric.WithAttributes(method, route)
			metrics.active.Add(ctx, 1, inflight)
			defer metrics.active.Add(ctx, -1, inflight)
		}

		c.Next()

		if metrics == nil {
			return
		}

		done := metric.WithAttributes(method, route, attribute.Int("http.status_code", c.Writer.Status()))
		metrics.duration.Record(ctx, time.Since(start).Seconds(), done)
		metrics.total.Add(ctx, 1, done)
	}
}
