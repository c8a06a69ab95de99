package telemetry

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/jsamuelsen/route-fetch-service/telemetry"

	// HeaderTraceID carries the OpenTelemetry trace ID of the request back to the caller.
	HeaderTraceID = "X-Trace-ID"

	// unmatchedRoute labels requests that hit no registered route, keeping
	// metric cardinality bounded.
	unmatchedRoute = "unmatched"
)

// HTTPOption configures the HTTP middleware.
type HTTPOption func(*httpOptions)

type httpOptions struct {
	meter          metric.Meter
	tracerProvider trace.TracerProvider
}

// WithMeter records HTTP metrics on meter instead of the global meter provider.
func WithMeter(meter metric.Meter) HTTPOption {
	return func(o *httpOptions) {
		o.meter = meter
	}
}

// WithTracerProvider starts server spans on tp instead of the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) HTTPOption {
	return func(o *httpOptions) {
		o.tracerProvider = tp
	}
}

type httpMetrics struct {
	duration metric.Float64Histogram
	total    metric.Int64Counter
	active   metric.Int64UpDownCounter
}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	duration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("Duration of route API requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	total, err := meter.Int64Counter(
		"http.server.request.total",
		metric.WithDescription("Route API requests by route and status"),
	)
	if err != nil {
		return nil, err
	}

	active, err := meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Route API requests in flight"),
	)
	if err != nil {
		return nil, err
	}

	return &httpMetrics{duration: duration, total: total, active: active}, nil
}

// Middleware returns the server span handler followed by the metrics handler.
// Install them in the returned order:
//
//	engine.Use(telemetry.Middleware("route-fetch-service")...)
func Middleware(serviceName string, opts ...HTTPOption) []gin.HandlerFunc {
	o := httpOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	if o.meter == nil {
		o.meter = otel.Meter(instrumentationName)
	}

	var ginOpts []otelgin.Option
	if o.tracerProvider != nil {
		ginOpts = append(ginOpts, otelgin.WithTracerProvider(o.tracerProvider))
	}

	metrics, err := newHTTPMetrics(o.meter)
	if err != nil {
		// The API keeps serving without metrics.
		otel.Handle(err)
	}

	return []gin.HandlerFunc{
		otelgin.Middleware(serviceName, ginOpts...),
		metrics.handle,
	}
}

// handle exposes the trace ID and records one data point per request.
// A nil receiver only exposes the trace ID.
func (m *httpMetrics) handle(c *gin.Context) {
	ctx := c.Request.Context()

	// Set before the handler runs; headers written after the body are dropped.
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		c.Header(HeaderTraceID, sc.TraceID().String())
	}

	if m == nil {
		c.Next()
		return
	}

	route := c.FullPath()
	if route == "" {
		route = unmatchedRoute
	}

	inFlight := metric.WithAttributes(
		semconv.HTTPRequestMethodKey.String(c.Request.Method),
		semconv.HTTPRoute(route),
	)

	m.active.Add(ctx, 1, inFlight)
	defer m.active.Add(ctx, -1, inFlight)

	start := time.Now()

	c.Next()

	done := metric.WithAttributes(
		semconv.HTTPRequestMethodKey.String(c.Request.Method),
		semconv.HTTPRoute(route),
		semconv.HTTPResponseStatusCode(c.Writer.Status()),
		attribute.Bool("error", c.Writer.Status() >= 500),
	)

	m.duration.Record(ctx, time.Since(start).Seconds(), done)
	m.total.Add(ctx, 1, done)
}
