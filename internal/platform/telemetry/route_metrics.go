package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jsamuelsen/route-fetch-service/internal/domain"
)

// Route outcomes reported on route.fetch metrics.
const (
	OutcomeSuccess        = "success"
	OutcomeValidation     = "validation"
	OutcomeContactFailure = "contact_failure"
	OutcomeNotFound       = "not_found"
	OutcomeServerReported = "server_reported"
	OutcomeMalformed      = "malformed"
	OutcomeError          = "error"
)

// RouteMetrics records one data point per route pipeline run.
type RouteMetrics struct {
	total    metric.Int64Counter
	duration metric.Float64Histogram
}

// NewRouteMetrics creates route pipeline metrics on the global meter provider.
func NewRouteMetrics() (*RouteMetrics, error) {
	return NewRouteMetricsWithMeter(otel.Meter(instrumentationName))
}

// NewRouteMetricsWithMeter creates route pipeline metrics on meter.
func NewRouteMetricsWithMeter(meter metric.Meter) (*RouteMetrics, error) {
	total, err := meter.Int64Counter(
		"route.fetch.total",
		metric.WithDescription("Total number of route fetches by outcome"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"route.fetch.duration",
		metric.WithDescription("Route fetch duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &RouteMetrics{total: total, duration: duration}, nil
}

// ObserveExecution records the outcome of a pipeline run.
func (m *RouteMetrics) ObserveExecution(ctx context.Context, operation string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", Outcome(err)),
	)

	m.total.Add(ctx, 1, attrs)
	m.duration.Record(ctx, duration.Seconds(), attrs)
}

// Outcome classifies a route pipeline error.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case domain.IsValidation(err):
		return OutcomeValidation
	case domain.IsContactFailure(err):
		return OutcomeContactFailure
	case domain.IsNotFound(err):
		return OutcomeNotFound
	case domain.IsServerReported(err):
		return OutcomeServerReported
	case domain.IsMalformedResponse(err):
		return OutcomeMalformed
	default:
		return OutcomeError
	}
}
