package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/route-fetch-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/route-fetch-service/internal/platform/config"
	"github.com/jsamuelsen/route-fetch-service/internal/platform/logging"
)

const (
	instrumentationName = "github.com/jsamuelsen/route-fetch-service/internal/adapters/clients"

	defaultTimeout = 30 * time.Second

	// Pool sizes used when TransportConfig leaves them unset.
	transportMaxIdleConns        = 100
	transportMaxIdleConnsPerHost = 10
	transportIdleConnTimeout     = 90 * time.Second

	// redactedValue replaces sensitive query parameter values in spans and logs.
	redactedValue = "REDACTED"
)

// Request outcomes recorded on http.client.request.total.
const (
	resultOK          = "ok"
	resultError       = "error"
	resultCircuitOpen = "circuit_open"
	resultCanceled    = "canceled"
)

// Config configures a provider client.
type Config struct {
	// BaseURL is the provider root, e.g. "https://api.openrouteservice.org".
	BaseURL string

	// ServiceName names the provider in logs, spans, metrics and the breaker.
	ServiceName string

	// Timeout bounds a single attempt. Retries and backoff come on top.
	Timeout time.Duration

	Retry     config.RetryConfig
	Circuit   config.CircuitBreakerConfig
	Transport config.TransportConfig

	// AuthFunc adds credentials to every attempt, retries included.
	AuthFunc func(*http.Request)

	// SensitiveQueryParams are query parameters whose values never reach spans or logs,
	// typically provider API keys passed in the URL.
	SensitiveQueryParams []string

	Logger *slog.Logger
}

// Client calls one routing provider with retries, a circuit breaker,
// request ID propagation and OpenTelemetry instrumentation.
type Client struct {
	http        *http.Client
	baseURL     string
	serviceName string
	cfg         *Config
	logger      *slog.Logger
	cb          *Breaker

	tracer          trace.Tracer
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
}

// New creates a provider client.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if cfg.ServiceName == "" {
		return nil, errors.New("service name is required")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "clients.Client"))

	cb := NewBreaker(cfg.ServiceName, BreakerSettingsFrom(cfg.Circuit),
		WithStateChange(func(name string, from, to State) {
			logger.Warn("circuit breaker state changed",
				slog.String("provider", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		}),
	)

	meter := otel.Meter(instrumentationName)

	requestDuration, err := meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("Duration of provider calls, retries included"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration metric: %w", err)
	}

	requestTotal, err := meter.Int64Counter(
		"http.client.request.total",
		metric.WithDescription("Provider calls by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	return &Client{
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: newTransport(cfg.Transport),
		},
		baseURL:         strings.TrimSuffix(cfg.BaseURL, "/"),
		serviceName:     cfg.ServiceName,
		cfg:             cfg,
		logger:          logger,
		cb:              cb,
		tracer:          otel.Tracer(instrumentationName),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
	}, nil
}

// Do sends req, retrying transport errors, 429 and 5xx answers.
// A 4xx other than 429 is returned as a response for the caller to map.
//
// Requests must be rewindable to be retried: no body, or GetBody set.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()
	logger := logging.FromContextOr(ctx, c.logger).With(
		slog.String("downstream", c.serviceName),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
	)

	if err := c.cb.Allow(); err != nil {
		c.recordMetrics(ctx, req.Method, 0, time.Since(start), resultCircuitOpen)
		logger.Warn("request blocked by circuit breaker")

		return nil, err
	}

	c.injectHeaders(ctx, req)

	ctx, span := c.tracer.Start(ctx, "HTTP "+req.Method+" "+c.serviceName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.HTTPRequestMethodKey.String(req.Method),
			semconv.URLFull(c.redactURL(req.URL)),
			semconv.PeerService(c.serviceName),
		),
	)
	defer span.End()

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.attempt(ctx, req, span, logger)

	return c.finish(ctx, req, resp, err, span, logger, start)
}

// attempt runs the retry loop and returns the first response worth handing
// back. Only a retryable failure on the last attempt is wrapped in
// ErrMaxRetriesExceeded; other errors come back as they are.
func (c *Client) attempt(ctx context.Context, req *http.Request, span trace.Span, logger *slog.Logger) (*http.Response, error) {
	maxAttempts := max(c.cfg.Retry.MaxAttempts, 1)

	for n := 1; ; n++ {
		resp, err := c.http.Do(req.WithContext(ctx))

		retry, retryAfter, err := c.classify(resp, err)
		if !retry {
			return resp, err
		}

		logger.Debug("provider attempt failed",
			slog.Int("attempt", n),
			slog.Any("error", err),
		)

		if n >= maxAttempts {
			return nil, fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, err)
		}

		delay := min(max(c.calculateBackoff(n-1), retryAfter), c.cfg.Retry.MaxInterval)
		span.AddEvent("retry", trace.WithAttributes(
			attribute.Int("attempt", n+1),
			attribute.String("delay", delay.String()),
		))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}

		// Credentials may have rotated while backing off.
		if c.cfg.AuthFunc != nil {
			c.cfg.AuthFunc(req)
		}
	}
}

// classify decides whether an attempt is retried. A retried response has its
// body closed and is turned into a *StatusError.
func (c *Client) classify(resp *http.Response, err error) (retry bool, retryAfter time.Duration, _ error) {
	if err != nil {
		return isRetryableError(err), 0, err
	}

	if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode < http.StatusInternalServerError {
		return false, 0, nil
	}

	retryAfter = parseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
	_ = resp.Body.Close()

	return true, retryAfter, &StatusError{Service: c.serviceName, StatusCode: resp.StatusCode}
}

// finish reports the call to the breaker, span, metrics and log.
// A call abandoned by the caller is released instead of counted as a failure.
func (c *Client) finish(
	ctx context.Context,
	req *http.Request,
	resp *http.Response,
	err error,
	span trace.Span,
	logger *slog.Logger,
	start time.Time,
) (*http.Response, error) {
	duration := time.Since(start)

	if err != nil {
		result := resultError
		if ctx.Err() != nil {
			c.cb.Release()
			result = resultCanceled
		} else {
			c.cb.Done(false)
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.recordMetrics(ctx, req.Method, 0, duration, result)
		logger.Error("provider request failed",
			slog.Duration("duration", duration),
			slog.Any("error", err),
		)

		return nil, err
	}

	c.cb.Done(true)

	span.SetAttributes(semconv.HTTPResponseStatusCode(resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, "HTTP "+strconv.Itoa(resp.StatusCode))
	}

	c.recordMetrics(ctx, req.Method, resp.StatusCode, duration, resultOK)
	logger.Debug("provider request completed",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", duration),
	)

	return resp, nil
}

// Get sends a GET for path relative to the base URL.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	return c.GetQuery(ctx, path, nil)
}

// GetQuery sends a GET for path with query merged into any parameters path carries.
func (c *Client) GetQuery(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(path), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if len(query) > 0 {
		q := req.URL.Query()
		for key, values := range query {
			for _, v := range values {
				q.Add(key, v)
			}
		}

		req.URL.RawQuery = q.Encode()
	}

	return c.Do(ctx, req)
}

// CircuitState returns the current state of the circuit breaker.
func (c *Client) CircuitState() State {
	return c.cb.State()
}

func (c *Client) injectHeaders(ctx context.Context, req *http.Request) {
	if requestID := middleware.RequestIDFromContext(ctx); requestID != "" {
		req.Header.Set(middleware.HeaderRequestID, requestID)
	}

	if correlationID := middleware.CorrelationIDFromContext(ctx); correlationID != "" {
		req.Header.Set(middleware.HeaderCorrelationID, correlationID)
	}

	if c.cfg.AuthFunc != nil {
		c.cfg.AuthFunc(req)
	}
}

func (c *Client) buildURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return c.baseURL + path
}

// redactURL renders u with sensitive query parameter values replaced.
func (c *Client) redactURL(u *url.URL) string {
	if len(c.cfg.SensitiveQueryParams) == 0 || u.RawQuery == "" {
		return u.Redacted()
	}

	q := u.Query()
	for key := range q {
		if slices.Contains(c.cfg.SensitiveQueryParams, key) {
			q.Set(key, redactedValue)
		}
	}

	clone := *u
	clone.RawQuery = q.Encode()

	return clone.Redacted()
}

// newTransport builds the pooled transport, falling back to defaults for unset values.
func newTransport(cfg config.TransportConfig) *http.Transport {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        transportMaxIdleConns,
		MaxIdleConnsPerHost: transportMaxIdleConnsPerHost,
		IdleConnTimeout:     transportIdleConnTimeout,
	}

	if cfg.MaxIdleConns > 0 {
		transport.MaxIdleConns = cfg.MaxIdleConns
	}

	if cfg.MaxIdleConnsPerHost > 0 {
		transport.MaxIdleConnsPerHost = cfg.MaxIdleConnsPerHost
	}

	if cfg.IdleConnTimeout > 0 {
		transport.IdleConnTimeout = cfg.IdleConnTimeout
	}

	return transport
}

// calculateBackoff returns InitialInterval * Multiplier^retry capped at
// MaxInterval, spread by ±JitterFactor.
func (c *Client) calculateBackoff(retry int) time.Duration {
	backoff := float64(c.cfg.Retry.InitialInterval) * math.Pow(c.cfg.Retry.Multiplier, float64(retry))
	backoff = math.Min(backoff, float64(c.cfg.Retry.MaxInterval))

	if jitter := c.cfg.Retry.JitterFactor; jitter > 0 {
		backoff += backoff * jitter * (rand.Float64()*2 - 1) //nolint:gosec // jitter needs no crypto randomness
	}

	return time.Duration(backoff)
}

// parseRetryAfter reads a Retry-After header given in seconds or as an HTTP
// date. Anything unusable yields zero.
func parseRetryAfter(value string, now time.Time) time.Duration {
	if value == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(max(seconds, 0)) * time.Second
	}

	if at, err := http.ParseTime(value); err == nil {
		return max(at.Sub(now), 0)
	}

	return 0
}

func (c *Client) recordMetrics(ctx context.Context, method string, statusCode int, duration time.Duration, result string) {
	attrs := []attribute.KeyValue{
		semconv.HTTPRequestMethodKey.String(method),
		semconv.PeerService(c.serviceName),
		attribute.String("result", result),
	}

	if statusCode > 0 {
		attrs = append(attrs, semconv.HTTPResponseStatusCode(statusCode))
	}

	set := metric.WithAttributes(attrs...)
	c.requestDuration.Record(ctx, duration.Seconds(), set)
	c.requestTotal.Add(ctx, 1, set)
}

// isRetryableError reports whether a transport error is worth another attempt.
// Cancellation never is.
func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}
