package acl

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jsamuelsen/route-fetch-service/internal/adapters/clients"
	"github.com/jsamuelsen/route-fetch-service/internal/domain"
	"github.com/jsamuelsen/route-fetch-service/internal/platform/logging"
	"github.com/jsamuelsen/route-fetch-service/internal/ports"
)

const (
	// openJourneyPath is the OpenRouteService cycling directions endpoint.
	openJourneyPath = "/v2/directions/cycling-regular"

	// openRouteHealthPath is the OpenRouteService health endpoint.
	openRouteHealthPath = "/v2/health"

	// journeyPath serves both circular planning and stored itineraries on CycleStreets.
	journeyPath = "/api/journey.json"
)

// RouteQueryParams are the query parameters that carry provider credentials.
var RouteQueryParams = []string{"api_key", "key"}

// JourneyPlannerConfig contains configuration for the journey planner.
type JourneyPlannerConfig struct {
	// OpenRoute is the client for point-to-point journeys.
	// Its BaseURL should be the OpenRouteService API endpoint.
	OpenRoute *clients.Client

	// CycleStreets is the client for circular journeys and stored itineraries.
	// API keys are injected through the client's AuthFunc.
	CycleStreets *clients.Client

	// Logger is the structured logger.
	Logger *slog.Logger
}

// JourneyPlanner implements ports.JourneyPlanner over OpenRouteService and CycleStreets.
type JourneyPlanner struct {
	openRoute    Endpoint
	cycleStreets Endpoint
	logger       *slog.Logger
}

// NewJourneyPlanner creates a journey planner adapter.
// Panics if either client is nil. Defaults logger to slog.Default() if nil.
func NewJourneyPlanner(cfg JourneyPlannerConfig) *JourneyPlanner {
	if cfg.OpenRoute == nil || cfg.CycleStreets == nil {
		panic("JourneyPlanner: OpenRoute and CycleStreets clients are required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &JourneyPlanner{
		openRoute:    NewEndpoint(cfg.OpenRoute, "open-route-service"),
		cycleStreets: NewEndpoint(cfg.CycleStreets, "cyclestreets"),
		logger:       logger,
	}
}

// OpenJourney plans a cycling journey from the first to the last waypoint.
// Implements ports.JourneyPlanner.
func (p *JourneyPlanner) OpenJourney(ctx context.Context, apiKey string, waypoints []domain.Waypoint) (string, error) {
	if err := requireValue(apiKey, "api_key"); err != nil {
		return "", err
	}

	if len(waypoints) == 0 {
		return "", domain.NewValidationError("waypoints", "open journey needs at least one waypoint")
	}

	start := waypoints[0]
	end := waypoints[len(waypoints)-1]

	p.logger.DebugContext(ctx, "planning open journey",
		slog.String("start", start.String()),
		slog.String("end", end.String()),
	)

	query := url.Values{
		"api_key": {apiKey},
		"start":   {start.String()},
		"end":     {end.String()},
	}

	raw, err := p.openRoute.FetchText(ctx, openJourneyPath, query, "open journey", "")
	if err != nil {
		return "", err
	}

	logging.Trace(ctx, p.logger, "open journey response", slog.Int("bytes", len(raw)))

	return raw, nil
}

// CircularJourney plans a leisure journey on CycleStreets.
// Implements ports.JourneyPlanner.
func (p *JourneyPlanner) CircularJourney(ctx context.Context, params ports.CircularJourneyParams) (string, error) {
	if len(params.Waypoints) == 0 {
		return "", domain.NewValidationError("waypoints", "circular journey needs a start waypoint")
	}

	query := url.Values{
		"plan":            {string(domain.RouteKindLeisure)},
		"itinerarypoints": {itineraryPoints(params.Waypoints)},
		"speed":           {strconv.Itoa(params.Speed)},
	}

	if params.Distance != nil {
		query.Set("distance", strconv.Itoa(*params.Distance))
	}

	if params.Duration != nil {
		query.Set("duration", strconv.Itoa(*params.Duration))
	}

	if params.POITypes != "" {
		query.Set("poitypes", params.POITypes)
	}

	p.logger.DebugContext(ctx, "planning circular journey",
		slog.Int("waypoints", len(params.Waypoints)),
		slog.Int("speed", params.Speed),
	)

	raw, err := p.cycleStreets.FetchText(ctx, journeyPath, query, "circular journey", "")
	if err != nil {
		return "", err
	}

	logging.Trace(ctx, p.logger, "circular journey response", slog.Int("bytes", len(raw)))

	return raw, nil
}

// RetrievePreviousJourney fetches a stored itinerary from CycleStreets.
// Implements ports.JourneyPlanner.
func (p *JourneyPlanner) RetrievePreviousJourney(ctx context.Context, kind domain.RouteKind, itinerary int64) (string, error) {
	id := strconv.FormatInt(itinerary, 10)

	p.logger.DebugContext(ctx, "retrieving stored journey",
		slog.String("itinerary", id),
		slog.String("kind", string(kind)),
	)

	query := url.Values{
		"itinerary": {id},
		"plan":      {string(kind)},
	}

	raw, err := p.cycleStreets.FetchText(ctx, journeyPath, query, "retrieve journey", id)
	if err != nil {
		return "", err
	}

	logging.Trace(ctx, p.logger, "stored journey response", slog.Int("bytes", len(raw)))

	return raw, nil
}

// itineraryPoints renders waypoints in CycleStreets order: "lon,lat,label|...".
func itineraryPoints(waypoints []domain.Waypoint) string {
	parts := make([]string, 0, len(waypoints))
	for i, wp := range waypoints {
		label := wp.Sequence
		if label == 0 {
			label = i + 1
		}

		parts = append(parts, fmt.Sprintf("%s,%d", wp.String(), label))
	}

	return strings.Join(parts, "|")
}

// QueryKeyAuth returns an AuthFunc that adds the given key as a query parameter.
// An empty key leaves requests untouched.
func QueryKeyAuth(param, key string) func(*http.Request) {
	return func(r *http.Request) {
		if key == "" {
			return
		}

		q := r.URL.Query()
		q.Set(param, key)
		r.URL.RawQuery = q.Encode()
	}
}

// ProviderHealth reports the health of one routing provider.
// Implements ports.HealthChecker.
type ProviderHealth struct {
	endpoint Endpoint
	path     string
}

// OpenRouteHealth returns a health checker calling the OpenRouteService health endpoint.
func (p *JourneyPlanner) OpenRouteHealth() *ProviderHealth {
	return &ProviderHealth{endpoint: p.openRoute, path: openRouteHealthPath}
}

// CycleStreetsHealth returns a health checker based on the CycleStreets circuit breaker.
// CycleStreets has no unauthenticated probe endpoint.
func (p *JourneyPlanner) CycleStreetsHealth() *ProviderHealth {
	return &ProviderHealth{endpoint: p.cycleStreets}
}

// Name returns the health check name.
func (h *ProviderHealth) Name() string {
	return h.endpoint.Name()
}

// Check reports an error when the provider is unreachable or its circuit is open.
func (h *ProviderHealth) Check(ctx context.Context) error {
	client := h.endpoint.Client()
	if client.CircuitState() == clients.StateOpen {
		return fmt.Errorf("%s: %w", h.endpoint.Name(), clients.ErrCircuitOpen)
	}

	if h.path == "" {
		return nil
	}

	resp, err := client.Get(ctx, h.path)
	if err != nil {
		return fmt.Errorf("%s: %w", h.endpoint.Name(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", h.endpoint.Name(), resp.StatusCode)
	}

	return nil
}
