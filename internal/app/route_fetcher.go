package app

import (
	"context"
	"log/slog"

	"github.com/jsamuelsen/route-fetch-service/internal/domain"
	"github.com/jsamuelsen/route-fetch-service/internal/platform/config"
	"github.com/jsamuelsen/route-fetch-service/internal/ports"
)

// NoResult is the literal body the provider returns when it has no route.
const NoResult = "null"

// RouteFetcherConfig contains configuration for the route fetcher.
type RouteFetcherConfig struct {
	Planner  ports.JourneyPlanner
	Detector ports.ErrorDetector

	// APIKey is sent with point-to-point journeys.
	APIKey string

	// NotFoundMessage is passed to the detector for error members without text.
	NotFoundMessage string

	// DefaultSpeed is used for circular journeys when the request has none.
	DefaultSpeed int

	Logger *slog.Logger
}

// RouteFetcher picks the provider call for a request and returns its raw payload.
type RouteFetcher struct {
	planner         ports.JourneyPlanner
	detector        ports.ErrorDetector
	apiKey          string
	notFoundMessage string
	defaultSpeed    int
	logger          *slog.Logger
}

// NewRouteFetcher creates a route fetcher.
// Panics if Planner or Detector is nil.
func NewRouteFetcher(cfg RouteFetcherConfig) *RouteFetcher {
	if cfg.Planner == nil || cfg.Detector == nil {
		panic("RouteFetcher: Planner and Detector are required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	notFound := cfg.NotFoundMessage
	if notFound == "" {
		notFound = config.DefaultNotFoundMessage
	}

	speed := cfg.DefaultSpeed
	if speed <= 0 {
		speed = config.DefaultRouteSpeed
	}

	return &RouteFetcher{
		planner:         cfg.Planner,
		detector:        cfg.Detector,
		apiKey:          cfg.APIKey,
		notFoundMessage: notFound,
		defaultSpeed:    speed,
		logger:          logger,
	}
}

// Fetch returns the provider's raw JSON for req.
//
// A stored itinerary whose lookup yields no result, or a reported error, is
// looked up once more as a leisure route and that second answer is returned
// as-is. Every failure is a *domain.ContactFailureError.
func (f *RouteFetcher) Fetch(ctx context.Context, req *domain.RouteRequest) (string, error) {
	raw, err := f.fetch(ctx, req)
	if err != nil {
		return "", domain.NewContactFailureError(err)
	}

	return raw, nil
}

func (f *RouteFetcher) fetch(ctx context.Context, req *domain.RouteRequest) (string, error) {
	switch {
	case req.HasItinerary():
		return f.retrieve(ctx, req)
	case req.Kind.IsCircular():
		speed := req.Speed
		if speed <= 0 {
			speed = f.defaultSpeed
		}

		return f.planner.CircularJourney(ctx, ports.CircularJourneyParams{
			Waypoints: req.Waypoints,
			Distance:  req.Distance,
			Duration:  req.Duration,
			POITypes:  req.POITypes,
			Speed:     speed,
		})
	default:
		return f.planner.OpenJourney(ctx, f.apiKey, req.Waypoints)
	}
}

func (f *RouteFetcher) retrieve(ctx context.Context, req *domain.RouteRequest) (string, error) {
	raw, err := f.planner.RetrievePreviousJourney(ctx, req.Kind, req.Itinerary)
	if err != nil {
		return "", err
	}

	retry, err := f.needsFallback(raw)
	if err != nil {
		return "", err
	}

	if !retry {
		return raw, nil
	}

	f.logger.InfoContext(ctx, "stored itinerary unavailable, retrying as leisure",
		slog.Int64("itinerary", req.Itinerary),
		slog.String("kind", string(req.Kind)),
	)

	return f.planner.RetrievePreviousJourney(ctx, domain.RouteKindLeisure, req.Itinerary)
}

// needsFallback reports whether a stored itinerary answer should be retried as leisure.
func (f *RouteFetcher) needsFallback(raw string) (bool, error) {
	if raw == NoResult {
		return true, nil
	}

	_, found, err := f.detector.DetectError(raw, f.notFoundMessage)
	if err != nil {
		return false, err
	}

	return found, nil
}
