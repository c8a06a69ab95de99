// Package app contains application services that orchestrate use cases.
// This is the application layer in Clean Architecture - it coordinates
// domain logic and infrastructure through ports.
//
// Application Layer Responsibilities:
//   - Orchestrate use cases (business workflows)
//   - Coordinate between domain and infrastructure
//   - Handle cross-cutting concerns (logging, metrics)
//
// What does NOT belong here:
//   - HTTP or CLI specifics (that's adapters and cmd)
//   - Provider payload formats (that's the acl package)
//   - Core domain rules (that's the domain layer)
package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/jsamuelsen/route-fetch-service/internal/domain"
	"github.com/jsamuelsen/route-fetch-service/internal/platform/logging"
	"github.com/jsamuelsen/route-fetch-service/internal/ports"
)

// OperationFetchRoute names the route pipeline in logs and metrics.
const OperationFetchRoute = "route.fetch"

// RouteServiceConfig contains the dependencies of the route service.
type RouteServiceConfig struct {
	Planner    ports.JourneyPlanner
	Detector   ports.ErrorDetector
	Translator ports.RouteTranslator

	// APIKey is the point-to-point journey credential.
	APIKey string

	// NotFoundMessage is the message used for error members without text.
	NotFoundMessage string

	// DefaultSpeed is used for circular journeys when the request has none.
	DefaultSpeed int

	// Observer receives one notification per Run. Optional.
	Observer ExecutionObserver

	Logger *slog.Logger
}

// RouteService runs the route fetch pipeline: fetch the raw provider payload,
// check it for a missing route or a reported error, then translate it into the
// application route document.
//
// Example usage:
//
//	svc := app.NewRouteService(app.RouteServiceConfig{
//	    Planner:    planner,
//	    Detector:   acl.NewJSONErrorDetector(),
//	    Translator: translator,
//	})
//	data, err := svc.Run(ctx, domain.RouteRequest{Kind: domain.RouteKindQuietest, Itinerary: 86294665})
type RouteService struct {
	fetcher         *RouteFetcher
	detector        ports.ErrorDetector
	translator      ports.RouteTranslator
	notFoundMessage string
	executor        *Executor
	logger          *slog.Logger
}

// NewRouteService creates the route service.
// Panics if Planner, Detector or Translator is nil.
func NewRouteService(cfg RouteServiceConfig) *RouteService {
	if cfg.Translator == nil {
		panic("RouteService: Translator is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "app.RouteService"))

	fetcher := NewRouteFetcher(RouteFetcherConfig{
		Planner:         cfg.Planner,
		Detector:        cfg.Detector,
		APIKey:          cfg.APIKey,
		NotFoundMessage: cfg.NotFoundMessage,
		DefaultSpeed:    cfg.DefaultSpeed,
		Logger:          logger,
	})

	var opts []ExecutorOption
	if cfg.Observer != nil {
		opts = append(opts, WithObserver(cfg.Observer))
	}

	return &RouteService{
		fetcher:         fetcher,
		detector:        cfg.Detector,
		translator:      cfg.Translator,
		notFoundMessage: fetcher.notFoundMessage,
		executor:        NewExecutor(logger, opts...),
		logger:          logger,
	}
}

// Run fetches and translates one route.
//
// The returned error wraps exactly one of domain.ErrValidation,
// domain.ErrContactFailure, domain.ErrNotFound, domain.ErrServerReported or
// domain.ErrMalformedResponse.
func (s *RouteService) Run(ctx context.Context, req domain.RouteRequest) (*domain.RouteData, error) {
	ctx = logging.WithContext(ctx, s.requestLogger(ctx, &req))

	return Execute(ctx, s.executor, Operation[*domain.RouteRequest, string, *domain.AppRouteDocument, *domain.RouteData]{
		Name: OperationFetchRoute,
		Validate: func(_ context.Context, r *domain.RouteRequest) error {
			return r.Validate()
		},
		Perform: s.fetcher.Fetch,
		Verify:  s.verify,
		Respond: respond,
	}, &req)
}

// RunAll runs every request with at most limit in flight and returns one
// result per request, in order. Requests share no state.
func (s *RouteService) RunAll(ctx context.Context, limit int, reqs []domain.RouteRequest) []BatchResult {
	return runBatch(ctx, limit, reqs, s.Run)
}

// verify turns a raw payload into a route document or the failure it describes.
func (s *RouteService) verify(ctx context.Context, req *domain.RouteRequest, raw string) (*domain.AppRouteDocument, error) {
	if raw == NoResult {
		return nil, domain.NewNotFoundErrorWithMessage("route", itineraryID(req), s.notFoundMessage)
	}

	message, found, err := s.detector.DetectError(raw, s.notFoundMessage)
	if err != nil {
		return nil, domain.NewContactFailureError(err)
	}

	if found {
		return nil, domain.NewServerReportedError(message)
	}

	doc, err := s.translator.Translate(ctx, raw)
	if err != nil {
		if domain.IsMalformedResponse(err) {
			return nil, err
		}

		return nil, domain.NewMalformedResponseError("", err)
	}

	return doc, nil
}

func respond(_ context.Context, req *domain.RouteRequest, doc *domain.AppRouteDocument) (*domain.RouteData, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	return &domain.RouteData{
		Document:    doc,
		JSON:        data,
		Waypoints:   req.Waypoints,
		SaveRoute:   req.SaveRoute,
		Alternative: req.Alternative,
	}, nil
}

func (s *RouteService) requestLogger(ctx context.Context, req *domain.RouteRequest) *slog.Logger {
	logger := logging.FromContextOr(ctx, s.logger)

	attrs := []any{slog.String("route_kind", string(req.Kind))}
	if req.HasItinerary() {
		attrs = append(attrs, slog.Int64("itinerary", req.Itinerary))
	} else {
		attrs = append(attrs, slog.Int("waypoints", len(req.Waypoints)))
	}

	return logger.With(attrs...)
}

func itineraryID(req *domain.RouteRequest) string {
	if !req.HasItinerary() {
		return ""
	}

	return strconv.FormatInt(req.Itinerary, 10)
}
