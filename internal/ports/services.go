// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrUnavailable, etc.)
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"

	"github.com/jsamuelsen/route-fetch-service/internal/domain"
)

// CircularJourneyParams describes a leisure journey that starts and ends at the
// first waypoint.
type CircularJourneyParams struct {
	Waypoints []domain.Waypoint

	// Distance and Duration are optional targets. Nil means the provider decides.
	Distance *int
	Duration *int

	// POITypes is a comma separated filter. Empty means no filter.
	POITypes string

	// Speed is the cycling speed in km/h.
	Speed int
}

// JourneyPlanner is the routing provider API.
// Every method returns the provider's raw JSON text trimmed of surrounding
// whitespace. A stored itinerary that does not exist may come back as the
// literal text "null" rather than an error.
type JourneyPlanner interface {
	// OpenJourney plans a point-to-point journey from the first to the last waypoint.
	OpenJourney(ctx context.Context, apiKey string, waypoints []domain.Waypoint) (string, error)

	// CircularJourney plans a leisure journey.
	CircularJourney(ctx context.Context, params CircularJourneyParams) (string, error)

	// RetrievePreviousJourney fetches a stored itinerary planned with the given kind.
	RetrievePreviousJourney(ctx context.Context, kind domain.RouteKind, itinerary int64) (string, error)
}

// ErrorDetector finds an error reported inside an otherwise successful payload.
type ErrorDetector interface {
	// DetectError reports whether raw carries a top-level "Error" member and,
	// if so, its message. defaultMessage is used when the member has no usable text.
	// A non-nil error means raw is not valid JSON.
	DetectError(raw, defaultMessage string) (message string, found bool, err error)
}

// RouteTranslator converts a provider route document into the application route schema.
type RouteTranslator interface {
	// Translate returns domain.ErrMalformedResponse when raw does not have the
	// expected shape.
	Translate(ctx context.Context, raw string) (*domain.AppRouteDocument, error)
}

// RouteRunner runs the route fetch pipeline for a single request.
// Host layers such as the HTTP handlers and the CLI depend on it.
type RouteRunner interface {
	Run(ctx context.Context, req domain.RouteRequest) (*domain.RouteData, error)
}
