package domain

import (
	"fmt"
	"strings"
)

// RouteKind selects the provider's planning mode.
type RouteKind string

// Route kinds understood by the journey planner.
const (
	RouteKindBalanced RouteKind = "balanced"
	RouteKindFastest  RouteKind = "fastest"
	RouteKindQuietest RouteKind = "quietest"
	RouteKindShortest RouteKind = "shortest"

	// RouteKindLeisure plans a circular journey from a single start point.
	RouteKindLeisure RouteKind = "leisure"
)

// RouteKinds lists every supported kind in display order.
var RouteKinds = []RouteKind{
	RouteKindBalanced,
	RouteKindFastest,
	RouteKindQuietest,
	RouteKindShortest,
	RouteKindLeisure,
}

// IsCircular reports whether the kind plans a circular (leisure) journey.
func (k RouteKind) IsCircular() bool {
	return k == RouteKindLeisure
}

// Valid reports whether the kind is one of RouteKinds.
func (k RouteKind) Valid() bool {
	for _, known := range RouteKinds {
		if k == known {
			return true
		}
	}

	return false
}

// ParseRouteKind converts user input into a RouteKind. Matching is case-insensitive.
func ParseRouteKind(s string) (RouteKind, error) {
	kind := RouteKind(strings.ToLower(strings.TrimSpace(s)))
	if !kind.Valid() {
		return "", NewValidationErrorWithValue("kind", "unknown route kind", s)
	}

	return kind, nil
}

// Waypoint is a point the route must pass through.
type Waypoint struct {
	Latitude  float64
	Longitude float64

	// Sequence is the 1-based position of the waypoint in the journey.
	Sequence int
}

// String renders the waypoint as "lon,lat", the order routing providers expect.
func (w Waypoint) String() string {
	return fmt.Sprintf("%g,%g", w.Longitude, w.Latitude)
}

// RouteRequest describes a single route to obtain from the provider.
// A non-zero Itinerary replays a stored route instead of planning a new one.
type RouteRequest struct {
	Kind      RouteKind
	Itinerary int64
	Speed     int
	Waypoints []Waypoint

	// Distance and Duration are optional targets for circular journeys.
	Distance *int
	Duration *int

	// POITypes filters points of interest on circular journeys. Empty means no filter.
	POITypes string

	// SaveRoute tells the host whether the resulting route should be persisted.
	SaveRoute bool

	// Alternative marks the request as an alternative route for a journey already shown.
	Alternative bool
}

// HasItinerary reports whether the request replays a stored itinerary.
func (r *RouteRequest) HasItinerary() bool {
	return r.Itinerary > 0
}

// Validate checks the request invariants before anything is sent to the provider.
func (r *RouteRequest) Validate() error {
	if !r.Kind.Valid() {
		return NewValidationErrorWithValue("kind", "unknown route kind", string(r.Kind))
	}

	if r.Itinerary < 0 {
		return NewValidationErrorWithValue("itinerary", "must not be negative", r.Itinerary)
	}

	if r.Speed < 0 {
		return NewValidationErrorWithValue("speed", "must not be negative", r.Speed)
	}

	if r.Distance != nil && *r.Distance < 0 {
		return NewValidationErrorWithValue("distance", "must not be negative", *r.Distance)
	}

	if r.Duration != nil && *r.Duration < 0 {
		return NewValidationErrorWithValue("duration", "must not be negative", *r.Duration)
	}

	if !r.HasItinerary() && len(r.Waypoints) == 0 {
		return NewValidationError("waypoints", "at least one waypoint is required without an itinerary")
	}

	for i, wp := range r.Waypoints {
		if wp.Latitude < -90 || wp.Latitude > 90 {
			return NewValidationErrorWithValue(fmt.Sprintf("waypoints[%d].latitude", i), "must be between -90 and 90", wp.Latitude)
		}

		if wp.Longitude < -180 || wp.Longitude > 180 {
			return NewValidationErrorWithValue(fmt.Sprintf("waypoints[%d].longitude", i), "must be between -180 and 180", wp.Longitude)
		}
	}

	return nil
}

// AppWaypoint is a waypoint in the application route document.
type AppWaypoint struct {
	Latitude   string `json:"latitude"`
	Longitude  string `json:"longitude"`
	SequenceID string `json:"sequenceId"`
}

// RouteSummary is the route-level record of the application route document.
// Field names are part of the wire format read by downstream consumers.
type RouteSummary struct {
	Start              string `json:"start"`
	Finish             string `json:"finish"`
	StartBearing       string `json:"startBearing"`
	StartSpeed         string `json:"startSpeed"`
	StartLongitude     string `json:"start_longitude"`
	StartLatitude      string `json:"start_latitude"`
	FinishLongitude    string `json:"finish_longitude"`
	FinishLatitude     string `json:"finish_latitude"`
	CrowFlyDistance    string `json:"crow_fly_distance"`
	Event              string `json:"event"`
	Whence             string `json:"whence"`
	Speed              string `json:"speed"`
	Itinerary          string `json:"itinerary"`
	ClientRouteID      string `json:"clientRouteId"`
	Plan               string `json:"plan"`
	Note               string `json:"note"`
	Length             string `json:"length"`
	Time               string `json:"time"`
	Busynance          string `json:"busynance"`
	Quietness          string `json:"quietness"`
	SignalledJunctions string `json:"signalledJunctions"`
	SignalledCrossings string `json:"signalledCrossings"`
	West               string `json:"west"`
	South              string `json:"south"`
	East               string `json:"east"`
	North              string `json:"north"`
	Name               string `json:"name"`
	Walk               string `json:"walk"`
	Leaving            string `json:"leaving"`
	Arriving           string `json:"arriving"`
	Coordinate         string `json:"coordinate"`
	Elevation          string `json:"elevation"`
	Distances          string `json:"distances"`
	GrammesCO2Saved    string `json:"grammesCO2saved"`
	Calories           string `json:"calories"`
	Edition            string `json:"edition"`
	Type               string `json:"type"`
}

// Segment is one turn-by-turn leg of the application route document.
type Segment struct {
	Name               string `json:"name"`
	LegNumber          string `json:"legNumber"`
	Distance           string `json:"distance"`
	Time               string `json:"time"`
	Busynance          string `json:"busynance"`
	Quietness          string `json:"quietness"`
	Flow               string `json:"flow"`
	Walk               string `json:"walk"`
	SignalledJunctions string `json:"signalledJunctions"`
	SignalledCrossings string `json:"signalledCrossings"`
	Turn               string `json:"turn"`
	StartBearing       string `json:"startBearing"`
	Color              string `json:"color"`
	Points             string `json:"points"`
	Distances          string `json:"distances"`
	Elevations         string `json:"elevations"`
	ProvisionName      string `json:"provisionName"`
	Type               string `json:"type"`
}

// AppRouteDocument is the application route schema produced from a provider response.
type AppRouteDocument struct {
	Waypoints []AppWaypoint `json:"waypoints"`
	Route     RouteSummary  `json:"route"`
	Segments  []Segment     `json:"segments"`
}

// RouteData is the successful outcome of a route fetch.
// Ownership passes to the caller, which decides whether to persist it.
type RouteData struct {
	// Document is the translated application route.
	Document *AppRouteDocument

	// JSON is Document serialized in the application wire format.
	JSON []byte

	// Waypoints are the waypoints of the originating request.
	Waypoints []Waypoint

	SaveRoute   bool
	Alternative bool
}
