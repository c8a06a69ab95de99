package dto

import (
	"github.com/jsamuelsen/route-fetch-service/internal/domain"
)

// WaypointRequest is one point of a planned journey.
type WaypointRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

// RouteRequest is the body of POST /api/v1/routes.
// Waypoints are required unless an itinerary is replayed.
type RouteRequest struct {
	Kind        string            `json:"kind" validate:"required,routekind"`
	Itinerary   int64             `json:"itinerary,omitempty" validate:"gte=0"`
	Speed       int               `json:"speed,omitempty" validate:"gte=0"`
	Waypoints   []WaypointRequest `json:"waypoints" validate:"required_without=Itinerary,dive"`
	Distance    *int              `json:"distance,omitempty" validate:"omitempty,gte=0"`
	Duration    *int              `json:"duration,omitempty" validate:"omitempty,gte=0"`
	POITypes    string            `json:"poiTypes,omitempty" validate:"poitypes"`
	SaveRoute   bool              `json:"saveRoute"`
	Alternative bool              `json:"alternative"`
}

// ToDomain converts the request into a domain route request.
// Waypoint sequence numbers follow the body order, starting at 1.
func (r *RouteRequest) ToDomain() (domain.RouteRequest, error) {
	kind, err := domain.ParseRouteKind(r.Kind)
	if err != nil {
		return domain.RouteRequest{}, err
	}

	waypoints := make([]domain.Waypoint, 0, len(r.Waypoints))
	for i, wp := range r.Waypoints {
		waypoints = append(waypoints, domain.Waypoint{
			Latitude:  deref(wp.Latitude),
			Longitude: deref(wp.Longitude),
			Sequence:  i + 1,
		})
	}

	return domain.RouteRequest{
		Kind:        kind,
		Itinerary:   r.Itinerary,
		Speed:       r.Speed,
		Waypoints:   waypoints,
		Distance:    r.Distance,
		Duration:    r.Duration,
		POITypes:    r.POITypes,
		SaveRoute:   r.SaveRoute,
		Alternative: r.Alternative,
	}, nil
}

// ItineraryPath binds the :id segment of GET /api/v1/routes/itineraries/:id.
type ItineraryPath struct {
	ID int64 `uri:"id" validate:"gt=0"`
}

// ItineraryQuery binds the query of GET /api/v1/routes/itineraries/:id.
type ItineraryQuery struct {
	Kind string `form:"kind" validate:"omitempty,routekind"`
}

// ToDomain builds the replay request for a stored itinerary. Kind defaults to balanced.
func (q *ItineraryQuery) ToDomain(id int64) (domain.RouteRequest, error) {
	kind := domain.RouteKindBalanced

	if q.Kind != "" {
		parsed, err := domain.ParseRouteKind(q.Kind)
		if err != nil {
			return domain.RouteRequest{}, err
		}

		kind = parsed
	}

	return domain.RouteRequest{Kind: kind, Itinerary: id}, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}

	return *v
}
