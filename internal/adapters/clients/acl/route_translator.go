package acl

import (
	"context"
	"log/slog"
	"time"

	"github.com/jsamuelsen/route-fetch-service/internal/domain"
	"github.com/jsamuelsen/route-fetch-service/internal/platform/config"
	"github.com/jsamuelsen/route-fetch-service/internal/platform/logging"
)

// TimestampLayout formats the leaving and arriving fields.
const TimestampLayout = "2006-01-02 15:04:05"

// RouteTranslatorConfig contains configuration for the route translator.
type RouteTranslatorConfig struct {
	// Placeholders are written into every route and segment record.
	Placeholders config.PlaceholderConfig

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// Logger is the structured logger.
	Logger *slog.Logger
}

// RouteTranslator converts OpenRouteService-style GeoJSON into the application
// route document. Implements ports.RouteTranslator.
type RouteTranslator struct {
	placeholders config.PlaceholderConfig
	now          func() time.Time
	logger       *slog.Logger
}

// NewRouteTranslator creates a route translator.
func NewRouteTranslator(cfg RouteTranslatorConfig) *RouteTranslator {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &RouteTranslator{
		placeholders: cfg.Placeholders,
		now:          now,
		logger:       logger,
	}
}

// Translate converts a provider route document into the application route schema.
// Only the first feature and its first segment are used.
func (t *RouteTranslator) Translate(ctx context.Context, raw string) (*domain.AppRouteDocument, error) {
	logging.Trace(ctx, t.logger, "translating provider route", slog.Int("bytes", len(raw)))

	route, err := parseProviderRoute(raw)
	if err != nil {
		return nil, err
	}

	segments := make([]domain.Segment, 0, len(route.steps))
	for i, step := range route.steps {
		points, err := route.points(i, step.WayPoints[0], step.WayPoints[1])
		if err != nil {
			return nil, err
		}

		segments = append(segments, t.segment(step, points))
	}

	doc := &domain.AppRouteDocument{
		Waypoints: bboxWaypoints(route.bbox),
		Route:     t.summary(route, t.now().Format(TimestampLayout)),
		Segments:  segments,
	}

	t.logger.DebugContext(ctx, "translated provider route",
		slog.Int("segments", len(segments)),
		slog.Int("coordinates", len(route.coordinates)),
	)

	return doc, nil
}

// bboxWaypoints derives the two application waypoints from the bounding box.
// The index pairing (b0 with b3, b1 with b2) is what existing consumers read.
func bboxWaypoints(b [bboxLen]string) []domain.AppWaypoint {
	return []domain.AppWaypoint{
		{Latitude: b[0], Longitude: b[3], SequenceID: "1"},
		{Latitude: b[1], Longitude: b[2], SequenceID: "2"},
	}
}

func (t *RouteTranslator) summary(route *providerRoute, timestamp string) domain.RouteSummary {
	p := t.placeholders.Route
	b := route.bbox
	start := route.steps[0].Name
	finish := route.steps[len(route.steps)-1].Name

	return domain.RouteSummary{
		Start:              start,
		Finish:             finish,
		StartBearing:       p.StartBearing,
		StartSpeed:         p.StartSpeed,
		StartLongitude:     b[0],
		StartLatitude:      b[3],
		FinishLongitude:    b[2],
		FinishLatitude:     b[1],
		CrowFlyDistance:    route.distance,
		Event:              p.Event,
		Whence:             p.Whence,
		Speed:              p.Speed,
		Itinerary:          p.Itinerary,
		ClientRouteID:      p.ClientRouteID,
		Plan:               p.Plan,
		Note:               p.Note,
		Length:             truncateNumber(route.distance),
		Time:               truncateNumber(route.duration),
		Busynance:          p.Busynance,
		Quietness:          p.Quietness,
		SignalledJunctions: p.SignalledJunctions,
		SignalledCrossings: p.SignalledCrossings,
		West:               b[0],
		South:              b[3],
		East:               b[1],
		North:              b[2],
		Name:               start + " to" + finish,
		Walk:               p.Walk,
		Leaving:            timestamp,
		Arriving:           timestamp,
		Coordinate:         route.coordinateString(),
		Elevation:          p.Elevation,
		Distances:          p.Distances,
		GrammesCO2Saved:    p.GrammesCO2Saved,
		Calories:           p.Calories,
		Edition:            p.Edition,
		Type:               p.Type,
	}
}

func (t *RouteTranslator) segment(step providerStep, points string) domain.Segment {
	p := t.placeholders.Segment

	return domain.Segment{
		Name:               step.Name,
		LegNumber:          p.LegNumber,
		Distance:           truncateNumber(step.Distance.String()),
		Time:               truncateNumber(step.Duration.String()),
		Busynance:          p.Busynance,
		Quietness:          p.Quietness,
		Flow:               p.Flow,
		Walk:               p.Walk,
		SignalledJunctions: p.SignalledJunctions,
		SignalledCrossings: p.SignalledCrossings,
		Turn:               p.Turn,
		StartBearing:       p.StartBearing,
		Color:              p.Color,
		Points:             points,
		Distances:          p.Distances,
		Elevations:         p.Elevations,
		ProvisionName:      p.ProvisionName,
		Type:               p.Type,
	}
}
