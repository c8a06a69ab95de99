package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/route-fetch-service/internal/domain"
	"github.com/jsamuelsen/route-fetch-service/internal/mocks"
	"github.com/jsamuelsen/route-fetch-service/internal/platform/config"
	"github.com/jsamuelsen/route-fetch-service/internal/ports"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestFetcher(planner *mocks.MockJourneyPlanner, detector *mocks.MockErrorDetector) *RouteFetcher {
	return NewRouteFetcher(RouteFetcherConfig{
		Planner:  planner,
		Detector: detector,
		APIKey:   "ors-key",
		Logger:   discardLogger(),
	})
}

var testWaypoints = []domain.Waypoint{
	{Latitude: 52.2, Longitude: 0.12, Sequence: 1},
	{Latitude: 52.21, Longitude: 0.14, Sequence: 2},
}

func TestNewRouteFetcher_PanicsWithoutDependencies(t *testing.T) {
	assert.Panics(t, func() {
		NewRouteFetcher(RouteFetcherConfig{Detector: mocks.NewMockErrorDetector(t)})
	})
	assert.Panics(t, func() {
		NewRouteFetcher(RouteFetcherConfig{Planner: mocks.NewMockJourneyPlanner(t)})
	})
}

func TestNewRouteFetcher_Defaults(t *testing.T) {
	f := NewRouteFetcher(RouteFetcherConfig{
		Planner:  mocks.NewMockJourneyPlanner(t),
		Detector: mocks.NewMockErrorDetector(t),
	})

	assert.Equal(t, config.DefaultNotFoundMessage, f.notFoundMessage)
	assert.Equal(t, config.DefaultRouteSpeed, f.defaultSpeed)
	assert.NotNil(t, f.logger)
}

func TestRouteFetcher_Fetch_OpenJourney(t *testing.T) {
	planner := mocks.NewMockJourneyPlanner(t)
	detector := mocks.NewMockErrorDetector(t)

	planner.EXPECT().OpenJourney(mock.Anything, "ors-key", testWaypoints).Return(`{"features":[]}`, nil)

	raw, err := newTestFetcher(planner, detector).Fetch(context.Background(), &domain.RouteRequest{
		Kind:      domain.RouteKindFastest,
		Waypoints: testWaypoints,
	})

	require.NoError(t, err)
	assert.Equal(t, `{"features":[]}`, raw)
}

func TestRouteFetcher_Fetch_CircularJourney(t *testing.T) {
	distance := 8000

	tests := []struct {
		name      string
		speed     int
		wantSpeed int
	}{
		{name: "request speed", speed: 24, wantSpeed: 24},
		{name: "default speed", speed: 0, wantSpeed: config.DefaultRouteSpeed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			planner := mocks.NewMockJourneyPlanner(t)
			detector := mocks.NewMockErrorDetector(t)

			planner.EXPECT().CircularJourney(mock.Anything, ports.CircularJourneyParams{
				Waypoints: testWaypoints[:1],
				Distance:  &distance,
				POITypes:  "bikeshops",
				Speed:     tt.wantSpeed,
			}).Return(`{"circular":true}`, nil)

			raw, err := newTestFetcher(planner, detector).Fetch(context.Background(), &domain.RouteRequest{
				Kind:      domain.RouteKindLeisure,
				Waypoints: testWaypoints[:1],
				Distance:  &distance,
				POITypes:  "bikeshops",
				Speed:     tt.speed,
			})

			require.NoError(t, err)
			assert.Equal(t, `{"circular":true}`, raw)
		})
	}
}

func TestRouteFetcher_Fetch_StoredItinerary(t *testing.T) {
	planner := mocks.NewMockJourneyPlanner(t)
	detector := mocks.NewMockErrorDetector(t)

	planner.EXPECT().RetrievePreviousJourney(mock.Anything, domain.RouteKindQuietest, int64(86294665)).
		Return(`{"features":[]}`, nil).Once()
	detector.EXPECT().DetectError(`{"features":[]}`, config.DefaultNotFoundMessage).Return("", false, nil)

	raw, err := newTestFetcher(planner, detector).Fetch(context.Background(), &domain.RouteRequest{
		Kind:      domain.RouteKindQuietest,
		Itinerary: 86294665,
	})

	require.NoError(t, err)
	assert.Equal(t, `{"features":[]}`, raw)
}

func TestRouteFetcher_Fetch_LeisureFallback(t *testing.T) {
	tests := []struct {
		name  string
		first string
		setup func(*mocks.MockErrorDetector)
	}{
		{
			name:  "no result",
			first: NoResult,
			setup: func(*mocks.MockErrorDetector) {},
		},
		{
			name:  "reported error",
			first: `{"Error":"No such itinerary"}`,
			setup: func(d *mocks.MockErrorDetector) {
				d.EXPECT().DetectError(`{"Error":"No such itinerary"}`, mock.Anything).Return("No such itinerary", true, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			planner := mocks.NewMockJourneyPlanner(t)
			detector := mocks.NewMockErrorDetector(t)
			tt.setup(detector)

			planner.EXPECT().RetrievePreviousJourney(mock.Anything, domain.RouteKindBalanced, int64(42)).
				Return(tt.first, nil).Once()
			planner.EXPECT().RetrievePreviousJourney(mock.Anything, domain.RouteKindLeisure, int64(42)).
				Return(`{"leisure":true}`, nil).Once()

			raw, err := newTestFetcher(planner, detector).Fetch(context.Background(), &domain.RouteRequest{
				Kind:      domain.RouteKindBalanced,
				Itinerary: 42,
			})

			require.NoError(t, err)
			assert.Equal(t, `{"leisure":true}`, raw)
		})
	}
}

func TestRouteFetcher_Fetch_FallbackResultReturnedAsIs(t *testing.T) {
	planner := mocks.NewMockJourneyPlanner(t)
	detector := mocks.NewMockErrorDetector(t)

	planner.EXPECT().RetrievePreviousJourney(mock.Anything, domain.RouteKindShortest, int64(7)).Return(NoResult, nil).Once()
	planner.EXPECT().RetrievePreviousJourney(mock.Anything, domain.RouteKindLeisure, int64(7)).Return(NoResult, nil).Once()

	raw, err := newTestFetcher(planner, detector).Fetch(context.Background(), &domain.RouteRequest{
		Kind:      domain.RouteKindShortest,
		Itinerary: 7,
	})

	require.NoError(t, err)
	assert.Equal(t, NoResult, raw)
	planner.AssertNumberOfCalls(t, "RetrievePreviousJourney", 2)
}

func TestRouteFetcher_Fetch_Failures(t *testing.T) {
	cause := domain.NewUnavailableError("cyclestreets", "timeout")

	tests := []struct {
		name  string
		req   domain.RouteRequest
		setup func(*mocks.MockJourneyPlanner, *mocks.MockErrorDetector)
		cause error
	}{
		{
			name: "open journey error",
			req:  domain.RouteRequest{Kind: domain.RouteKindBalanced, Waypoints: testWaypoints},
			setup: func(p *mocks.MockJourneyPlanner, _ *mocks.MockErrorDetector) {
				p.EXPECT().OpenJourney(mock.Anything, mock.Anything, mock.Anything).Return("", cause)
			},
			cause: domain.ErrUnavailable,
		},
		{
			name: "circular journey error",
			req:  domain.RouteRequest{Kind: domain.RouteKindLeisure, Waypoints: testWaypoints},
			setup: func(p *mocks.MockJourneyPlanner, _ *mocks.MockErrorDetector) {
				p.EXPECT().CircularJourney(mock.Anything, mock.Anything).Return("", cause)
			},
			cause: domain.ErrUnavailable,
		},
		{
			name: "stored itinerary error",
			req:  domain.RouteRequest{Kind: domain.RouteKindBalanced, Itinerary: 5},
			setup: func(p *mocks.MockJourneyPlanner, _ *mocks.MockErrorDetector) {
				p.EXPECT().RetrievePreviousJourney(mock.Anything, domain.RouteKindBalanced, int64(5)).Return("", cause)
			},
			cause: domain.ErrUnavailable,
		},
		{
			name: "malformed first payload",
			req:  domain.RouteRequest{Kind: domain.RouteKindBalanced, Itinerary: 5},
			setup: func(p *mocks.MockJourneyPlanner, d *mocks.MockErrorDetector) {
				p.EXPECT().RetrievePreviousJourney(mock.Anything, domain.RouteKindBalanced, int64(5)).Return("<html>", nil)
				d.EXPECT().DetectError("<html>", mock.Anything).Return("", false, errInvalidPayload)
			},
			cause: errInvalidPayload,
		},
		{
			name: "fallback error",
			req:  domain.RouteRequest{Kind: domain.RouteKindBalanced, Itinerary: 5},
			setup: func(p *mocks.MockJourneyPlanner, _ *mocks.MockErrorDetector) {
				p.EXPECT().RetrievePreviousJourney(mock.Anything, domain.RouteKindBalanced, int64(5)).Return(NoResult, nil)
				p.EXPECT().RetrievePreviousJourney(mock.Anything, domain.RouteKindLeisure, int64(5)).Return("", cause)
			},
			cause: domain.ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			planner := mocks.NewMockJourneyPlanner(t)
			detector := mocks.NewMockErrorDetector(t)
			tt.setup(planner, detector)

			raw, err := newTestFetcher(planner, detector).Fetch(context.Background(), &tt.req)

			require.Error(t, err)
			assert.Empty(t, raw)
			assert.True(t, domain.IsContactFailure(err), "expected contact failure, got %v", err)

			var contact *domain.ContactFailureError
			require.ErrorAs(t, err, &contact)
			assert.ErrorIs(t, contact.Cause, tt.cause)
			assert.Contains(t, err.Error(), "could not contact server")
		})
	}
}

var errInvalidPayload = errors.New("invalid JSON payload")
