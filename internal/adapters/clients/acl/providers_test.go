package acl

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/route-fetch-service/internal/domain"
	"github.com/jsamuelsen/route-fetch-service/internal/platform/config"
)

// queryRecorder answers every request with body and keeps the queries it saw.
type queryRecorder struct {
	mu      sync.Mutex
	body    string
	queries []url.Values
}

func (q *queryRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q.mu.Lock()
	q.queries = append(q.queries, r.URL.Query())
	q.mu.Unlock()

	_, _ = io.WriteString(w, q.body)
}

func (q *queryRecorder) last(t *testing.T) url.Values {
	t.Helper()

	q.mu.Lock()
	defer q.mu.Unlock()

	require.NotEmpty(t, q.queries)

	return q.queries[len(q.queries)-1]
}

func providersConfig(t *testing.T, openRouteURL, cycleStreetsURL string) *config.Config {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)

	cfg.Services.OpenRoute.BaseURL = openRouteURL
	cfg.Services.OpenRoute.APIKey = "ors-key"
	cfg.Services.CycleStreets.BaseURL = cycleStreetsURL
	cfg.Services.CycleStreets.APIKey = "cs-key"
	cfg.Client.Retry.MaxAttempts = 1
	cfg.Client.Timeout = 2 * time.Second

	return cfg
}

func TestNewProviders_WiresCredentials(t *testing.T) {
	openRoute := &queryRecorder{body: `{"type":"FeatureCollection","features":[]}`}
	cycleStreets := &queryRecorder{body: `{"type":"FeatureCollection","features":[]}`}

	openRouteServer := httptest.NewServer(openRoute)
	defer openRouteServer.Close()

	cycleStreetsServer := httptest.NewServer(cycleStreets)
	defer cycleStreetsServer.Close()

	providers, err := NewProviders(
		providersConfig(t, openRouteServer.URL, cycleStreetsServer.URL),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	require.NoError(t, err)
	require.NotNil(t, providers.Translator)
	require.NotNil(t, providers.Detector)

	ctx := context.Background()

	_, err = providers.Planner.RetrievePreviousJourney(ctx, domain.RouteKindFastest, 86294665)
	require.NoError(t, err)

	q := cycleStreets.last(t)
	assert.Equal(t, "cs-key", q.Get("key"))
	assert.Equal(t, "86294665", q.Get("itinerary"))
	assert.Empty(t, q.Get("api_key"))

	_, err = providers.Planner.OpenJourney(ctx, "ors-key", []domain.Waypoint{
		{Latitude: 53.4794, Longitude: -2.2453},
		{Latitude: 53.4631, Longitude: -2.238},
	})
	require.NoError(t, err)

	q = openRoute.last(t)
	assert.Equal(t, "ors-key", q.Get("api_key"))
	assert.Empty(t, q.Get("key"), "the CycleStreets key never reaches OpenRouteService")
}

func TestNewProviders_TranslatorUsesConfiguredPlaceholders(t *testing.T) {
	cfg := providersConfig(t, "http://127.0.0.1:1", "http://127.0.0.1:1")
	cfg.Placeholders.Route.Edition = "routing990101"

	providers, err := NewProviders(cfg, nil)
	require.NoError(t, err)

	doc, err := providers.Translator.Translate(context.Background(), twoStepRoute)
	require.NoError(t, err)
	assert.Equal(t, "routing990101", doc.Route.Edition)
}

func TestNewProviders_RequiresServiceName(t *testing.T) {
	cfg := providersConfig(t, "http://127.0.0.1:1", "http://127.0.0.1:1")
	cfg.Services.CycleStreets.Name = ""

	_, err := NewProviders(cfg, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "service name is required")
}
