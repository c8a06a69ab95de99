//go:build integration

package integration

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/route-fetch-service/internal/adapters/clients/acl"
	httpadapter "github.com/jsamuelsen/route-fetch-service/internal/adapters/http"
	"github.com/jsamuelsen/route-fetch-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/route-fetch-service/internal/app"
	"github.com/jsamuelsen/route-fetch-service/internal/domain"
	"github.com/jsamuelsen/route-fetch-service/internal/platform/config"
	"github.com/jsamuelsen/route-fetch-service/internal/ports"
)

const (
	openRouteKey    = "ors-integration-key"
	cycleStreetsKey = "cs-integration-key"

	// routeName is the name the translator derives from providerRoute.
	routeName = "Deansgate toOxford Road"
)

// providerRoute is a two-step OpenRouteService-style GeoJSON route.
const providerRoute = `{
  "type": "FeatureCollection",
  "features": [{
    "bbox": [-2.2453, 53.4631, -2.2380, 53.4794],
    "type": "Feature",
    "properties": {
      "segments": [{
        "distance": 2140.6,
        "duration": 455.2,
        "steps": [
          {"distance": 1210.3, "duration": 260.1, "type": 11, "instruction": "Head south on Deansgate", "name": "Deansgate", "way_points": [0, 2]},
          {"distance": 930.3, "duration": 195.1, "type": 10, "instruction": "Arrive at Oxford Road", "name": "Oxford Road", "way_points": [2, 3]}
        ]
      }],
      "summary": {"distance": 2140.6, "duration": 455.2},
      "way_points": [0, 3]
    },
    "geometry": {
      "coordinates": [[-2.2453, 53.4794], [-2.2440, 53.4740], [-2.2410, 53.4690], [-2.2380, 53.4631]],
      "type": "LineString"
    }
  }]
}`

// fakeProviders serves OpenRouteService and CycleStreets from httptest servers.
type fakeProviders struct {
	openRoute    *httptest.Server
	cycleStreets *httptest.Server

	mu                sync.Mutex
	openRouteBody     string
	cycleStreetsDown  bool
	leisureBody       string
	itineraries       map[string]string
	openRouteRequests []*http.Request
	cycleStreetsSeen  []url.Values
}

func newFakeProviders(t testing.TB) *fakeProviders {
	t.Helper()

	f := &fakeProviders{
		openRouteBody: providerRoute,
		leisureBody:   providerRoute,
		itineraries:   make(map[string]string),
	}

	f.openRoute = httptest.NewServer(http.HandlerFunc(f.serveOpenRoute))
	f.cycleStreets = httptest.NewServer(http.HandlerFunc(f.serveCycleStreets))

	t.Cleanup(func() {
		f.openRoute.Close()
		f.cycleStreets.Close()
	})

	return f
}

func (f *fakeProviders) serveOpenRoute(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/v2/health":
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"status":"ready"}`)
	case "/v2/directions/cycling-regular":
		f.mu.Lock()
		f.openRouteRequests = append(f.openRouteRequests, r.Clone(r.Context()))
		body := f.openRouteBody
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = io.WriteString(w, body)
	default:
		http.NotFound(w, r)
	}
}

// serveCycleStreets answers stored itineraries from the table and anything
// else with the leisure body. Unknown itineraries answer "null".
func (f *fakeProviders) serveCycleStreets(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/journey.json" {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()

	f.mu.Lock()
	f.cycleStreetsSeen = append(f.cycleStreetsSeen, q)
	down := f.cycleStreetsDown
	body := f.leisureBody

	if id := q.Get("itinerary"); id != "" {
		stored, ok := f.itineraries[id+"/"+q.Get("plan")]
		if !ok {
			stored = app.NoResult
		}

		body = stored
	}
	f.mu.Unlock()

	if down {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, body)
}

func (f *fakeProviders) storeItinerary(id int64, plan domain.RouteKind, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.itineraries[strconv.FormatInt(id, 10)+"/"+string(plan)] = body
}

func (f *fakeProviders) setOpenRouteBody(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.openRouteBody = body
}

func (f *fakeProviders) setCycleStreetsDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.cycleStreetsDown = down
}

func (f *fakeProviders) cycleStreetsQueries() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]url.Values(nil), f.cycleStreetsSeen...)
}

func (f *fakeProviders) openRouteCalls() []*http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]*http.Request(nil), f.openRouteRequests...)
}

// config returns the default configuration pointed at the fake providers.
func (f *fakeProviders) config(t testing.TB) *config.Config {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)

	cfg.App.Environment = "test"
	cfg.Services.OpenRoute.BaseURL = f.openRoute.URL
	cfg.Services.OpenRoute.APIKey = openRouteKey
	cfg.Services.CycleStreets.BaseURL = f.cycleStreets.URL
	cfg.Services.CycleStreets.APIKey = cycleStreetsKey
	cfg.Client.Timeout = 2 * time.Second
	cfg.Client.Retry.MaxAttempts = 1
	cfg.Client.CircuitBreaker.MaxFailures = 3
	cfg.Client.CircuitBreaker.Timeout = time.Minute

	require.NoError(t, cfg.Validate())

	return cfg
}

// routeStack is the fully wired service under test.
type routeStack struct {
	service  *app.RouteService
	registry *ports.DefaultHealthRegistry
	handler  http.Handler
}

func newRouteStack(t testing.TB, f *fakeProviders) *routeStack {
	t.Helper()

	return newRouteStackFromConfig(t, f.config(t))
}

func newRouteStackFromConfig(t testing.TB, cfg *config.Config) *routeStack {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	providers, err := acl.NewProviders(cfg, logger)
	require.NoError(t, err)

	service := app.NewRouteService(app.RouteServiceConfig{
		Planner:         providers.Planner,
		Detector:        providers.Detector,
		Translator:      providers.Translator,
		APIKey:          cfg.Services.OpenRoute.APIKey,
		NotFoundMessage: cfg.Routing.NotFoundMessage,
		DefaultSpeed:    cfg.Routing.DefaultSpeed,
		Logger:          logger,
	})

	registry := ports.NewHealthRegistry(ports.WithCheckTimeout(time.Second))
	require.NoError(t, registry.Register(providers.Planner.OpenRouteHealth()))
	require.NoError(t, registry.Register(providers.Planner.CycleStreetsHealth()))

	gin.SetMode(gin.TestMode)

	engine := gin.New()
	httpadapter.SetupRouter(engine, httpadapter.NewDefaultRouterConfig(
		logger,
		&cfg.App,
		handlers.NewHealthHandler(registry, handlers.BuildInfo{Version: "integration"},
			handlers.WithGatherer(prometheus.NewRegistry())),
		handlers.NewRouteHandler(service),
	))

	return &routeStack{service: service, registry: registry, handler: engine}
}
