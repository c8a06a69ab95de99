package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/route-fetch-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/route-fetch-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/route-fetch-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/route-fetch-service/internal/domain"
	"github.com/jsamuelsen/route-fetch-service/internal/mocks"
	"github.com/jsamuelsen/route-fetch-service/internal/platform/config"
	"github.com/jsamuelsen/route-fetch-service/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testServerConfig(port int, maxRequestSize int64) *config.ServerConfig {
	return &config.ServerConfig{
		Host:           "127.0.0.1",
		Port:           port,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    30 * time.Second,
		MaxRequestSize: maxRequestSize,
	}
}

var testAppConfig = &config.AppConfig{
	Name:        "route-fetch-service",
	Environment: "test",
	Version:     "1.0.0",
}

func TestServerNew(t *testing.T) {
	cfg := testServerConfig(8080, 1<<20)
	logger := discardLogger()

	srv := New(cfg, logger)

	require.NotNil(t, srv)
	assert.IsType(t, &gin.Engine{}, srv.Engine())
	assert.Equal(t, cfg, srv.Config())
	assert.Equal(t, "127.0.0.1:8080", srv.Addr())
}

func TestServerStartShutdown(t *testing.T) {
	srv := New(testServerConfig(0, 1<<20), discardLogger())
	srv.Engine().GET("/-/live", func(c *gin.Context) { c.Status(http.StatusOK) })

	errCh, err := srv.Start()
	require.NoError(t, err)
	assert.NotEqual(t, "127.0.0.1:0", srv.Addr(), "Addr reports the bound port")

	resp, err := http.Get("http://" + srv.Addr() + "/-/live")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, srv.Shutdown(ctx))

	select {
	case _, ok := <-errCh:
		assert.False(t, ok, "error channel should be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for server to shutdown")
	}
}

func TestServerStart_AddressInUse(t *testing.T) {
	first := New(testServerConfig(0, 1<<20), discardLogger())
	_, err := first.Start()
	require.NoError(t, err)

	t.Cleanup(func() { _ = first.Shutdown(context.Background()) })

	_, port, err := net.SplitHostPort(first.Addr())
	require.NoError(t, err)

	portNum, err := strconv.Atoi(port)
	require.NoError(t, err)

	_, err = New(testServerConfig(portNum, 1<<20), discardLogger()).Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listening on")
}

func TestServerRun_StopsOnCancel(t *testing.T) {
	cfg := testServerConfig(0, 1<<20)
	cfg.ShutdownTimeout = time.Second

	srv := New(cfg, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- srv.Run(ctx) }()

	require.Eventually(t, func() bool {
		return srv.Addr() != "127.0.0.1:0"
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestLimitBody(t *testing.T) {
	srv := New(testServerConfig(0, 64), discardLogger())
	srv.Engine().POST("/api/v1/routes", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}

		c.Status(http.StatusOK)
	})

	tests := []struct {
		name         string
		body         string
		undeclared   bool
		wantStatus   int
		wantEnvelope bool
	}{
		{name: "under limit", body: `{"kind":"balanced","itinerary":1}`, wantStatus: http.StatusOK},
		{name: "declared over limit", body: strings.Repeat("x", 65), wantStatus: http.StatusRequestEntityTooLarge, wantEnvelope: true},
		{name: "undeclared over limit", body: strings.Repeat("x", 65), undeclared: true, wantStatus: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/routes", strings.NewReader(tt.body))
			if tt.undeclared {
				req.ContentLength = -1
			}

			w := httptest.NewRecorder()
			srv.Engine().ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantEnvelope {
				var resp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "request body exceeds 64 bytes", resp.Error.Message)
			}
		})
	}
}

func TestNewDefaultRouterConfig(t *testing.T) {
	logger := discardLogger()
	healthHandler := handlers.NewHealthHandler(nil, handlers.BuildInfo{})
	routeHandler := handlers.NewRouteHandler(nil)

	cfg := NewDefaultRouterConfig(logger, testAppConfig, healthHandler, routeHandler)

	assert.Equal(t, logger, cfg.Logger)
	assert.Equal(t, testAppConfig, cfg.AppConfig)
	assert.Same(t, healthHandler, cfg.HealthHandler)
	assert.Same(t, routeHandler, cfg.RouteHandler)
	assert.Equal(t, DefaultRequestTimeout, cfg.Timeout)
}

func newTestRouter(t *testing.T, runner ports.RouteRunner) *gin.Engine {
	t.Helper()

	registry := mocks.NewMockHealthRegistry(t)
	registry.EXPECT().CheckAll(mock.Anything).Return(&ports.HealthResult{
		Status: ports.HealthStatusHealthy,
		Checks: map[string]*ports.CheckResult{},
	}).Maybe()

	engine := gin.New()
	SetupRouter(engine, NewDefaultRouterConfig(
		discardLogger(),
		testAppConfig,
		handlers.NewHealthHandler(registry, handlers.BuildInfo{Version: "1.0.0"}),
		handlers.NewRouteHandler(runner),
	))

	return engine
}

func TestSetupRouter_RegistersRoutes(t *testing.T) {
	engine := newTestRouter(t, mocks.NewMockRouteRunner(t))

	registered := make(map[string]bool)
	for _, r := range engine.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /-/live",
		"GET /-/ready",
		"GET /-/build",
		"GET /-/metrics",
		"POST /api/v1/routes",
		"GET /api/v1/routes/itineraries/:id",
	} {
		assert.True(t, registered[want], "missing route: %s", want)
	}
}

func TestSetupRouter_RouteRequestCarriesIDs(t *testing.T) {
	runner := mocks.NewMockRouteRunner(t)

	var requestID, correlationID string
	var hasDeadline bool

	runner.EXPECT().Run(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, req domain.RouteRequest) (*domain.RouteData, error) {
			requestID = middleware.RequestIDFromContext(ctx)
			correlationID = middleware.CorrelationIDFromContext(ctx)
			_, hasDeadline = ctx.Deadline()

			return &domain.RouteData{JSON: []byte(`{"waypoints":[],"route":{},"segments":[]}`)}, nil
		})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/routes/itineraries/12", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-42")
	req.Header.Set(middleware.HeaderCorrelationID, "journey-7")

	w := httptest.NewRecorder()
	newTestRouter(t, runner).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-42", w.Header().Get(middleware.HeaderRequestID))
	assert.Equal(t, "req-42", requestID)
	assert.Equal(t, "journey-7", correlationID)
	assert.True(t, hasDeadline)
}

func TestSetupRouter_ErrorEnvelopeCarriesTraceID(t *testing.T) {
	runner := mocks.NewMockRouteRunner(t)
	runner.EXPECT().Run(mock.Anything, mock.Anything).Return(nil, domain.NewNotFoundError("route", "12"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/routes/itineraries/12", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-404")

	w := httptest.NewRecorder()
	newTestRouter(t, runner).ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeNotFound, resp.Error.Code)
	assert.Equal(t, "route not found", resp.Error.Message)
	assert.Equal(t, "req-404", resp.TraceID)
}

func TestSetupRouter_UnknownEndpoints(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
		wantCode   string
	}{
		{name: "unknown path", method: http.MethodGet, target: "/api/v1/quotes", wantStatus: http.StatusNotFound, wantCode: dto.ErrorCodeNotFound},
		{name: "wrong method", method: http.MethodDelete, target: "/api/v1/routes", wantStatus: http.StatusMethodNotAllowed, wantCode: dto.ErrorCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			newTestRouter(t, mocks.NewMockRouteRunner(t)).ServeHTTP(w, httptest.NewRequest(tt.method, tt.target, nil))

			require.Equal(t, tt.wantStatus, w.Code)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.NotEmpty(t, resp.TraceID)
		})
	}
}

func TestSetupRouter_OptionalHandlers(t *testing.T) {
	engine := gin.New()

	require.NotPanics(t, func() {
		SetupRouter(engine, RouterConfig{Logger: discardLogger(), AppConfig: testAppConfig})
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/live", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
