package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/route-fetch-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/route-fetch-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/route-fetch-service/internal/platform/config"
	"github.com/jsamuelsen/route-fetch-service/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds a route request, provider retries included.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig wires handlers and cross-cutting middleware into the engine.
// Nil handlers leave their endpoints unregistered.
type RouterConfig struct {
	Logger    *slog.Logger
	AppConfig *config.AppConfig

	HealthHandler *handlers.HealthHandler
	RouteHandler  *handlers.RouteHandler

	// Timeout bounds every /api/v1 request. Zero disables it.
	Timeout time.Duration

	// Telemetry overrides the global tracer and meter providers.
	Telemetry []telemetry.HTTPOption
}

// SetupRouter installs middleware and routes on engine.
//
// Every request passes, in order: panic recovery, request ID (also the
// envelope trace ID), correlation ID, tracing and metrics, then access
// logging. /api/v1 requests additionally run under Timeout.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(cfg.middlewareChain()...)

	engine.HandleMethodNotAllowed = true
	engine.NoRoute(noRoute)
	engine.NoMethod(noMethod)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	api := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		api.Use(middleware.Deadline(cfg.Timeout))
	}

	if cfg.RouteHandler != nil {
		cfg.RouteHandler.RegisterRouteRoutes(api)
	}
}

func (cfg RouterConfig) middlewareChain() []gin.HandlerFunc {
	chain := []gin.HandlerFunc{
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	}
	chain = append(chain, telemetry.Middleware(cfg.AppConfig.Name, cfg.Telemetry...)...)

	return append(chain, middleware.Logging(cfg.Logger))
}

// NewDefaultRouterConfig uses DefaultRequestTimeout and the global telemetry providers.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	healthHandler *handlers.HealthHandler,
	routeHandler *handlers.RouteHandler,
) RouterConfig {
	return RouterConfig{
		Logger:        logger,
		AppConfig:     appCfg,
		HealthHandler: healthHandler,
		RouteHandler:  routeHandler,
		Timeout:       DefaultRequestTimeout,
	}
}
