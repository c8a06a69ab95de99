package acl

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen/route-fetch-service/internal/adapters/clients"
	"github.com/jsamuelsen/route-fetch-service/internal/platform/config"
)

// Providers bundles the adapters built from the service configuration.
type Providers struct {
	Planner    *JourneyPlanner
	Translator *RouteTranslator
	Detector   *JSONErrorDetector
}

// NewProviders builds both provider clients and the adapters on top of them.
// CycleStreets receives its API key through the "key" query parameter; the
// OpenRouteService key travels with each point-to-point request instead.
func NewProviders(cfg *config.Config, logger *slog.Logger) (*Providers, error) {
	openRoute, err := newProviderClient(cfg, cfg.Services.OpenRoute, nil, logger)
	if err != nil {
		return nil, err
	}

	cycleStreets, err := newProviderClient(cfg, cfg.Services.CycleStreets,
		QueryKeyAuth("key", cfg.Services.CycleStreets.APIKey), logger)
	if err != nil {
		return nil, err
	}

	return &Providers{
		Planner: NewJourneyPlanner(JourneyPlannerConfig{
			OpenRoute:    openRoute,
			CycleStreets: cycleStreets,
			Logger:       logger,
		}),
		Translator: NewRouteTranslator(RouteTranslatorConfig{
			Placeholders: cfg.Placeholders,
			Logger:       logger,
		}),
		Detector: NewJSONErrorDetector(),
	}, nil
}

func newProviderClient(
	cfg *config.Config,
	endpoint config.ServiceEndpointConfig,
	auth func(*http.Request),
	logger *slog.Logger,
) (*clients.Client, error) {
	client, err := clients.New(&clients.Config{
		BaseURL:              endpoint.BaseURL,
		ServiceName:          endpoint.Name,
		Timeout:              cfg.Client.Timeout,
		Retry:                cfg.Client.Retry,
		Circuit:              cfg.Client.CircuitBreaker,
		Transport:            cfg.Client.Transport,
		AuthFunc:             auth,
		SensitiveQueryParams: RouteQueryParams,
		Logger:               logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %s client: %w", endpoint.Name, err)
	}

	return client, nil
}
