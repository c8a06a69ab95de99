// Package main is routectl, a command line client that runs the route fetch
// pipeline directly against the configured providers.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/route-fetch-service/internal/adapters/clients/acl"
	"github.com/jsamuelsen/route-fetch-service/internal/app"
	"github.com/jsamuelsen/route-fetch-service/internal/domain"
	"github.com/jsamuelsen/route-fetch-service/internal/platform/config"
	"github.com/jsamuelsen/route-fetch-service/internal/platform/logging"
)

// routeRunner is the part of app.RouteService the commands use.
type routeRunner interface {
	Run(ctx context.Context, req domain.RouteRequest) (*domain.RouteData, error)
	RunAll(ctx context.Context, limit int, reqs []domain.RouteRequest) []app.BatchResult
}

type serviceFactory func(profile string, stderr io.Writer) (routeRunner, error)

func main() {
	if err := newRootCmd(newRouteService).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(factory serviceFactory) *cobra.Command {
	var profile string

	root := &cobra.Command{
		Use:   "routectl",
		Short: "Fetch routes from the routing providers",
		Long: `routectl plans journeys and replays stored itineraries through the same
pipeline as the route fetch service, printing the application route document.`,
		SilenceUsage: true,
	}

	defaultProfile := os.Getenv("APP_ENVIRONMENT")
	if defaultProfile == "" {
		defaultProfile = "local"
	}

	root.PersistentFlags().StringVar(&profile, "profile", defaultProfile, "configuration profile (configs/<profile>.yaml)")

	build := func(cmd *cobra.Command) (routeRunner, error) {
		return factory(profile, cmd.ErrOrStderr())
	}

	root.AddCommand(newPlanCmd(build), newReplayCmd(build))

	return root
}

// newRouteService wires the pipeline the same way the HTTP service does.
// Logs go to stderr so stdout carries only route documents.
func newRouteService(profile string, stderr io.Writer) (routeRunner, error) {
	cfg, err := config.Load(profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewWithWriter(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  "pretty",
		Service: "routectl",
		Version: cfg.App.Version,
	}, stderr)

	providers, err := acl.NewProviders(cfg, logger)
	if err != nil {
		return nil, err
	}

	return app.NewRouteService(app.RouteServiceConfig{
		Planner:         providers.Planner,
		Detector:        providers.Detector,
		Translator:      providers.Translator,
		APIKey:          cfg.Services.OpenRoute.APIKey,
		NotFoundMessage: cfg.Routing.NotFoundMessage,
		DefaultSpeed:    cfg.Routing.DefaultSpeed,
		Logger:          logger,
	}), nil
}

func writeDocument(w io.Writer, data *domain.RouteData) error {
	if _, err := w.Write(data.JSON); err != nil {
		return err
	}

	_, err := io.WriteString(w, "\n")

	return err
}

// routeError replaces a pipeline error with the text an end user sees.
func routeError(err error) error {
	return errors.New(domain.UserMessage(err))
}
