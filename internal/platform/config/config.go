// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Defaults applied before any file or variable is read.
const (
	DefaultServerPort     = 8080
	DefaultMaxRequestSize = 1 << 20

	DefaultClientRetryMaxAttempts     = 3
	DefaultClientRetryMultiplier      = 2.0
	DefaultClientRetryJitterFactor    = 0.25 // ±25% of each backoff
	DefaultClientCircuitMaxFailures   = 5
	DefaultClientCircuitHalfOpenLimit = 3

	DefaultTransportMaxIdleConns        = 100
	DefaultTransportMaxIdleConnsPerHost = 10
	DefaultTransportIdleConnTimeout     = 90 * time.Second

	DefaultLogFileMaxSizeMB  = 100
	DefaultLogFileMaxBackups = 3
	DefaultLogFileMaxAgeDays = 28

	// DefaultRouteSpeed is the cycling speed in km/h for circular journeys
	// requested without one.
	DefaultRouteSpeed = 20

	// DefaultNotFoundMessage stands in for a provider error member without text.
	DefaultNotFoundMessage = "route not found"
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Client    ClientConfig    `koanf:"client"    validate:"required"`
	Services  ServicesConfig  `koanf:"services"  validate:"required"`
	Routing   RoutingConfig   `koanf:"routing"   validate:"required"`

	// Placeholders holds the constant fields of the application route document
	// that the routing provider has no equivalent for.
	Placeholders PlaceholderConfig `koanf:"placeholders"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"       validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"   validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"    validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,url"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// ClientConfig contains HTTP client settings for downstream services.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// RetryConfig contains retry settings for HTTP clients.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig contains circuit breaker settings for HTTP clients.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"         validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"      validate:"required,min=1s"`
}

// ServicesConfig contains configuration for downstream services.
type ServicesConfig struct {
	// OpenRoute plans point-to-point journeys.
	OpenRoute ServiceEndpointConfig `koanf:"open_route"   validate:"required"`

	// CycleStreets plans circular journeys and serves stored itineraries.
	CycleStreets ServiceEndpointConfig `koanf:"cyclestreets" validate:"required"`
}

// ServiceEndpointConfig contains configuration for a downstream service endpoint.
type ServiceEndpointConfig struct {
	BaseURL string `koanf:"base_url" validate:"required,url"`
	Name    string `koanf:"name"     validate:"required"`
	APIKey  string `koanf:"api_key"`
}

// RoutingConfig contains route fetch behaviour settings.
type RoutingConfig struct {
	NotFoundMessage string `koanf:"not_found_message" validate:"required"`
	DefaultSpeed    int    `koanf:"default_speed"     validate:"min=1,max=100"`
}

// PlaceholderConfig contains the fixed values written into every translated route.
type PlaceholderConfig struct {
	Route   RoutePlaceholders   `koanf:"route"   structs:"route"`
	Segment SegmentPlaceholders `koanf:"segment" structs:"segment"`
}

// RoutePlaceholders are the route summary fields without a provider equivalent.
type RoutePlaceholders struct {
	StartBearing       string `koanf:"start_bearing"       structs:"start_bearing"`
	StartSpeed         string `koanf:"start_speed"         structs:"start_speed"`
	Event              string `koanf:"event"               structs:"event"`
	Whence             string `koanf:"whence"              structs:"whence"`
	Speed              string `koanf:"speed"               structs:"speed"`
	Itinerary          string `koanf:"itinerary"           structs:"itinerary"`
	ClientRouteID      string `koanf:"client_route_id"     structs:"client_route_id"`
	Plan               string `koanf:"plan"                structs:"plan"`
	Note               string `koanf:"note"                structs:"note"`
	Busynance          string `koanf:"busynance"           structs:"busynance"`
	Quietness          string `koanf:"quietness"           structs:"quietness"`
	SignalledJunctions string `koanf:"signalled_junctions" structs:"signalled_junctions"`
	SignalledCrossings string `koanf:"signalled_crossings" structs:"signalled_crossings"`
	Walk               string `koanf:"walk"                structs:"walk"`
	Elevation          string `koanf:"elevation"           structs:"elevation"`
	Distances          string `koanf:"distances"           structs:"distances"`
	GrammesCO2Saved    string `koanf:"grammes_co2_saved"   structs:"grammes_co2_saved"`
	Calories           string `koanf:"calories"            structs:"calories"`
	Edition            string `koanf:"edition"             structs:"edition"`
	Type               string `koanf:"type"                structs:"type"`
}

// SegmentPlaceholders are the per-step segment fields without a provider equivalent.
type SegmentPlaceholders struct {
	LegNumber          string `koanf:"leg_number"          structs:"leg_number"`
	Busynance          string `koanf:"busynance"           structs:"busynance"`
	Quietness          string `koanf:"quietness"           structs:"quietness"`
	Flow               string `koanf:"flow"                structs:"flow"`
	Walk               string `koanf:"walk"                structs:"walk"`
	SignalledJunctions string `koanf:"signalled_junctions" structs:"signalled_junctions"`
	SignalledCrossings string `koanf:"signalled_crossings" structs:"signalled_crossings"`
	Turn               string `koanf:"turn"                structs:"turn"`
	StartBearing       string `koanf:"start_bearing"       structs:"start_bearing"`
	Color              string `koanf:"color"               structs:"color"`
	Distances          string `koanf:"distances"           structs:"distances"`
	Elevations         string `koanf:"elevations"          structs:"elevations"`
	ProvisionName      string `koanf:"provision_name"      structs:"provision_name"`
	Type               string `koanf:"type"                structs:"type"`
}

// DefaultPlaceholders returns the placeholder values the application route format
// has always carried.
func DefaultPlaceholders() PlaceholderConfig {
	return PlaceholderConfig{
		Route: RoutePlaceholders{
			StartBearing:       "0",
			StartSpeed:         "0",
			Event:              "depart",
			Whence:             "1662344245",
			Speed:              "20",
			Itinerary:          "86294665",
			ClientRouteID:      "0",
			Plan:               "balanced",
			Note:               "",
			Busynance:          "403",
			Quietness:          "44",
			SignalledJunctions: "0",
			SignalledCrossings: "0",
			Walk:               "0",
			Elevation:          "42,42,44,44,44,45,45,45",
			Distances:          "5,47,20,7,37,24,38",
			GrammesCO2Saved:    "33",
			Calories:           "5",
			Edition:            "routing220904",
			Type:               "route",
		},
		Segment: SegmentPlaceholders{
			LegNumber:          "1",
			Busynance:          "10",
			Quietness:          "60",
			Flow:               "0",
			Walk:               "0",
			SignalledJunctions: "0",
			SignalledCrossings: "0",
			Turn:               "",
			StartBearing:       "147",
			Color:              "#33aa33",
			Distances:          "0,5,47,20,7,37,24,38",
			Elevations:         "42,42,44,44,44,45,45,45",
			ProvisionName:      "Minor road",
			Type:               "segment",
		},
	}
}

// placeholderDefaults nests the placeholders under their config key for the structs provider.
type placeholderDefaults struct {
	Placeholders PlaceholderConfig `structs:"placeholders"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "route-fetch-service",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/app.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "route-fetch-service",
		"telemetry.sampling_rate": 1.0,

		"client.timeout":                           "30s",
		"client.retry.max_attempts":                DefaultClientRetryMaxAttempts,
		"client.retry.initial_interval":            "100ms",
		"client.retry.max_interval":                "5s",
		"client.retry.multiplier":                  DefaultClientRetryMultiplier,
		"client.retry.jitter_factor":               DefaultClientRetryJitterFactor,
		"client.circuit_breaker.max_failures":      DefaultClientCircuitMaxFailures,
		"client.circuit_breaker.timeout":           "30s",
		"client.circuit_breaker.half_open_limit":   DefaultClientCircuitHalfOpenLimit,
		"client.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"client.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"client.transport.idle_conn_timeout":       "90s",

		"services.open_route.base_url":   "https://api.openrouteservice.org",
		"services.open_route.name":       "open-route-service",
		"services.open_route.api_key":    "",
		"services.cyclestreets.base_url": "https://www.cyclestreets.net",
		"services.cyclestreets.name":     "cyclestreets",
		"services.cyclestreets.api_key":  "",

		"routing.not_found_message": DefaultNotFoundMessage,
		"routing.default_speed":     DefaultRouteSpeed,
	}
}

// Load merges, lowest precedence first: placeholder defaults, defaults(),
// configs/base.yaml, configs/<profile>.yaml and APP_ variables. Missing files
// are skipped.
func Load(profile string) (*Config, error) {
	k := koanf.New(".")

	layers := []struct {
		name string
		load func() error
	}{
		{"placeholder defaults", func() error {
			return k.Load(structs.Provider(placeholderDefaults{Placeholders: DefaultPlaceholders()}, "structs"), nil)
		}},
		{"defaults", func() error {
			return k.Load(confmap.Provider(defaults(), "."), nil)
		}},
		{"base config", func() error {
			return loadFileIfExists(k, filepath.Join("configs", "base.yaml"))
		}},
		{fmt.Sprintf("profile config %q", profile), func() error {
			if profile == "" {
				return nil
			}

			return loadFileIfExists(k, filepath.Join("configs", profile+".yaml"))
		}},
		{"env vars", func() error {
			return k.Load(env.Provider("APP_", ".", envKey), nil)
		}},
	}

	for _, layer := range layers {
		if err := layer.load(); err != nil {
			return nil, fmt.Errorf("loading %s: %w", layer.name, err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKey maps an environment variable name to a config key.
// A double underscore separates levels so keys containing "_" stay reachable:
// APP_SERVICES__OPEN_ROUTE__API_KEY becomes services.open_route.api_key.
// Without one, every underscore is a level separator: APP_SERVER_PORT becomes server.port.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, "APP_"))
	if strings.Contains(key, "__") {
		return strings.ReplaceAll(key, "__", ".")
	}

	return strings.ReplaceAll(key, "_", ".")
}

// loadFileIfExists merges the YAML file at path, ignoring a missing file.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
