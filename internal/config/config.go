// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file when
// present), loads them into structured Go types and validates that required
// values are present, so the service refuses to start instead of failing on
// the first request.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide defaults for everything that is optional.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process environment before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	// EnvPrefix is the prefix of every structured variable.
	// Nesting uses a double underscore: BALIBLISSED_SERVER__PORT -> server.port.
	EnvPrefix = "BALIBLISSED_"

	// ServiceName identifies the service in logs and APM.
	ServiceName = "baliblissed-ai-backend"

	// Version is reported by the liveness endpoint.
	Version = "1.0.0"
)

// legacyEnv maps the unprefixed variable names the frontend deployment
// already sets onto koanf keys.
var legacyEnv = map[string]string{
	"ENVIRONMENT":             "primary.env",
	"PORT":                    "server.port",
	"PRODUCTION_FRONTEND_URL": "server.production_origin",
	"GEMINI_API_KEY":          "integration.gemini_api_key",
	"LOG_TO_FILE":             "observability.logging.file",
}

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf maps values from.
// The `validate:"..."` tags are enforced by go-playground/validator.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration" validate:"required"`
	RateLimit     RateLimitConfig      `koanf:"rate_limit"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// IsProduction reports whether the service runs in production.
func (p Primary) IsProduction() bool {
	return p.Env == "production"
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are whole seconds.
type ServerConfig struct {
	Port            string `koanf:"port" validate:"required"`
	ReadTimeout     int    `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout    int    `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout     int    `koanf:"idle_timeout" validate:"required,min=1"`
	ShutdownTimeout int    `koanf:"shutdown_timeout" validate:"required,min=1"`

	// BodyLimit caps request bodies, in echo's size notation ("1M", "512K").
	BodyLimit string `koanf:"body_limit" validate:"required"`

	// CORSAllowedOrigins is the fixed development origin set.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required,min=1"`

	// ProductionOrigin is the optional deployed frontend origin.
	ProductionOrigin string `koanf:"production_origin"`

	// TrustedProxies lists the CIDR ranges of reverse proxies whose
	// X-Forwarded-For header is believed. Empty means the peer address is
	// the client address.
	TrustedProxies []string `koanf:"trusted_proxies" validate:"omitempty,dive,cidr"`
}

// AllowedOrigins returns the development origins plus the production origin
// when one is configured.
func (s ServerConfig) AllowedOrigins() []string {
	origins := make([]string, 0, len(s.CORSAllowedOrigins)+1)
	origins = append(origins, s.CORSAllowedOrigins...)

	if origin := strings.TrimSpace(s.ProductionOrigin); origin != "" {
		origins = append(origins, origin)
	}

	return origins
}

// IntegrationConfig stores secrets of external content-generation services.
//
// GeminiAPIKey is not used by the placeholder assistant, but its presence is
// a startup precondition.
type IntegrationConfig struct {
	GeminiAPIKey string `koanf:"gemini_api_key" validate:"required"`
}

// DefaultConfig returns a Config with every optional value filled in.
// Required secrets stay empty.
func DefaultConfig() *Config {
	return &Config{
		Primary: Primary{
			Env: "development",
		},
		Server: ServerConfig{
			Port:            "8000",
			ReadTimeout:     30,
			WriteTimeout:    30,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
			BodyLimit:       "1M",
			CORSAllowedOrigins: []string{
				"http://localhost:3000",
				"http://127.0.0.1:3000",
			},
		},
		RateLimit:     DefaultRateLimitConfig(),
		Observability: DefaultObservabilityConfig(),
	}
}

// LoadConfig loads configuration from environment variables, unmarshals it
// over DefaultConfig, validates it and returns the result.
//
// Sources, later ones win:
//  1. legacy unprefixed names (GEMINI_API_KEY, PRODUCTION_FRONTEND_URL, ...)
//  2. BALIBLISSED_ prefixed names
//
// A missing required value is returned as an error; the caller is expected
// to abort startup.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		mapped, ok := legacyEnv[key]
		if !ok || strings.TrimSpace(value) == "" {
			return "", nil
		}

		// LOG_TO_FILE is a flag in existing deployments; any value means
		// "write app.log".
		if key == "LOG_TO_FILE" {
			return mapped, "app.log"
		}

		return mapped, value
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not load legacy env variables")
	}

	// Blank values are skipped so an empty prefixed variable never hides a
	// legacy one.
	err = k.Load(env.ProviderWithValue(EnvPrefix, ".", func(s, value string) (string, interface{}) {
		if strings.TrimSpace(value) == "" {
			return "", nil
		}
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", "."), value
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not load env variables")
	}

	mainConfig := DefaultConfig()

	// Unmarshal fills only the keys present in koanf; defaults survive.
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal config")
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, describeValidation(err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment always follow the primary config.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid observability config")
	}

	if err := mainConfig.RateLimit.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid rate limit config")
	}

	return mainConfig, nil
}

// describeValidation lists every failing config key, e.g.
// "missing or invalid configuration: Config.Integration.GeminiAPIKey (required)".
func describeValidation(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(err, "config validation failed")
	}

	fields := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}

	return errors.Errorf("missing or invalid configuration: %s", strings.Join(fields, ", "))
}
