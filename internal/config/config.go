package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the narrate service.
// Environment variables are parsed from the NARRATE_ prefix,
// e.g. NARRATE_HTTP_PORT, NARRATE_POSTGRES_DSN.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Storage. DBDriver selects the adapter; "auto" resolves to postgres
	// when a DSN is configured and sqlite otherwise.
	DBDriver    string `envconfig:"DB_DRIVER" default:"auto"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"./data/narrate.db"`

	BootstrapTimeoutSeconds int `envconfig:"BOOTSTRAP_TIMEOUT_SECONDS" default:"5"`

	// Sessions
	JWTSecret       string `envconfig:"JWT_SECRET" default:""`
	TokenTTLMinutes int    `envconfig:"TOKEN_TTL_MINUTES" default:"1440"`

	// Generative provider
	Provider               string `envconfig:"PROVIDER" default:"openai"`
	ProviderAPIKey         string `envconfig:"PROVIDER_API_KEY" default:""`
	ProviderBaseURL        string `envconfig:"PROVIDER_BASE_URL" default:""`
	ProviderModel          string `envconfig:"PROVIDER_MODEL" default:"gpt-4o-mini"`
	ProviderTimeoutSeconds int    `envconfig:"PROVIDER_TIMEOUT_SECONDS" default:"60"`

	// Summary endpoint policy
	SummaryMaxAttempts      int `envconfig:"SUMMARY_MAX_ATTEMPTS" default:"3"`
	SummaryRetryDelayMillis int `envconfig:"SUMMARY_RETRY_DELAY_MILLIS" default:"2000"`

	// Eligibility read caching
	EligibilityCacheTTLSeconds int `envconfig:"ELIGIBILITY_CACHE_TTL_SECONDS" default:"30"`

	// Health monitoring
	HealthIntervalSeconds int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
}

// ResolveDefaults validates the driver and provider selection and resolves
// "auto" values.
func (c *Config) ResolveDefaults() error {
	if c.DBDriver == "" || c.DBDriver == "auto" {
		if c.PostgresDSN != "" {
			c.DBDriver = "postgres"
		} else {
			c.DBDriver = "sqlite"
		}
	}
	allowedDB := map[string]bool{"postgres": true, "sqlite": true}
	if !allowedDB[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.DBDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("NARRATE_POSTGRES_DSN is required when DB_DRIVER=postgres")
	}

	allowedProvider := map[string]bool{"openai": true, "ollama": true}
	if !allowedProvider[c.Provider] {
		return fmt.Errorf("unsupported PROVIDER: %s", c.Provider)
	}
	return nil
}

// New creates a new Config by parsing environment variables.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("NARRATE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("db_driver", cfg.DBDriver).
		Str("provider", cfg.Provider).
		Str("provider_model", cfg.ProviderModel).
		Bool("provider_key_present", cfg.ProviderAPIKey != "").
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Msg("Configuration loaded")

	return &cfg, nil
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// ProviderTimeout returns the provider call timeout as a duration.
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.ProviderTimeoutSeconds) * time.Second
}

// TokenTTL returns the session token lifetime as a duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// EligibilityCacheTTL returns the eligibility cache lifetime as a duration.
func (c *Config) EligibilityCacheTTL() time.Duration {
	return time.Duration(c.EligibilityCacheTTLSeconds) * time.Second
}

// SummaryRetryDelay returns the fixed delay between summary retry attempts.
func (c *Config) SummaryRetryDelay() time.Duration {
	return time.Duration(c.SummaryRetryDelayMillis) * time.Millisecond
}
