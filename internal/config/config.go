// Package config defines the reminder-trigger engine configuration.
// Configuration is loaded once at process initialization (Lambda cold start)
// and is immutable thereafter. Any missing required value or invalid format
// aborts startup before the first tick runs (fail fast).
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"agendapulse/internal/types"
)

// SecretString is an alias for types.SecretString, the redacted secret type
// used to keep credentials out of logs and config dumps.
type SecretString = types.SecretString

// Config is the complete configuration for the reminder-trigger Lambda.
// Sub-components receive only the specific values they require.
type Config struct {
	// System metadata.
	Environment string `envconfig:"APP_ENV" default:"local" validate:"oneof=local dev staging prod"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	// Store connection. The document-store addressing of the original
	// deployment (database id + per-entity collection ids) collapses to a
	// single DSN plus fixed table names under Postgres.
	DatabaseURL SecretString `envconfig:"DATABASE_URL" validate:"required"`

	// Engine tuning.
	BatchSize        int `envconfig:"BATCH_SIZE" default:"100" validate:"gt=0,lte=1000"`
	LookAheadMinutes int `envconfig:"LOOK_AHEAD_MINUTES" default:"5" validate:"gt=0,lte=1440"`

	// RunDeadlineMargin is subtracted from the host execution deadline to
	// leave room to flush the execution report with partial counts.
	RunDeadlineMargin time.Duration `envconfig:"RUN_DEADLINE_MARGIN" default:"3s"`

	// MetricsNamespace enables CloudWatch tick metrics when non-empty.
	MetricsNamespace string `envconfig:"METRICS_NAMESPACE"`
}

// Load reads the engine configuration from the environment.
//
// It performs the following steps in order:
//  1. Forces the process timezone to UTC to prevent drift bugs; all stored
//     timestamps are absolute instants.
//  2. Loads a .env file if present (non-fatal if missing, for local runs).
//  3. Populates the Config struct via envconfig tags.
//  4. Validates the struct with go-playground/validator.
func Load() (*Config, error) {
	time.Local = time.UTC

	// Only local development uses a .env file; absence is not an error.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, types.NewAppError(types.ErrCodeConfigInvalid, "processing environment", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, types.NewAppError(types.ErrCodeConfigMissing, "validating configuration", err)
	}

	return &cfg, nil
}

// LookAhead returns the candidate-event horizon as a duration.
func (c *Config) LookAhead() time.Duration {
	return time.Duration(c.LookAheadMinutes) * time.Minute
}

// Describe returns a loggable one-line summary with secrets redacted.
func (c *Config) Describe() string {
	return fmt.Sprintf("env=%s batch_size=%d look_ahead_minutes=%d metrics_namespace=%q",
		c.Environment, c.BatchSize, c.LookAheadMinutes, c.MetricsNamespace)
}
