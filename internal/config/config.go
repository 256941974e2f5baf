// Package config loads service settings from defaults, an optional YAML file
// and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all calculator service configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr"`

	// DecimalSeparator replaces '.' in rendered display values.
	DecimalSeparator string `yaml:"decimal_separator"`

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	Session   SessionConfig   `yaml:"session"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// SessionConfig configures the in-memory session store.
type SessionConfig struct {
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	JanitorInterval time.Duration `yaml:"janitor_interval"`
}

// TelemetryConfig toggles the OTLP exporters. Endpoints come from the
// standard OTEL_EXPORTER_OTLP_* variables.
type TelemetryConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Addr:             ":8080",
		DecimalSeparator: ",",
		ShutdownTimeout:  5 * time.Second,
		Session: SessionConfig{
			IdleTimeout:     30 * time.Minute,
			JanitorInterval: time.Minute,
		},
		Telemetry: TelemetryConfig{
			Enabled: true,
		},
	}
}

// Load reads path on top of the defaults and applies environment overrides.
// An empty path or a missing file leaves the defaults in place.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if addr := os.Getenv("CALC_ADDR"); addr != "" {
		c.Addr = addr
	}
	if sep := os.Getenv("CALC_DECIMAL_SEPARATOR"); sep != "" {
		c.DecimalSeparator = sep
	}

	durations := []struct {
		env string
		dst *time.Duration
	}{
		{"CALC_SHUTDOWN_TIMEOUT", &c.ShutdownTimeout},
		{"CALC_SESSION_IDLE_TIMEOUT", &c.Session.IdleTimeout},
		{"CALC_SESSION_JANITOR_INTERVAL", &c.Session.JanitorInterval},
	}
	for _, d := range durations {
		v := os.Getenv(d.env)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", d.env, err)
		}
		*d.dst = parsed
	}

	if v := os.Getenv("CALC_OTEL_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CALC_OTEL_ENABLED: %w", err)
		}
		c.Telemetry.Enabled = enabled
	}

	return nil
}

// Validate reports settings the service cannot run with.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.DecimalSeparator == "" {
		return errors.New("decimal_separator must not be empty")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown_timeout must be positive")
	}
	if c.Session.IdleTimeout < 0 {
		return errors.New("session.idle_timeout must not be negative")
	}
	if c.Session.JanitorInterval <= 0 {
		return errors.New("session.janitor_interval must be positive")
	}
	return nil
}
