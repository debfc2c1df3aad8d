/*
Package config loads server configuration from the environment.

PURPOSE:
  One place for every knob the server reads at startup. An optional .env
  file is loaded first for local development, then the environment is
  parsed into Config. Command-line flags in cmd/server may override the
  port and database path afterwards.

VARIABLES:
  PORT                      HTTP port (8080)
  DB_PATH                   SQLite database file (reserve.db)
  LOG_LEVEL                 logrus level name (info)
  LOG_FORMAT                json | text (json)
  CORS_ORIGINS              Comma-separated allowed origins (*)
  DEFAULT_HORIZON_YEARS     Horizon for studies that omit one (30)
  CRITICAL_THRESHOLD_YEARS  Critical-component cutoff (10)
  SEED_SCENARIO             Preset loaded on an empty database (none)
  MONITOR_INTERVAL          Solvency monitor period, 0 disables (1h)

SEE ALSO:
  - cmd/server/main.go: Startup
  - logging/logging.go: Uses LogLevel and LogFormat
*/
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP Server
	Port        string   `env:"PORT" envDefault:"8080"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	// Database
	DBPath string `env:"DB_PATH" envDefault:"reserve.db"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Projection defaults
	DefaultHorizonYears    int `env:"DEFAULT_HORIZON_YEARS" envDefault:"30"`
	CriticalThresholdYears int `env:"CRITICAL_THRESHOLD_YEARS" envDefault:"10"`

	SeedScenario string `env:"SEED_SCENARIO"`

	// MonitorInterval is how often the solvency monitor re-projects all
	// studies. Zero disables it.
	MonitorInterval time.Duration `env:"MONITOR_INTERVAL" envDefault:"1h"`
}

// Load reads an optional .env file and parses the environment.
func Load(envFiles ...string) (*Config, error) {
	// Missing .env files are normal outside local development.
	_ = godotenv.Load(envFiles...)
	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		problems = append(problems, "database path cannot be empty")
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		problems = append(problems, fmt.Sprintf("invalid log format '%s': must be 'json' or 'text'", c.LogFormat))
	}

	if c.DefaultHorizonYears <= 0 {
		problems = append(problems, fmt.Sprintf("invalid default horizon %d: must be positive", c.DefaultHorizonYears))
	}
	if c.CriticalThresholdYears < 0 {
		problems = append(problems, fmt.Sprintf("invalid critical threshold %d: must not be negative", c.CriticalThresholdYears))
	}

	if c.MonitorInterval < 0 {
		problems = append(problems, fmt.Sprintf("invalid monitor interval %s: must not be negative", c.MonitorInterval))
	}

	if len(problems) > 0 {
		return errors.New("configuration validation failed:\n  - " + strings.Join(problems, "\n  - "))
	}
	return nil
}
