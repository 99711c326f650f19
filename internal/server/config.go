package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds gateway configuration loaded from environment variables.
type Config struct {
	ListenAddr  string `env:"GATEWAY_LISTEN_ADDR"  envDefault:"0.0.0.0:8000"`
	MetricsAddr string `env:"GATEWAY_METRICS_ADDR"`

	// AgentEndpoint overrides the dstack agent location. Empty defers to the
	// SDK (DSTACK_SIMULATOR_ENDPOINT, then /var/run/dstack.sock).
	AgentEndpoint string        `env:"DSTACK_ENDPOINT"`
	AgentTimeout  time.Duration `env:"GATEWAY_AGENT_TIMEOUT" envDefault:"0s"`

	ShutdownTimeout time.Duration `env:"GATEWAY_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSOrigins     []string      `env:"GATEWAY_CORS_ORIGINS"     envSeparator:","`
}

// LoadConfig loads gateway configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate normalizes list values and rejects unusable settings.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ListenAddr) == "" {
		return fmt.Errorf("GATEWAY_LISTEN_ADDR must not be empty")
	}
	if c.AgentTimeout < 0 {
		return fmt.Errorf("GATEWAY_AGENT_TIMEOUT must not be negative")
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("GATEWAY_SHUTDOWN_TIMEOUT must not be negative")
	}
	if c.MetricsAddr != "" && c.MetricsAddr == c.ListenAddr {
		return fmt.Errorf("GATEWAY_METRICS_ADDR must differ from GATEWAY_LISTEN_ADDR")
	}

	var origins []string
	for _, o := range c.CORSOrigins {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}
	c.CORSOrigins = origins
	return nil
}
