package config

import (
	"fmt"
	"time"

	"github.com/skillsenselab/searchkit/readiness"
	"github.com/skillsenselab/searchkit/search"
	"github.com/skillsenselab/searchkit/server"
	"github.com/skillsenselab/searchkit/util"
	"github.com/skillsenselab/searchkit/validation"
)

// Config is the full configuration for a readiness-poller deployment.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Search    search.Config    `yaml:"search" mapstructure:"search"`
	Readiness readiness.Config `yaml:"readiness" mapstructure:"readiness"`
	Server    server.Config    `yaml:"server" mapstructure:"server"`
	Telemetry TelemetryConfig  `yaml:"telemetry" mapstructure:"telemetry"`
}

// TelemetryConfig configures the OTLP exporters.
type TelemetryConfig struct {
	Enabled    bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string        `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	Insecure   bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64       `yaml:"sample_rate" mapstructure:"sample_rate" validate:"min=0,max=1"`
	Interval   time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ApplyDefaults fills unset telemetry fields with development defaults.
func (c *TelemetryConfig) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
}

// ApplyDefaults applies defaults to every section.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Search.ApplyDefaults()
	c.Readiness.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate validates every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Search.Validate(); err != nil {
		return err
	}
	if err := c.Readiness.Validate(); err != nil {
		return err
	}
	if err := validation.IndexName("readiness.index", c.Readiness.Index); err != nil {
		return fmt.Errorf("config.readiness: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c.Telemetry); err != nil {
		return fmt.Errorf("config.telemetry: %w", err)
	}
	return nil
}

// LoadAndValidate loads configuration, applies defaults, and validates it.
func LoadAndValidate(serviceName string, opts ...LoaderOption) (*Config, error) {
	var cfg Config
	if err := Load(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.Name = util.Coalesce(cfg.Name, serviceName)
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
