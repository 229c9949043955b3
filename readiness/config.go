package readiness

import (
	"fmt"
	"time"

	"github.com/skillsenselab/searchkit/resilience"
	"github.com/skillsenselab/searchkit/search"
)

const (
	defaultPollInitialInterval = 500 * time.Millisecond
	defaultPollMaxInterval     = 30 * time.Second
	defaultPollMultiplier      = 2.0
)

// Config configures the readiness poller.
type Config struct {
	// Service is the display name of the dependency, used in status
	// messages and logs. Defaults to the search client's service name.
	Service string `yaml:"service" mapstructure:"service"`

	// Index is the index whose readiness is being tracked. Required.
	Index string `yaml:"index" mapstructure:"index"`

	// IndexSettings is applied when the poller has to create the index.
	IndexSettings search.IndexSettings `yaml:"index_settings" mapstructure:"index_settings"`

	// Probe is the retry policy for the initial connectivity probe.
	// MaxAttempts of zero retries until the probe succeeds or the
	// context is cancelled.
	Probe resilience.RetryConfig `yaml:"probe" mapstructure:"probe"`

	// PollInitialInterval is the delay after the first health poll.
	PollInitialInterval time.Duration `yaml:"poll_initial_interval" mapstructure:"poll_initial_interval"`

	// PollMaxInterval caps the delay between health polls.
	PollMaxInterval time.Duration `yaml:"poll_max_interval" mapstructure:"poll_max_interval"`

	// PollMultiplier is the backoff growth factor between polls.
	PollMultiplier float64 `yaml:"poll_multiplier" mapstructure:"poll_multiplier"`
}

// ApplyDefaults fills unset fields with defaults.
func (c *Config) ApplyDefaults() {
	if c.Service == "" {
		c.Service = search.ServiceName
	}
	if c.Probe.InitialBackoff <= 0 {
		c.Probe.InitialBackoff = defaultPollInitialInterval
	}
	if c.Probe.MaxBackoff <= 0 {
		c.Probe.MaxBackoff = defaultPollMaxInterval
	}
	if c.Probe.BackoffFactor <= 0 {
		c.Probe.BackoffFactor = defaultPollMultiplier
	}
	if c.PollInitialInterval <= 0 {
		c.PollInitialInterval = defaultPollInitialInterval
	}
	if c.PollMaxInterval <= 0 {
		c.PollMaxInterval = defaultPollMaxInterval
	}
	if c.PollMultiplier <= 1 {
		c.PollMultiplier = defaultPollMultiplier
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Index == "" {
		return fmt.Errorf("readiness.index is required")
	}
	if c.PollMaxInterval < c.PollInitialInterval {
		return fmt.Errorf("readiness.poll_max_interval must be >= poll_initial_interval (got: %s < %s)",
			c.PollMaxInterval, c.PollInitialInterval)
	}
	return nil
}
