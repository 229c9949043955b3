package search

import (
	"fmt"
	"net/url"
	"time"

	"github.com/skillsenselab/searchkit/resilience"
)

const (
	defaultTimeout       = 30 * time.Second
	defaultWaitForStatus = "yellow"
	defaultWaitTimeout   = 30 * time.Second
)

// Config configures the search cluster client.
type Config struct {
	// Address is the base URL of the cluster (e.g. "http://localhost:9200").
	Address string `yaml:"address" mapstructure:"address"`

	// Username and Password enable basic auth when both are set.
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`

	// Timeout is the per-request timeout. Defaults to 30s.
	// Health requests get WaitTimeout added on top, since the cluster
	// holds them open while waiting for the requested status.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// WaitForStatus is the cluster status health requests wait for.
	// Defaults to "yellow".
	WaitForStatus string `yaml:"wait_for_status" mapstructure:"wait_for_status"`

	// WaitTimeout is how long the cluster holds a health request before
	// answering with timed_out=true. Defaults to 30s.
	WaitTimeout time.Duration `yaml:"wait_timeout" mapstructure:"wait_timeout"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Retry configures per-request retry behavior. Nil disables retry;
	// the readiness poller supplies its own outer loop and keeps this nil.
	Retry *resilience.RetryConfig `yaml:"-" mapstructure:"-"`

	// CircuitBreaker configures circuit breaker behavior. Nil disables it.
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"-" mapstructure:"-"`

	// RateLimiter paces outgoing requests. Nil disables pacing.
	RateLimiter *resilience.RateLimiterConfig `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Address == "" {
		c.Address = "http://localhost:9200"
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.WaitForStatus == "" {
		c.WaitForStatus = defaultWaitForStatus
	}
	if c.WaitTimeout <= 0 {
		c.WaitTimeout = defaultWaitTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Address)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("search.address must be a valid URL (got: %s)", c.Address)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("search.address scheme must be http or https (got: %s)", u.Scheme)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("search.timeout must be positive")
	}
	switch c.WaitForStatus {
	case "green", "yellow", "red":
	default:
		return fmt.Errorf("search.wait_for_status must be one of [green, yellow, red] (got: %s)", c.WaitForStatus)
	}
	return nil
}
