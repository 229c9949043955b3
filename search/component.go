package search

import (
	"context"

	"github.com/skillsenselab/searchkit/component"
	"github.com/skillsenselab/searchkit/logger"
)

// Component wraps the cluster client with lifecycle management. The
// client is built at construction time so hosts can hand it to consumers
// before the lifecycle starts; Start only marks it live.
type Component struct {
	client  *HTTPClient
	config  Config
	log     *logger.Logger
	started bool
}

// compile-time assertions
var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a new search client component.
func NewComponent(cfg Config, log *logger.Logger) (*Component, error) {
	client, err := NewHTTPClient(cfg, log)
	if err != nil {
		return nil, err
	}
	return &Component{client: client, config: cfg, log: log}, nil
}

// Name returns the component name.
func (c *Component) Name() string {
	return "search"
}

// Start marks the client live. Connectivity is not checked here; waiting
// for the cluster is the readiness poller's job.
func (c *Component) Start(_ context.Context) error {
	c.started = true
	return nil
}

// Stop releases pooled connections.
func (c *Component) Stop(_ context.Context) error {
	c.started = false
	c.client.httpClient.CloseIdleConnections()
	return nil
}

// Health pings the cluster.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if !c.started {
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
		return h
	}
	if err := c.client.Ping(ctx); err != nil {
		h.Status = component.StatusUnhealthy
		h.Message = err.Error()
	}
	return h
}

// Describe returns component description for startup logging.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Search Client",
		Type:    "client",
		Details: c.config.Address,
	}
}

// Client returns the underlying cluster client.
func (c *Component) Client() Client {
	return c.client
}
