package readiness

import (
	"context"
	"sync"

	"github.com/skillsenselab/searchkit/component"
	"github.com/skillsenselab/searchkit/logger"
	"github.com/skillsenselab/searchkit/search"
	"github.com/skillsenselab/searchkit/status"
)

// Component runs the poller as a lifecycle-managed component. Start
// launches Run in a goroutine; Health reflects the most recent status
// transition; Stop cancels the run and waits for it to exit.
type Component struct {
	poller   *Poller
	recorder *status.Recorder
	log      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// compile-time assertions
var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent wraps a poller. The recorder must be wired into the
// poller's sink so Health sees the transitions; see NewComponentWithRecorder
// for the common single-sink setup.
func NewComponent(poller *Poller, recorder *status.Recorder, log *logger.Logger) *Component {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Component{
		poller:   poller,
		recorder: recorder,
		log:      log.WithComponent("readiness"),
	}
}

// NewComponentWithRecorder builds a recorder, wires it as the poller's
// sink alongside a log sink, and returns the component plus the recorder
// for hosts that serve the status externally.
func NewComponentWithRecorder(cfg Config, client search.Client, log *logger.Logger) (*Component, *status.Recorder, error) {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	recorder := status.NewRecorder(0)
	sink := status.MultiSink{recorder, status.NewLogSink(log)}

	poller, err := New(cfg, client, sink, log)
	if err != nil {
		return nil, nil, err
	}
	return NewComponent(poller, recorder, log), recorder, nil
}

// Poller exposes the wrapped poller so hosts can attach options, such as
// metrics, before Start.
func (c *Component) Poller() *Poller {
	return c.poller
}

// Name returns the component name.
func (c *Component) Name() string {
	return "readiness"
}

// Start launches the readiness run in the background.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.cancel = cancel
	c.done = make(chan struct{})

	go func() {
		defer close(c.done)
		if err := c.poller.Run(runCtx); err != nil && runCtx.Err() == nil {
			c.log.Error("readiness run failed", logger.ErrorFields("run", err))
		}
	}()
	return nil
}

// Stop cancels the run and waits for it to exit.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Health maps the last reported status onto component health:
// green is healthy, yellow is degraded, red (or nothing yet) is unhealthy.
func (c *Component) Health(_ context.Context) component.Health {
	h := component.Health{Name: c.Name()}
	if c.recorder == nil {
		h.Status = component.StatusUnhealthy
		h.Message = "no status recorded"
		return h
	}

	cur := c.recorder.Current()
	h.Message = cur.Message
	switch cur.Status {
	case status.Green:
		h.Status = component.StatusHealthy
	case status.Yellow:
		h.Status = component.StatusDegraded
	default:
		h.Status = component.StatusUnhealthy
		if h.Message == "" {
			h.Message = "no status recorded"
		}
	}
	return h
}

// Describe returns component description for startup logging.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Readiness Poller",
		Type:    "poller",
		Details: c.poller.config.Service + " index=" + c.poller.config.Index,
	}
}
