package status

import "time"

// Status is the tri-state readiness signal reported by the poller.
type Status string

const (
	// Red means the cluster is unreachable or unhealthy.
	Red Status = "red"
	// Yellow means the poller is waiting: for connectivity, or for the
	// index to exist.
	Yellow Status = "yellow"
	// Green means the cluster is reachable and the index is healthy.
	Green Status = "green"
)

// Valid reports whether s is one of the three known states.
func (s Status) Valid() bool {
	return s == Red || s == Yellow || s == Green
}

// Transition is one emitted status change.
type Transition struct {
	Status  Status    `json:"status"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Sink receives status transitions from the poller.
type Sink interface {
	Set(s Status, message string)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(s Status, message string)

// Set calls the wrapped function.
func (f SinkFunc) Set(s Status, message string) { f(s, message) }

// CallbackSink dispatches transitions to three discrete callback slots,
// for hosts that wire separate red/yellow/green handlers.
// Nil slots are skipped.
type CallbackSink struct {
	OnRed    func(message string)
	OnYellow func(message string)
	OnGreen  func(message string)
}

// Set dispatches to the matching callback slot.
func (c *CallbackSink) Set(s Status, message string) {
	switch s {
	case Red:
		if c.OnRed != nil {
			c.OnRed(message)
		}
	case Yellow:
		if c.OnYellow != nil {
			c.OnYellow(message)
		}
	case Green:
		if c.OnGreen != nil {
			c.OnGreen(message)
		}
	}
}

// MultiSink fans a transition out to several sinks in order.
type MultiSink []Sink

// Set forwards the transition to every sink.
func (m MultiSink) Set(s Status, message string) {
	for _, sink := range m {
		sink.Set(s, message)
	}
}

// Discard is a Sink that drops all transitions.
var Discard Sink = SinkFunc(func(Status, string) {})
