package status

import (
	"sync"
	"time"
)

// Recorder is a Sink that keeps the current transition and a bounded
// history. The status server reads it to answer /status requests.
type Recorder struct {
	mu      sync.RWMutex
	current Transition
	history []Transition
	limit   int
	clock   func() time.Time
}

const defaultHistoryLimit = 32

// NewRecorder creates a recorder keeping up to limit past transitions.
// A limit <= 0 uses the default of 32.
func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return &Recorder{limit: limit, clock: time.Now}
}

// Set records the transition as current and appends it to history.
func (r *Recorder) Set(s Status, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := Transition{Status: s, Message: message, At: r.clock()}
	r.current = t
	r.history = append(r.history, t)
	if len(r.history) > r.limit {
		r.history = r.history[len(r.history)-r.limit:]
	}
}

// Current returns the latest transition. The zero Transition is returned
// before any status has been reported.
func (r *Recorder) Current() Transition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// History returns a copy of the recorded transitions, oldest first.
func (r *Recorder) History() []Transition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Transition, len(r.history))
	copy(out, r.history)
	return out
}
