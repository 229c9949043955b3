package status

import (
	"testing"
	"time"
)

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{Red, Yellow, Green} {
		if !s.Valid() {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if Status("purple").Valid() {
		t.Error("expected purple to be invalid")
	}
}

func TestCallbackSinkDispatch(t *testing.T) {
	var reds, yellows, greens []string
	sink := &CallbackSink{
		OnRed:    func(msg string) { reds = append(reds, msg) },
		OnYellow: func(msg string) { yellows = append(yellows, msg) },
		OnGreen:  func(msg string) { greens = append(greens, msg) },
	}

	sink.Set(Yellow, "Waiting for Elasticsearch")
	sink.Set(Red, "Unable to connect to Elasticsearch")
	sink.Set(Green, "events index ready")

	if len(yellows) != 1 || yellows[0] != "Waiting for Elasticsearch" {
		t.Errorf("unexpected yellow messages: %v", yellows)
	}
	if len(reds) != 1 || reds[0] != "Unable to connect to Elasticsearch" {
		t.Errorf("unexpected red messages: %v", reds)
	}
	if len(greens) != 1 || greens[0] != "events index ready" {
		t.Errorf("unexpected green messages: %v", greens)
	}
}

func TestCallbackSinkNilSlots(t *testing.T) {
	sink := &CallbackSink{}
	// Must not panic with all slots nil.
	sink.Set(Red, "r")
	sink.Set(Yellow, "y")
	sink.Set(Green, "g")
}

func TestMultiSinkFanOut(t *testing.T) {
	var a, b []Status
	m := MultiSink{
		SinkFunc(func(s Status, _ string) { a = append(a, s) }),
		SinkFunc(func(s Status, _ string) { b = append(b, s) }),
	}

	m.Set(Yellow, "waiting")
	m.Set(Green, "ready")

	if len(a) != 2 || len(b) != 2 {
		t.Errorf("expected both sinks to receive 2 transitions, got %d and %d", len(a), len(b))
	}
}

func TestRecorderCurrentAndHistory(t *testing.T) {
	r := NewRecorder(0)
	if cur := r.Current(); cur.Status != "" {
		t.Errorf("expected zero transition before any Set, got %v", cur)
	}

	r.Set(Yellow, "Waiting for Elasticsearch")
	r.Set(Green, "events index ready")

	cur := r.Current()
	if cur.Status != Green || cur.Message != "events index ready" {
		t.Errorf("unexpected current transition: %v", cur)
	}
	if cur.At.IsZero() {
		t.Error("expected timestamp to be set")
	}

	h := r.History()
	if len(h) != 2 || h[0].Status != Yellow || h[1].Status != Green {
		t.Errorf("unexpected history: %v", h)
	}
}

func TestRecorderHistoryBound(t *testing.T) {
	r := NewRecorder(3)
	for i := 0; i < 10; i++ {
		r.Set(Yellow, "w")
	}
	r.Set(Green, "ready")

	h := r.History()
	if len(h) != 3 {
		t.Fatalf("expected history capped at 3, got %d", len(h))
	}
	if h[2].Status != Green {
		t.Errorf("expected newest entry last, got %v", h[2])
	}
}

func TestRecorderHistoryIsCopy(t *testing.T) {
	r := NewRecorder(0)
	r.Set(Green, "ready")

	h := r.History()
	h[0].Message = "mutated"

	if r.History()[0].Message != "ready" {
		t.Error("History must return a copy")
	}
}

func TestRecorderTimestamps(t *testing.T) {
	r := NewRecorder(0)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r.clock = func() time.Time { return fixed }

	r.Set(Red, "down")
	if !r.Current().At.Equal(fixed) {
		t.Errorf("expected fixed timestamp, got %v", r.Current().At)
	}
}

func TestDiscard(t *testing.T) {
	// Must not panic.
	Discard.Set(Green, "ready")
}
