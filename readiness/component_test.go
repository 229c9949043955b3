package readiness

import (
	"context"
	"testing"
	"time"

	"github.com/skillsenselab/searchkit/component"
	"github.com/skillsenselab/searchkit/status"
)

func waitForGreen(t *testing.T, rec *status.Recorder) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if rec.Current().Status == status.Green {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("poller never reached green, last: %+v", rec.Current())
}

func TestComponent_Lifecycle(t *testing.T) {
	client := &fakeClient{}
	comp, rec, err := NewComponentWithRecorder(testConfig(), client, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if comp.Name() != "readiness" {
		t.Errorf("expected name 'readiness', got %s", comp.Name())
	}

	ctx := context.Background()
	if err := comp.Start(ctx); err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}
	waitForGreen(t, rec)

	h := comp.Health(ctx)
	if h.Status != component.StatusHealthy {
		t.Errorf("expected healthy after green, got %s", h.Status)
	}

	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("unexpected stop error: %v", err)
	}
	// Stop again is a no-op
	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("unexpected second stop error: %v", err)
	}
}

func TestComponent_HealthMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  status.Status
		message string
		want    component.HealthStatus
	}{
		{"green is healthy", status.Green, "events index ready", component.StatusHealthy},
		{"yellow is degraded", status.Yellow, "Waiting for Elasticsearch", component.StatusDegraded},
		{"red is unhealthy", status.Red, "Unable to connect to Elasticsearch.", component.StatusUnhealthy},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := status.NewRecorder(0)
			rec.Set(tc.status, tc.message)

			p, err := New(testConfig(), &fakeClient{}, rec, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			comp := NewComponent(p, rec, nil)

			h := comp.Health(context.Background())
			if h.Status != tc.want {
				t.Errorf("expected %s, got %s", tc.want, h.Status)
			}
			if h.Message != tc.message {
				t.Errorf("expected message %q, got %q", tc.message, h.Message)
			}
		})
	}
}

func TestComponent_HealthBeforeAnyTransition(t *testing.T) {
	rec := status.NewRecorder(0)
	p, err := New(testConfig(), &fakeClient{}, rec, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	comp := NewComponent(p, rec, nil)

	h := comp.Health(context.Background())
	if h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before any transition, got %s", h.Status)
	}
	if h.Message == "" {
		t.Error("expected a message before any transition")
	}
}

func TestComponent_Describe(t *testing.T) {
	comp, _, err := NewComponentWithRecorder(testConfig(), &fakeClient{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d := comp.Describe()
	if d.Type != "poller" {
		t.Errorf("expected type 'poller', got %s", d.Type)
	}
	if d.Details != "Elasticsearch index=events" {
		t.Errorf("unexpected details: %q", d.Details)
	}
}

func TestComponent_StopCancelsRun(t *testing.T) {
	// health never reaches green
	client := &fakeClient{}
	for i := 0; i < 1000; i++ {
		client.healths = append(client.healths, healthResult{snap: nil, err: context.DeadlineExceeded})
	}

	comp, _, err := NewComponentWithRecorder(testConfig(), client, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	if err := comp.Start(ctx); err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}

	stopCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := comp.Stop(stopCtx); err != nil {
		t.Fatalf("expected clean stop, got %v", err)
	}
}
