package readiness

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/skillsenselab/searchkit/errors"
	"github.com/skillsenselab/searchkit/resilience"
	"github.com/skillsenselab/searchkit/search"
	"github.com/skillsenselab/searchkit/status"
)

type healthResult struct {
	snap *search.HealthSnapshot
	err  error
}

// fakeClient scripts ping and health responses per call. Once a script
// is exhausted, calls succeed (health reports green).
type fakeClient struct {
	mu sync.Mutex

	pingErrs    []error
	pingCalls   int
	nodeInfoErr error
	nodeCalls   int
	healths     []healthResult
	healthCalls int
	createErr   error
	createCalls int
}

func (f *fakeClient) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingCalls++
	if len(f.pingErrs) > 0 {
		err := f.pingErrs[0]
		f.pingErrs = f.pingErrs[1:]
		return err
	}
	return nil
}

func (f *fakeClient) NodeInfo(context.Context) (*search.NodeInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nodeCalls++
	if f.nodeInfoErr != nil {
		return nil, f.nodeInfoErr
	}
	info := &search.NodeInfo{Name: "node-1", ClusterName: "test-cluster"}
	info.Version.Number = "8.12.0"
	return info, nil
}

func (f *fakeClient) Health(context.Context, string) (*search.HealthSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.healthCalls++
	if len(f.healths) > 0 {
		r := f.healths[0]
		f.healths = f.healths[1:]
		return r.snap, r.err
	}
	return &search.HealthSnapshot{Status: status.Green}, nil
}

func (f *fakeClient) CreateIndex(context.Context, string, search.IndexSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	return f.createErr
}

func (f *fakeClient) counts() (ping, node, health, create int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingCalls, f.nodeCalls, f.healthCalls, f.createCalls
}

// captureSink records every transition in order.
type captureSink struct {
	mu          sync.Mutex
	transitions []status.Transition
}

func (c *captureSink) Set(s status.Status, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transitions = append(c.transitions, status.Transition{Status: s, Message: msg})
}

func (c *captureSink) all() []status.Transition {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]status.Transition, len(c.transitions))
	copy(out, c.transitions)
	return out
}

func (c *captureSink) count(s status.Status) int {
	n := 0
	for _, t := range c.all() {
		if t.Status == s {
			n++
		}
	}
	return n
}

func testConfig() Config {
	return Config{
		Index: "events",
		Probe: resilience.RetryConfig{
			MaxAttempts:    5,
			InitialBackoff: time.Millisecond,
			MaxBackoff:     2 * time.Millisecond,
		},
		PollInitialInterval: time.Millisecond,
		PollMaxInterval:     2 * time.Millisecond,
	}
}

func newTestPoller(t *testing.T, client *fakeClient, sink status.Sink) *Poller {
	t.Helper()
	p, err := New(testConfig(), client, sink, nil)
	if err != nil {
		t.Fatalf("unexpected error creating poller: %v", err)
	}
	return p
}

func TestRun_FirstEmissionIsWaiting(t *testing.T) {
	client := &fakeClient{}
	sink := &captureSink{}
	p := newTestPoller(t, client, sink)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ts := sink.all()
	if len(ts) == 0 {
		t.Fatal("expected at least one transition")
	}
	if ts[0].Status != status.Yellow {
		t.Errorf("expected first transition yellow, got %s", ts[0].Status)
	}
	if ts[0].Message != "Waiting for Elasticsearch" {
		t.Errorf("expected waiting message, got %q", ts[0].Message)
	}
}

func TestRun_AlreadyHealthy(t *testing.T) {
	client := &fakeClient{}
	sink := &captureSink{}
	p := newTestPoller(t, client, sink)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ping, node, health, create := client.counts()
	if ping != 1 {
		t.Errorf("expected 1 ping, got %d", ping)
	}
	if node != 1 {
		t.Errorf("expected 1 node info call, got %d", node)
	}
	if health != 1 {
		t.Errorf("expected 1 health call, got %d", health)
	}
	if create != 0 {
		t.Errorf("expected no index creation, got %d", create)
	}

	ts := sink.all()
	if len(ts) != 2 {
		t.Fatalf("expected exactly 2 transitions, got %d: %+v", len(ts), ts)
	}
	if ts[0].Status != status.Yellow || ts[1].Status != status.Green {
		t.Errorf("expected yellow then green, got %s then %s", ts[0].Status, ts[1].Status)
	}
	if ts[1].Message != "events index ready" {
		t.Errorf("expected ready message, got %q", ts[1].Message)
	}
}

func TestRun_ProbeFailureEmitsRedOnce(t *testing.T) {
	client := &fakeClient{
		pingErrs: []error{errors.ConnectionFailed("Elasticsearch")},
	}
	sink := &captureSink{}
	p := newTestPoller(t, client, sink)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := sink.count(status.Red); got != 1 {
		t.Errorf("expected exactly 1 red transition, got %d", got)
	}

	ts := sink.all()
	sawRed := false
	for _, tr := range ts {
		switch tr.Status {
		case status.Red:
			sawRed = true
			if tr.Message != "Unable to connect to Elasticsearch." {
				t.Errorf("expected connection failure message, got %q", tr.Message)
			}
		case status.Green:
			if !sawRed {
				t.Error("expected red before green")
			}
		}
	}
	if ts[len(ts)-1].Status != status.Green {
		t.Errorf("expected final transition green, got %s", ts[len(ts)-1].Status)
	}

	ping, _, _, _ := client.counts()
	if ping != 2 {
		t.Errorf("expected 2 pings, got %d", ping)
	}
}

func TestRun_ProbeExhaustedReturnsError(t *testing.T) {
	client := &fakeClient{
		pingErrs: []error{
			errors.ConnectionFailed("Elasticsearch"),
			errors.ConnectionFailed("Elasticsearch"),
		},
	}
	sink := &captureSink{}

	cfg := testConfig()
	cfg.Probe.MaxAttempts = 2
	p, err := New(cfg, client, sink, nil)
	if err != nil {
		t.Fatalf("unexpected error creating poller: %v", err)
	}

	err = p.Run(context.Background())
	if err == nil {
		t.Fatal("expected error when probe attempts are exhausted")
	}
	if !errors.IsConnectionFailed(err) {
		t.Errorf("expected connection failure, got %v", err)
	}
	if got := sink.count(status.Red); got != 1 {
		t.Errorf("expected exactly 1 red transition, got %d", got)
	}
	if got := sink.count(status.Green); got != 0 {
		t.Errorf("expected no green transition, got %d", got)
	}
}

func TestRun_ClusterInitializingEmitsRedOnce(t *testing.T) {
	client := &fakeClient{
		healths: []healthResult{
			{snap: &search.HealthSnapshot{Status: status.Red}},
			{snap: &search.HealthSnapshot{Status: status.Green}},
		},
	}
	sink := &captureSink{}
	p := newTestPoller(t, client, sink)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := sink.count(status.Red); got != 1 {
		t.Errorf("expected exactly 1 red transition, got %d", got)
	}

	ts := sink.all()
	for _, tr := range ts {
		if tr.Status == status.Red && tr.Message != "Elasticsearch is still initializing the events index." {
			t.Errorf("expected initializing message, got %q", tr.Message)
		}
	}
	if ts[len(ts)-1].Status != status.Green {
		t.Errorf("expected final transition green, got %s", ts[len(ts)-1].Status)
	}

	_, _, health, _ := client.counts()
	if health != 2 {
		t.Errorf("expected 2 health calls, got %d", health)
	}
}

func TestRun_CreatesMissingIndex(t *testing.T) {
	client := &fakeClient{
		healths: []healthResult{
			{snap: &search.HealthSnapshot{TimedOut: true}},
			{snap: &search.HealthSnapshot{Status: status.Green}},
		},
	}
	sink := &captureSink{}
	p := newTestPoller(t, client, sink)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _, _, create := client.counts()
	if create != 1 {
		t.Errorf("expected exactly 1 index creation, got %d", create)
	}

	noIndex := 0
	for _, tr := range sink.all() {
		if tr.Status == status.Yellow && tr.Message == "No existing events index found." {
			noIndex++
		}
	}
	if noIndex != 1 {
		t.Errorf("expected exactly 1 'no existing index' transition, got %d", noIndex)
	}
}

func TestRun_AbsentStatusTreatedAsInitializing(t *testing.T) {
	client := &fakeClient{
		healths: []healthResult{
			{snap: &search.HealthSnapshot{}},
			{snap: &search.HealthSnapshot{Status: status.Green}},
		},
	}
	sink := &captureSink{}
	p := newTestPoller(t, client, sink)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sink.count(status.Red); got != 1 {
		t.Errorf("expected 1 red transition for absent status, got %d", got)
	}
}

func TestRun_YellowSnapshotKeepsPollingSilently(t *testing.T) {
	client := &fakeClient{
		healths: []healthResult{
			{snap: &search.HealthSnapshot{Status: status.Yellow}},
			{snap: &search.HealthSnapshot{Status: status.Green}},
		},
	}
	sink := &captureSink{}
	p := newTestPoller(t, client, sink)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// only the initial waiting emission and the final green
	ts := sink.all()
	if len(ts) != 2 {
		t.Fatalf("expected exactly 2 transitions, got %d: %+v", len(ts), ts)
	}
	_, _, health, _ := client.counts()
	if health != 2 {
		t.Errorf("expected 2 health calls, got %d", health)
	}
}

func TestWaitUntilReady_PollSequence(t *testing.T) {
	client := &fakeClient{
		healths: []healthResult{
			{snap: &search.HealthSnapshot{TimedOut: true}},
			{snap: &search.HealthSnapshot{Status: status.Red}},
			{snap: &search.HealthSnapshot{Status: status.Green}},
		},
	}
	sink := &captureSink{}
	p := newTestPoller(t, client, sink)

	if err := p.WaitUntilReady(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ping, _, health, create := client.counts()
	if health != 3 {
		t.Errorf("expected exactly 3 health calls, got %d", health)
	}
	if ping != 0 {
		t.Errorf("expected no pings from WaitUntilReady, got %d", ping)
	}
	if create != 1 {
		t.Errorf("expected 1 index creation, got %d", create)
	}
}

func TestWaitUntilReady_HealthErrorEmitsRedOnce(t *testing.T) {
	client := &fakeClient{
		healths: []healthResult{
			{err: errors.ConnectionFailed("Elasticsearch")},
			{err: errors.ConnectionFailed("Elasticsearch")},
			{snap: &search.HealthSnapshot{Status: status.Green}},
		},
	}
	sink := &captureSink{}
	p := newTestPoller(t, client, sink)

	if err := p.WaitUntilReady(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sink.count(status.Red); got != 1 {
		t.Errorf("expected 1 red transition across the failing streak, got %d", got)
	}
}

func TestWaitUntilReady_ContextCancelled(t *testing.T) {
	client := &fakeClient{
		healths: []healthResult{
			{snap: &search.HealthSnapshot{Status: status.Red}},
			{snap: &search.HealthSnapshot{Status: status.Red}},
			{snap: &search.HealthSnapshot{Status: status.Red}},
		},
	}
	sink := &captureSink{}
	p := newTestPoller(t, client, sink)

	// never reaches green while the script lasts; cancel instead
	client.healths = append(client.healths, client.healths...)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	err := p.WaitUntilReady(ctx)
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRun_IndexCreationFailureKeepsPolling(t *testing.T) {
	client := &fakeClient{
		createErr: errors.ExternalServiceError("Elasticsearch", nil),
		healths: []healthResult{
			{snap: &search.HealthSnapshot{TimedOut: true}},
			{snap: &search.HealthSnapshot{Status: status.Green}},
		},
	}
	sink := &captureSink{}
	p := newTestPoller(t, client, sink)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sink.all()[len(sink.all())-1].Status != status.Green {
		t.Error("expected run to resolve green despite create failure")
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{Index: "events"}
	cfg.ApplyDefaults()

	if cfg.Service != "Elasticsearch" {
		t.Errorf("expected default service name, got %q", cfg.Service)
	}
	if cfg.PollInitialInterval != 500*time.Millisecond {
		t.Errorf("expected 500ms initial interval, got %v", cfg.PollInitialInterval)
	}
	if cfg.PollMaxInterval != 30*time.Second {
		t.Errorf("expected 30s max interval, got %v", cfg.PollMaxInterval)
	}
	if cfg.PollMultiplier != 2.0 {
		t.Errorf("expected multiplier 2.0, got %v", cfg.PollMultiplier)
	}
	if cfg.Probe.MaxAttempts != resilience.UnlimitedAttempts {
		t.Errorf("expected unlimited probe attempts by default, got %d", cfg.Probe.MaxAttempts)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing index")
	}

	cfg = Config{Index: "events", PollInitialInterval: time.Second, PollMaxInterval: time.Millisecond}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for max interval below initial interval")
	}

	cfg = Config{Index: "events"}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Config{}, &fakeClient{}, status.Discard, nil)
	if err == nil {
		t.Fatal("expected error for config without index")
	}
}
