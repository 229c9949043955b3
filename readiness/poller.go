package readiness

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"

	"github.com/skillsenselab/searchkit/errors"
	"github.com/skillsenselab/searchkit/logger"
	"github.com/skillsenselab/searchkit/observability"
	"github.com/skillsenselab/searchkit/resilience"
	"github.com/skillsenselab/searchkit/search"
	"github.com/skillsenselab/searchkit/status"
)

// pollState tracks which transition waitUntilReady last emitted, so a
// stable cluster condition is reported once instead of on every poll.
type pollState int

const (
	statePolling pollState = iota
	stateDisconnected
	stateWaitingForIndex
	stateInitializing
	stateReady
)

// Poller drives the readiness sequence for one index: probe connectivity,
// poll cluster health, create the index when it does not exist yet, and
// report each transition through a status sink.
type Poller struct {
	config  Config
	client  search.Client
	sink    status.Sink
	log     *logger.Logger
	metrics *observability.Metrics
}

// New creates a poller. The sink receives every status transition; pass
// status.Discard to run without one.
func New(cfg Config, client search.Client, sink status.Sink, log *logger.Logger) (*Poller, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = status.Discard
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	return &Poller{
		config: cfg,
		client: client,
		sink:   sink,
		log:    log.WithComponent("readiness"),
	}, nil
}

// WithMetrics attaches metric instruments to the poller.
func (p *Poller) WithMetrics(m *observability.Metrics) *Poller {
	p.metrics = m
	return p
}

// resource is how the tracked index is referred to in status messages.
func (p *Poller) resource() string {
	return p.config.Index + " index"
}

// Run performs one full readiness cycle: report yellow, probe connectivity
// with retry, log node info, wait until the index is green, then report
// green. It returns nil once the cluster is ready, or the context error
// when cancelled. With a bounded probe policy it can also return a
// connection failure.
func (p *Poller) Run(ctx context.Context) error {
	runID := uuid.NewString()
	log := p.log.WithFields(logger.Fields(
		logger.FieldRunID, runID,
		logger.FieldIndex, p.config.Index,
	))

	ctx, span := observability.StartSpan(ctx, observability.SpanReadinessRun)
	defer span.End()

	log.Info("readiness run started", logger.Fields("service", p.config.Service))
	p.emit(ctx, status.Yellow, "Waiting for "+p.config.Service)

	if err := p.probe(ctx, log); err != nil {
		observability.SetSpanError(ctx, err)
		log.Error("connectivity probe gave up", logger.ErrorFields("probe", err))
		return err
	}

	p.logNodeInfo(ctx, log)

	if err := p.waitUntilReady(ctx, log); err != nil {
		observability.SetSpanError(ctx, err)
		return err
	}

	p.emit(ctx, status.Green, p.resource()+" ready")
	log.Info("cluster ready", logger.Fields(logger.FieldStatus, string(status.Green)))
	return nil
}

// WaitUntilReady polls cluster health until the index reports green.
// Exposed for hosts that manage connectivity themselves.
func (p *Poller) WaitUntilReady(ctx context.Context) error {
	return p.waitUntilReady(ctx, p.log)
}

// probe pings the cluster until it answers. The first failure of the
// streak is reported as red; later failures only log.
func (p *Poller) probe(ctx context.Context, log *logger.Logger) error {
	cfg := p.config.Probe
	reported := false

	report := func(err error) {
		p.metrics.RecordProbeFailure(ctx, p.config.Service)
		if !reported {
			p.emit(ctx, status.Red, errors.ConnectionFailed(p.config.Service).Message)
			reported = true
		}
		log.Warn("connectivity probe failed", logger.ErrorFields("probe", err))
	}

	cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		report(err)
		log.Debug("retrying connectivity probe", logger.Fields(
			logger.FieldAttempt, attempt,
			"backoff", backoff.String(),
		))
	}

	err := resilience.RetryFunc(ctx, cfg, func() error {
		return p.client.Ping(ctx)
	})
	if err != nil {
		// A bounded policy can fail without a retry callback firing.
		report(err)
		return err
	}
	return nil
}

// logNodeInfo queries node and version info. Failures are logged only;
// the probe already proved connectivity and the health loop rechecks it.
func (p *Poller) logNodeInfo(ctx context.Context, log *logger.Logger) {
	info, err := p.client.NodeInfo(ctx)
	if err != nil {
		log.Warn("node info query failed", logger.ErrorFields("node_info", err))
		return
	}
	log.Info("connected to cluster", logger.Fields(
		logger.FieldCluster, info.ClusterName,
		"node", info.Name,
		"version", info.Version.Number,
	))
}

func (p *Poller) waitUntilReady(ctx context.Context, log *logger.Logger) error {
	ctx, span := observability.StartSpan(ctx, observability.SpanReadinessWait)
	defer span.End()

	pace := backoff.NewExponentialBackOff()
	pace.InitialInterval = p.config.PollInitialInterval
	pace.MaxInterval = p.config.PollMaxInterval
	pace.Multiplier = p.config.PollMultiplier
	pace.Reset()

	state := statePolling
	// transition flips the reported state once per streak and restarts
	// the poll pacing so a changed cluster is observed quickly again.
	transition := func(next pollState, s status.Status, msg string) {
		if state == next {
			return
		}
		state = next
		p.emit(ctx, s, msg)
		pace.Reset()
	}

	for {
		start := time.Now()
		snap, err := p.client.Health(ctx, p.config.Index)

		switch {
		case err != nil:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.metrics.RecordPoll(ctx, p.config.Service, "error", time.Since(start))
			transition(stateDisconnected, status.Red, errors.ConnectionFailed(p.config.Service).Message)
			log.Warn("health poll failed", logger.ErrorFields("health", err))

		case snap.TimedOut:
			p.metrics.RecordPoll(ctx, p.config.Service, "timed_out", time.Since(start))
			transition(stateWaitingForIndex, status.Yellow, errors.IndexNotFound(p.resource()).Message)
			p.createIndex(ctx, log)

		case snap.Status == status.Green:
			p.metrics.RecordPoll(ctx, p.config.Service, string(status.Green), time.Since(start))
			state = stateReady
			log.Debug("health poll green", logger.Fields(logger.FieldCluster, snap.ClusterName))
			return nil

		case snap.Status == status.Red || !snap.Status.Valid():
			p.metrics.RecordPoll(ctx, p.config.Service, "initializing", time.Since(start))
			transition(stateInitializing, status.Red, errors.ClusterInitializing(p.config.Service, p.resource()).Message)
			log.Debug("cluster still initializing", logger.Fields(logger.FieldStatus, string(snap.Status)))

		default:
			// Yellow without a timeout: the wait condition was met but
			// the index is not green yet. Keep polling silently.
			p.metrics.RecordPoll(ctx, p.config.Service, string(snap.Status), time.Since(start))
		}

		timer := time.NewTimer(pace.NextBackOff())
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// createIndex issues the create request. An index that appeared in the
// meantime is fine; other failures are logged and the loop retries via
// the next timed-out poll.
func (p *Poller) createIndex(ctx context.Context, log *logger.Logger) {
	err := p.client.CreateIndex(ctx, p.config.Index, p.config.IndexSettings)
	switch {
	case err == nil:
		p.metrics.RecordIndexCreate(ctx, p.config.Index, "created")
		log.Info("index created", logger.Fields(logger.FieldIndex, p.config.Index))
	case errors.IsIndexExists(err):
		p.metrics.RecordIndexCreate(ctx, p.config.Index, "exists")
		log.Debug("index already exists", logger.Fields(logger.FieldIndex, p.config.Index))
	default:
		p.metrics.RecordIndexCreate(ctx, p.config.Index, "error")
		log.Warn("index creation failed", logger.ErrorFields("create_index", err))
	}
}

func (p *Poller) emit(ctx context.Context, s status.Status, msg string) {
	p.sink.Set(s, msg)
	p.metrics.RecordTransition(ctx, p.config.Service, string(s))
}
