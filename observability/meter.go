package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/skillsenselab/searchkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the metric instruments for the readiness poller.
// All recording methods are safe to call on a nil receiver, so callers
// can wire metrics optionally.
type Metrics struct {
	pollTotal        metric.Int64Counter
	pollDuration     metric.Float64Histogram
	statusTransition metric.Int64Counter
	probeFailure     metric.Int64Counter
	indexCreate      metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	pollTotal, err := meter.Int64Counter("readiness.poll.total",
		metric.WithDescription("Total number of cluster health polls"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating readiness.poll.total counter: %w", err)
	}

	pollDuration, err := meter.Float64Histogram("readiness.poll.duration",
		metric.WithDescription("Duration of cluster health polls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating readiness.poll.duration histogram: %w", err)
	}

	statusTransition, err := meter.Int64Counter("readiness.status.transition",
		metric.WithDescription("Status transitions reported by the poller"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating readiness.status.transition counter: %w", err)
	}

	probeFailure, err := meter.Int64Counter("readiness.probe.failure",
		metric.WithDescription("Failed connectivity probes"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating readiness.probe.failure counter: %w", err)
	}

	indexCreate, err := meter.Int64Counter("readiness.index.create",
		metric.WithDescription("Index creation attempts"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating readiness.index.create counter: %w", err)
	}

	return &Metrics{
		pollTotal:        pollTotal,
		pollDuration:     pollDuration,
		statusTransition: statusTransition,
		probeFailure:     probeFailure,
		indexCreate:      indexCreate,
	}, nil
}

// RecordPoll records a completed cluster health poll.
func (m *Metrics) RecordPoll(ctx context.Context, service, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("outcome", outcome),
	)
	m.pollTotal.Add(ctx, 1, attrs)
	m.pollDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("service", service),
	))
}

// RecordTransition records a status transition emitted by the poller.
func (m *Metrics) RecordTransition(ctx context.Context, service, status string) {
	if m == nil {
		return
	}
	m.statusTransition.Add(ctx, 1, metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("status", status),
	))
}

// RecordProbeFailure records a failed connectivity probe attempt.
func (m *Metrics) RecordProbeFailure(ctx context.Context, service string) {
	if m == nil {
		return
	}
	m.probeFailure.Add(ctx, 1, metric.WithAttributes(
		attribute.String("service", service),
	))
}

// RecordIndexCreate records an index creation attempt.
func (m *Metrics) RecordIndexCreate(ctx context.Context, index, outcome string) {
	if m == nil {
		return
	}
	m.indexCreate.Add(ctx, 1, metric.WithAttributes(
		attribute.String("index", index),
		attribute.String("outcome", outcome),
	))
}
