// Package observability provides OpenTelemetry tracing and metrics for the
// readiness poller.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("searchkit"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanReadinessRun)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("searchkit"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("searchkit"))
//	metrics.RecordPoll(ctx, "Elasticsearch", "green", duration)
//
// All Metrics recording methods are nil-safe, so components can accept an
// optional *Metrics and record unconditionally.
package observability
