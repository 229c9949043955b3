// Package resilience provides patterns for fault-tolerant cluster access.
//
// This package includes:
//   - Retry: Retries failed operations with exponential backoff, optionally
//     unbounded for readiness probing
//   - CircuitBreaker: Prevents hammering an unhealthy cluster by failing fast
//
// The patterns compose:
//
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("search"))
//	err := resilience.RetryFunc(ctx, cfg, func() error {
//	    return cb.Execute(func() error { return client.Ping(ctx) })
//	})
package resilience
