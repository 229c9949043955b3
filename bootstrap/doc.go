// Package bootstrap provides uniform application lifecycle management.
//
// An App owns a component registry and a logger, starts registered
// components in order, runs lifecycle hooks, blocks on shutdown signals,
// and stops everything gracefully in reverse order. Run() serves
// long-running processes; RunTask() wraps finite workloads such as a
// one-shot readiness wait.
package bootstrap
