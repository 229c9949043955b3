// Package component defines the core interfaces for lifecycle-managed
// pieces of searchkit.
//
// Components represent services that require startup, shutdown, and
// health monitoring: the search client, the readiness poller, and the
// optional status server. They are registered with a Registry for
// ordered lifecycle management.
package component
