// Package search provides the HTTP client for the dependent search
// cluster (Elasticsearch-compatible REST API).
//
// The Client interface covers exactly what the readiness poller needs:
// a connectivity probe, node info, index-scoped cluster health, and
// index creation. HTTPClient is the production implementation with
// optional circuit breaking and per-request retry.
package search
