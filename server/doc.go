// Package server provides the HTTP surface for the readiness poller using
// Gin with HTTP/2 h2c support, so additional handlers can share the port.
//
// The server follows the component pattern with lifecycle management,
// status endpoints, and configurable middleware.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: request ID generation and propagation
//   - RequestLogger: request logging with duration tracking
//
// # Endpoints
//
// Built-in endpoints (server/endpoint):
//
//   - /status: the poller's current red/yellow/green status
//   - /status/history: recent status transitions
//   - /health: component health aggregation
//   - /version: build version information
package server
