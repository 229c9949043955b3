// Package errors provides unified error handling for searchkit.
// It implements structured error types with error codes, HTTP status mapping,
// and retryable detection for cluster and index operations.
package errors
