// Package util provides small generic helpers shared across searchkit:
// slice operations and environment value sanitization.
package util
