// Package logger provides structured logging for searchkit
// using zerolog.
//
// It supports multiple output formats (JSON, console), log level
// configuration, and component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("readiness")
//	log.Info("cluster reachable", logger.Fields("cluster", "search"))
package logger
