// Package status defines the tri-state (red/yellow/green) readiness
// signal and the sinks that receive it.
//
// The readiness poller emits Transitions through a Sink. Hosts choose
// how to consume them: CallbackSink for discrete red/yellow/green
// handlers, LogSink for structured logging, Recorder for serving the
// current state over HTTP, or MultiSink to combine them.
package status
