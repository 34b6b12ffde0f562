// Package log provides structured event logging for timer registrations.
//
// This package defines the Logger interface and Event type for capturing
// the lifecycle of wakeup registrations (armed, fired, released, failed).
// It is separate from operational logging (slog); the event stream is a
// machine-readable trace for debugging timing behavior.
//
// # Basic Usage
//
// Wrap a scheduler with sched.WithLogging and hand it a Logger:
//
//	// For development: log to console via slog
//	s := sched.WithLogging(sched.Default(), log.NewSlogAdapter(slog.Default()))
//
//	// For analysis: write a binary event trace
//	fl, _ := log.NewFileLogger("trace.tlog")
//	s := sched.WithLogging(sched.Default(), fl)
//
//	// Both at once
//	s := sched.WithLogging(sched.Default(), log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()), fl,
//	))
//
// # File Format
//
// Trace files are a stream of CBOR-encoded events with integer keys,
// canonical encoding, and nanosecond timestamps.
package log
