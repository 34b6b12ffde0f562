// Package instant provides monotonic clock readings for elapsed-time
// measurement.
//
// An Instant is an opaque reading of the platform monotonic clock. It has
// no wall-clock meaning and no meaning outside the process that took it;
// its only use is computing elapsed durations between two readings.
//
// # Backends
//
// The clock source is selected at build time:
//   - On general-purpose targets, readings come from the monotonic
//     component of the Go runtime clock.
//   - On js/wasm (browser or worker), readings come from the host's
//     performance.now() query.
//
// Callers cannot observe which backend is active except through timing
// precision.
//
// # Saturation
//
// Subtracting a later reading from an earlier one yields zero, never a
// negative duration. Back-end clock quantization can make two
// back-to-back readings compare equal; arithmetic saturates rather than
// underflows.
package instant
