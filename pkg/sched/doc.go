// Package sched defines the capability interface over the platform timer
// backend and provides its two implementations.
//
// A Scheduler hands out one-shot wakeup registrations: a request to have
// a callback invoked once at a deadline. Everything higher up (delays,
// intervals, timeouts in pkg/timer) is built from this single primitive.
//
// # Backends
//
// The backend is a build-time choice, not a runtime branch:
//
//   - On general-purpose targets, Default() delegates to the Go runtime
//     timer facility (time.AfterFunc). Registration never fails there.
//   - On js/wasm, Default() is a HostScheduler driving the host's
//     setTimeout/clearTimeout through syscall/js. All registrations are
//     multiplexed onto at most one outstanding host callback, ordered by
//     a deadline heap.
//
// # Registration ownership
//
// A Registration is owned exclusively by the construct that created it.
// Release is idempotent and must be called when the owner is discarded
// before firing, so no host callback outlives its logical owner.
//
// # Failure policy
//
// Registration is attempted once. If the backend facility is unavailable
// (for example the hosting execution context was torn down), ScheduleAt
// returns ErrBackendUnavailable immediately; no retries, and a
// registration that failed never fires. If the facility is torn down
// after a registration succeeded, the pending callback is simply never
// delivered.
package sched
