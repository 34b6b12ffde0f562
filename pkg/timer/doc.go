// Package timer provides the timer facade: one-shot delays, repeating
// intervals, and a complete-or-timeout combinator, all backed by the
// platform scheduler from pkg/sched.
//
// The API shape follows the standard time package: a construct owns a
// receive channel (capacity one) that carries its ready signals. Unlike
// the time package, the backing facility is selected at build time (the
// Go runtime timer wheel on general-purpose targets, the host's
// setTimeout on js/wasm) and constructors surface backend registration
// failures as errors.
//
// # Ready signals
//
// A Delay delivers exactly one instant per arming. An Interval delivers
// one instant per elapsed period, but its channel holds at most one
// pending tick: a consumer that lags does not receive a burst of stale
// ticks, it receives one and then re-synchronizes (missed periods are
// skipped, not replayed).
//
// # Cancellation
//
// Stop releases the backend registration deterministically. A construct
// must be stopped when discarded before firing, or its registration
// would stay pending with the backend until it fires into nothing.
package timer
