package sched

import (
	"errors"

	"github.com/crosstime-io/crosstime-go/pkg/instant"
)

// Scheduler errors.
var (
	// ErrBackendUnavailable indicates the platform timer facility cannot
	// accept registrations (host context torn down, or the scheduling
	// primitive is missing from the host environment).
	ErrBackendUnavailable = errors.New("timer backend unavailable")
)

// Registration is the handle for one pending wakeup. It is owned
// exclusively by the construct that scheduled it and must not be shared
// across tasks.
type Registration interface {
	// Release withdraws the pending wakeup. After Release returns, the
	// registered callback will not be invoked (a concurrent in-flight
	// invocation may still complete). Release is idempotent and is a
	// no-op after the wakeup has fired.
	Release()
}

// Scheduler is the capability interface over a timer backend: a
// monotonic clock plus one-shot wakeup scheduling.
type Scheduler interface {
	// Now returns the backend's current clock reading. Deadlines passed
	// to ScheduleAt must be derived from this clock.
	Now() instant.Instant

	// ScheduleAt arranges for fire to be invoked once, at or after
	// deadline. A deadline at or before Now() fires as soon as the
	// backend can deliver it. fire runs on a backend-owned goroutine
	// (native) or the host event loop (js) and must not block.
	ScheduleAt(deadline instant.Instant, fire func()) (Registration, error)
}

// Default returns the scheduler for the active build target.
func Default() Scheduler {
	return defaultScheduler
}
