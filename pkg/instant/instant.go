package instant

import (
	"fmt"
	"time"
)

// Instant is an opaque reading of the platform monotonic clock.
//
// Instants are comparable and immutable. Two Instants taken in program
// order on the same process never decrease. The zero Instant corresponds
// to the process-local clock origin.
type Instant struct {
	// Nanoseconds since the process-local clock origin.
	ns int64
}

// Now returns the current reading of the monotonic clock.
// It never fails.
func Now() Instant {
	return Instant{ns: monotonicNow()}
}

// Sub returns the duration elapsed from earlier to i.
//
// If earlier is not actually earlier (readings swapped, or the backend
// clock is too coarse to distinguish them), Sub returns zero rather than
// a negative duration.
func (i Instant) Sub(earlier Instant) time.Duration {
	d := i.ns - earlier.ns
	if d < 0 {
		return 0
	}
	return time.Duration(d)
}

// Elapsed returns the duration from i to now. It is shorthand for
// Now().Sub(i).
func (i Instant) Elapsed() time.Duration {
	return Now().Sub(i)
}

// Add returns the instant d after i. Negative d moves backwards; the
// result saturates at the clock origin rather than going below it.
func (i Instant) Add(d time.Duration) Instant {
	ns := i.ns + int64(d)
	if ns < 0 {
		ns = 0
	}
	return Instant{ns: ns}
}

// Before reports whether i is strictly earlier than other.
func (i Instant) Before(other Instant) bool {
	return i.ns < other.ns
}

// After reports whether i is strictly later than other.
func (i Instant) After(other Instant) bool {
	return i.ns > other.ns
}

// Until returns the duration from now until i. It returns zero if i has
// already passed.
func Until(i Instant) time.Duration {
	return i.Sub(Now())
}

// String returns the reading as an offset from the clock origin.
// For diagnostics only; the origin is arbitrary.
func (i Instant) String() string {
	return fmt.Sprintf("instant(+%s)", time.Duration(i.ns))
}
