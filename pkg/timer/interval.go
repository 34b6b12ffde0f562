package timer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/crosstime-io/crosstime-go/pkg/instant"
	"github.com/crosstime-io/crosstime-go/pkg/sched"
)

// ErrInvalidPeriod is returned for interval periods that are not positive.
var ErrInvalidPeriod = errors.New("timer: interval period must be positive")

// Interval is a repeating ready signal: one tick per elapsed period
// until stopped. Its channel holds at most one pending tick; if the
// consumer lags by several periods it observes a single tick and the
// interval re-synchronizes to the next future period boundary.
type Interval struct {
	// C delivers tick instants. Capacity one.
	C <-chan instant.Instant

	c      chan instant.Instant
	s      sched.Scheduler
	period time.Duration

	mu      sync.Mutex
	next    instant.Instant
	reg     sched.Registration
	stopped bool
	err     error
}

// NewInterval creates an Interval ticking every period on the default
// scheduler, first tick one period from now.
func NewInterval(period time.Duration) (*Interval, error) {
	return NewIntervalOn(sched.Default(), period)
}

// NewIntervalAt creates an Interval whose first tick is at first, then
// every period, on the default scheduler.
func NewIntervalAt(first instant.Instant, period time.Duration) (*Interval, error) {
	return NewIntervalOnAt(sched.Default(), first, period)
}

// NewIntervalOn creates an Interval on the given scheduler.
func NewIntervalOn(s sched.Scheduler, period time.Duration) (*Interval, error) {
	return NewIntervalOnAt(s, s.Now().Add(period), period)
}

// NewIntervalOnAt creates an Interval on the given scheduler with an
// explicit first deadline.
func NewIntervalOnAt(s sched.Scheduler, first instant.Instant, period time.Duration) (*Interval, error) {
	if period <= 0 {
		return nil, ErrInvalidPeriod
	}

	c := make(chan instant.Instant, 1)
	iv := &Interval{C: c, c: c, s: s, period: period, next: first}

	// Hold the lock across registration: a first deadline that is
	// already due can fire before ScheduleAt returns, and its re-arm
	// must not have its handle overwritten by the stale one below.
	iv.mu.Lock()
	defer iv.mu.Unlock()
	reg, err := s.ScheduleAt(first, iv.fire)
	if err != nil {
		return nil, fmt.Errorf("timer: arming interval: %w", err)
	}
	iv.reg = reg
	return iv, nil
}

// Stop releases the interval's registration. No further ticks are
// delivered. Stop is idempotent.
func (iv *Interval) Stop() {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	if iv.stopped {
		return
	}
	iv.stopped = true
	if iv.reg != nil {
		iv.reg.Release()
		iv.reg = nil
	}
}

// Err reports whether the interval went dormant because the backend
// refused a re-registration mid-flight. A dormant interval delivers no
// further ticks.
func (iv *Interval) Err() error {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	return iv.err
}

func (iv *Interval) fire() {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	if iv.stopped {
		return
	}
	iv.reg = nil

	now := iv.s.Now()
	select {
	case iv.c <- now:
	default:
		// Consumer lagging; this tick is dropped, not queued.
	}

	// Re-arm at the next period boundary after now. A late firing skips
	// the periods it missed instead of replaying them.
	iv.next = iv.next.Add(iv.period)
	for !iv.next.After(now) {
		iv.next = iv.next.Add(iv.period)
	}

	reg, err := iv.s.ScheduleAt(iv.next, iv.fire)
	if err != nil {
		iv.err = err
		return
	}
	iv.reg = reg
}
