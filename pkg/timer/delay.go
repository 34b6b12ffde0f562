package timer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/crosstime-io/crosstime-go/pkg/instant"
	"github.com/crosstime-io/crosstime-go/pkg/sched"
)

// ErrStopped is returned when re-arming a construct that has been stopped.
var ErrStopped = errors.New("timer: already stopped")

// Delay is a single-shot ready signal that fires once its deadline is
// reached. It is not safe for concurrent use by multiple goroutines,
// matching time.Timer: one goroutine owns it.
type Delay struct {
	// C delivers the firing instant. Capacity one; at most one value per
	// arming.
	C <-chan instant.Instant

	c chan instant.Instant
	s sched.Scheduler

	mu      sync.Mutex
	gen     uint64
	reg     sched.Registration
	stopped bool
}

// NewDelay creates a Delay firing after d on the default scheduler.
// Negative durations behave like zero.
func NewDelay(d time.Duration) (*Delay, error) {
	return NewDelayOn(sched.Default(), d)
}

// NewDelayAt creates a Delay firing at the given instant on the default
// scheduler.
func NewDelayAt(at instant.Instant) (*Delay, error) {
	return NewDelayOnAt(sched.Default(), at)
}

// NewDelayOn creates a Delay firing after d on the given scheduler.
func NewDelayOn(s sched.Scheduler, d time.Duration) (*Delay, error) {
	return NewDelayOnAt(s, s.Now().Add(clampDuration(d)))
}

// NewDelayOnAt creates a Delay firing at the given instant on the given
// scheduler. Registration happens here; if the backend refuses it the
// error is returned and the Delay never fires.
func NewDelayOnAt(s sched.Scheduler, at instant.Instant) (*Delay, error) {
	c := make(chan instant.Instant, 1)
	d := &Delay{C: c, c: c, s: s}

	d.mu.Lock()
	err := d.armLocked(at)
	d.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Reset re-arms the Delay to fire after dur from now. Any outstanding
// registration is released first, and a ready signal already delivered
// by the superseded arming is discarded, so only the new deadline's
// firing is observed.
func (d *Delay) Reset(dur time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return ErrStopped
	}
	return d.resetLocked(d.s.Now().Add(clampDuration(dur)))
}

// ResetAt re-arms the Delay to fire at the given instant.
func (d *Delay) ResetAt(at instant.Instant) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return ErrStopped
	}
	return d.resetLocked(at)
}

// Stop releases the pending registration, if any. After Stop the Delay
// never fires and cannot be re-armed. A ready signal that was delivered
// before Stop remains readable from C. Stop is idempotent.
func (d *Delay) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.stopped = true
	d.gen++
	if d.reg != nil {
		d.reg.Release()
		d.reg = nil
	}
}

func (d *Delay) resetLocked(at instant.Instant) error {
	// Bumping the generation suppresses a late firing of the superseded
	// registration that Release could no longer stop.
	d.gen++
	if d.reg != nil {
		d.reg.Release()
		d.reg = nil
	}
	select {
	case <-d.c:
	default:
	}
	return d.armLocked(at)
}

func (d *Delay) armLocked(at instant.Instant) error {
	gen := d.gen
	reg, err := d.s.ScheduleAt(at, func() { d.fire(gen) })
	if err != nil {
		return fmt.Errorf("timer: arming delay: %w", err)
	}
	d.reg = reg
	return nil
}

func (d *Delay) fire(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped || gen != d.gen {
		return
	}
	d.reg = nil
	// Non-blocking: capacity one, and at most one send per arming.
	select {
	case d.c <- d.s.Now():
	default:
	}
}

func clampDuration(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
