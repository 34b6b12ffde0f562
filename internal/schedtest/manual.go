package schedtest

import (
	"sync"
	"time"

	"github.com/crosstime-io/crosstime-go/pkg/instant"
	"github.com/crosstime-io/crosstime-go/pkg/sched"
)

// ManualScheduler implements sched.Scheduler with hand-driven time.
// Registrations fire only from within Advance, on the calling goroutine,
// in deadline order.
type ManualScheduler struct {
	mu          sync.Mutex
	now         instant.Instant
	regs        map[*manualRegistration]struct{}
	unavailable bool
}

type manualRegistration struct {
	sched    *ManualScheduler
	deadline instant.Instant
	fire     func()
}

// NewManualScheduler creates a scheduler whose clock starts at the
// current instant and moves only via Advance.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{
		now:  instant.Now(),
		regs: make(map[*manualRegistration]struct{}),
	}
}

// Now returns the manual clock reading.
func (s *ManualScheduler) Now() instant.Instant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// ScheduleAt records the registration. It fires when Advance moves the
// clock to or past the deadline.
func (s *ManualScheduler) ScheduleAt(deadline instant.Instant, fire func()) (sched.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unavailable {
		return nil, sched.ErrBackendUnavailable
	}

	r := &manualRegistration{sched: s, deadline: deadline, fire: fire}
	s.regs[r] = struct{}{}
	return r, nil
}

// Advance moves the clock forward by d, firing every registration whose
// deadline falls within the window, in deadline order. Callbacks run
// with the clock set to their deadline, so a callback that re-registers
// (an interval re-arming) fires again within the same Advance if its
// next deadline is still inside the window.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)

	for {
		var next *manualRegistration
		for r := range s.regs {
			if r.deadline.After(target) {
				continue
			}
			if next == nil || r.deadline.Before(next.deadline) {
				next = r
			}
		}
		if next == nil {
			break
		}

		if s.now.Before(next.deadline) {
			s.now = next.deadline
		}
		delete(s.regs, next)

		// Fire without the lock: callbacks re-enter the scheduler.
		s.mu.Unlock()
		next.fire()
		s.mu.Lock()
	}

	s.now = target
	s.mu.Unlock()
}

// Jump moves the clock to now+d before delivering wakeups, simulating
// late delivery (a suspended worker, a busy event loop): every due
// callback observes the post-jump clock instead of its own deadline.
func (s *ManualScheduler) Jump(d time.Duration) {
	s.mu.Lock()
	s.now = s.now.Add(d)

	for {
		var next *manualRegistration
		for r := range s.regs {
			if r.deadline.After(s.now) {
				continue
			}
			if next == nil || r.deadline.Before(next.deadline) {
				next = r
			}
		}
		if next == nil {
			break
		}
		delete(s.regs, next)

		s.mu.Unlock()
		next.fire()
		s.mu.Lock()
	}
	s.mu.Unlock()
}

// Pending returns the number of live registrations.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.regs)
}

// SetUnavailable makes subsequent ScheduleAt calls fail with
// sched.ErrBackendUnavailable, simulating a torn-down backend.
func (s *ManualScheduler) SetUnavailable(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable = down
}

func (r *manualRegistration) Release() {
	r.sched.mu.Lock()
	defer r.sched.mu.Unlock()
	delete(r.sched.regs, r)
}

// Compile-time interface satisfaction check.
var _ sched.Scheduler = (*ManualScheduler)(nil)
