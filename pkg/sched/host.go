package sched

import (
	"sync"
	"time"

	"github.com/crosstime-io/crosstime-go/pkg/instant"
)

// Host abstracts the host scheduling and clock facility: a monotonic
// clock query plus a deferred-callback primitive in the shape of the
// browser's setTimeout/clearTimeout. The js/wasm build binds it to the
// real host; tests supply a hand-driven implementation.
type Host interface {
	// Now returns the host's current monotonic clock reading.
	Now() instant.Instant

	// SetTimeout schedules fn to run once after d on the host event
	// loop. It returns a handle for ClearTimeout, or
	// ErrBackendUnavailable if the host facility is gone.
	SetTimeout(d time.Duration, fn func()) (HostHandle, error)

	// ClearTimeout withdraws a callback scheduled by SetTimeout. Calling
	// it with a handle whose callback already ran is a no-op.
	ClearTimeout(h HostHandle)
}

// HostHandle identifies one scheduled host callback. Its concrete type
// belongs to the Host implementation.
type HostHandle any

// HostScheduler implements Scheduler on top of a Host. Registrations of
// any number are multiplexed onto at most one outstanding host callback:
// the heap orders pending deadlines and the host callback is always
// armed for the earliest one.
type HostScheduler struct {
	host Host

	mu   sync.Mutex
	heap *removableHeap[*hostRegistration]

	// Outstanding host callback, if any, and the deadline it was armed
	// for. A callback that wakes with nothing due simply re-arms.
	armed    bool
	armedFor instant.Instant
	handle   HostHandle

	// Set when re-arming fails mid-flight; all later registrations are
	// refused with this error.
	down error
}

type hostRegistration struct {
	sched    *HostScheduler
	deadline instant.Instant
	fire     func()
	slot     heapSlot
	// queued is false once the entry left the heap (fired or released).
	queued bool
}

// NewHostScheduler returns a scheduler driving the given host facility.
func NewHostScheduler(host Host) *HostScheduler {
	return &HostScheduler{
		host: host,
		heap: newRemovableHeap[*hostRegistration](func(a, b *hostRegistration) bool {
			return a.deadline.Before(b.deadline)
		}),
	}
}

// Now returns the host clock reading.
func (s *HostScheduler) Now() instant.Instant {
	return s.host.Now()
}

// ScheduleAt queues fire for the deadline and arms the host callback if
// this deadline is now the earliest.
func (s *HostScheduler) ScheduleAt(deadline instant.Instant, fire func()) (Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.down != nil {
		return nil, s.down
	}

	r := &hostRegistration{sched: s, deadline: deadline, fire: fire, queued: true}
	r.slot = s.heap.push(r)

	if !s.armed || deadline.Before(s.armedFor) {
		// Arm for the heap head, not the incoming deadline: a prior
		// failed re-arm may have left an earlier registration uncovered.
		top, _ := s.heap.peek()
		if err := s.rearmLocked(top.deadline); err != nil {
			s.heap.remove(r.slot)
			r.queued = false
			return nil, err
		}
	}
	return r, nil
}

// rearmLocked replaces the outstanding host callback with one for the
// given deadline. Caller holds s.mu.
func (s *HostScheduler) rearmLocked(deadline instant.Instant) error {
	if s.armed {
		s.host.ClearTimeout(s.handle)
		s.armed = false
	}
	h, err := s.host.SetTimeout(deadline.Sub(s.host.Now()), s.wake)
	if err != nil {
		return err
	}
	s.armed = true
	s.armedFor = deadline
	s.handle = h
	return nil
}

// wake runs on the host event loop when the armed callback fires. It
// delivers every due registration, then re-arms for the next deadline.
func (s *HostScheduler) wake() {
	s.mu.Lock()
	s.armed = false

	now := s.host.Now()
	var due []*hostRegistration
	for {
		top, ok := s.heap.peek()
		if !ok || top.deadline.After(now) {
			break
		}
		s.heap.pop()
		top.queued = false
		due = append(due, top)
	}

	if top, ok := s.heap.peek(); ok {
		if err := s.rearmLocked(top.deadline); err != nil {
			// Host context torn down mid-flight: remaining registrations
			// stay forever pending, new ones are refused.
			s.down = err
		}
	}
	s.mu.Unlock()

	for _, r := range due {
		r.fire()
	}
}

// Release removes the registration from the deadline heap. If it was the
// only pending entry, the outstanding host callback is withdrawn so no
// callback outlives its owner.
func (r *hostRegistration) Release() {
	s := r.sched
	s.mu.Lock()
	defer s.mu.Unlock()

	if !r.queued {
		return
	}
	s.heap.remove(r.slot)
	r.queued = false

	if s.heap.len() == 0 && s.armed {
		s.host.ClearTimeout(s.handle)
		s.armed = false
	}
}
