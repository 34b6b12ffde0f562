package schedtest

import (
	"sync"
	"time"

	"github.com/crosstime-io/crosstime-go/pkg/instant"
	"github.com/crosstime-io/crosstime-go/pkg/sched"
)

// ManualHost implements sched.Host as a simulated browser event loop:
// scheduled callbacks run from within Advance, earliest first, with the
// host clock set to their due time.
type ManualHost struct {
	mu          sync.Mutex
	now         instant.Instant
	nextID      int
	timeouts    map[int]*manualTimeout
	unavailable bool
	cleared     int
}

type manualTimeout struct {
	at instant.Instant
	fn func()
}

// NewManualHost creates a host whose clock starts at the current instant.
func NewManualHost() *ManualHost {
	return &ManualHost{
		now:      instant.Now(),
		timeouts: make(map[int]*manualTimeout),
	}
}

// Now returns the manual host clock reading.
func (h *ManualHost) Now() instant.Instant {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.now
}

// SetTimeout schedules fn at now+d. Negative d behaves like zero, as the
// browser primitive does.
func (h *ManualHost) SetTimeout(d time.Duration, fn func()) (sched.HostHandle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.unavailable {
		return nil, sched.ErrBackendUnavailable
	}

	if d < 0 {
		d = 0
	}
	h.nextID++
	h.timeouts[h.nextID] = &manualTimeout{at: h.now.Add(d), fn: fn}
	return h.nextID, nil
}

// ClearTimeout withdraws a scheduled callback.
func (h *ManualHost) ClearTimeout(handle sched.HostHandle) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := handle.(int)
	if _, ok := h.timeouts[id]; ok {
		delete(h.timeouts, id)
		h.cleared++
	}
}

// Advance moves the host clock forward by d, running due callbacks in
// time order. Callbacks may schedule further timeouts; those run too if
// they fall within the window.
func (h *ManualHost) Advance(d time.Duration) {
	h.mu.Lock()
	target := h.now.Add(d)

	for {
		var (
			nextID int
			next   *manualTimeout
		)
		for id, to := range h.timeouts {
			if to.at.After(target) {
				continue
			}
			if next == nil || to.at.Before(next.at) || (to.at == next.at && id < nextID) {
				nextID, next = id, to
			}
		}
		if next == nil {
			break
		}

		if h.now.Before(next.at) {
			h.now = next.at
		}
		delete(h.timeouts, nextID)

		h.mu.Unlock()
		next.fn()
		h.mu.Lock()
	}

	h.now = target
	h.mu.Unlock()
}

// Jump moves the host clock to now+d before running due callbacks,
// simulating a busy or suspended event loop: callbacks observe the
// post-jump clock instead of their own due time.
func (h *ManualHost) Jump(d time.Duration) {
	h.mu.Lock()
	h.now = h.now.Add(d)

	for {
		var (
			nextID int
			next   *manualTimeout
		)
		for id, to := range h.timeouts {
			if to.at.After(h.now) {
				continue
			}
			if next == nil || to.at.Before(next.at) || (to.at == next.at && id < nextID) {
				nextID, next = id, to
			}
		}
		if next == nil {
			break
		}
		delete(h.timeouts, nextID)

		h.mu.Unlock()
		next.fn()
		h.mu.Lock()
	}
	h.mu.Unlock()
}

// ScheduledCount returns the number of outstanding host callbacks.
func (h *ManualHost) ScheduledCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.timeouts)
}

// ClearedCount returns how many callbacks were withdrawn via ClearTimeout.
func (h *ManualHost) ClearedCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cleared
}

// SetUnavailable makes subsequent SetTimeout calls fail with
// sched.ErrBackendUnavailable, simulating a torn-down execution context.
func (h *ManualHost) SetUnavailable(down bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unavailable = down
}

// Compile-time interface satisfaction check.
var _ sched.Host = (*ManualHost)(nil)
