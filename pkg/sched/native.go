//go:build !js

package sched

import (
	"sync"
	"time"

	"github.com/crosstime-io/crosstime-go/pkg/instant"
)

var defaultScheduler Scheduler = runtimeScheduler{}

// runtimeScheduler delegates one-shot wakeups to the Go runtime timer
// facility. It holds no state of its own; each registration wraps one
// runtime timer.
type runtimeScheduler struct{}

// Now returns the current monotonic clock reading.
func (runtimeScheduler) Now() instant.Instant {
	return instant.Now()
}

// ScheduleAt registers fire with the runtime timer facility. It never
// returns an error.
func (runtimeScheduler) ScheduleAt(deadline instant.Instant, fire func()) (Registration, error) {
	r := &runtimeRegistration{}
	r.timer = time.AfterFunc(instant.Until(deadline), func() {
		r.mu.Lock()
		released := r.released
		r.mu.Unlock()
		if !released {
			fire()
		}
	})
	return r, nil
}

// runtimeRegistration wraps a runtime timer. The released flag guards
// against the firing that time.Timer.Stop cannot suppress once the
// callback has been dispatched.
type runtimeRegistration struct {
	mu       sync.Mutex
	timer    *time.Timer
	released bool
}

func (r *runtimeRegistration) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.released = true
	r.timer.Stop()
}
