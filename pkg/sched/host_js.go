//go:build js && wasm

package sched

import (
	"time"

	"syscall/js"

	"github.com/crosstime-io/crosstime-go/pkg/instant"
)

var defaultScheduler Scheduler = NewHostScheduler(jsHost{})

// jsHost binds Host to the browser/worker globals: performance.now for
// the clock, setTimeout/clearTimeout for deferred callbacks.
type jsHost struct{}

func (jsHost) Now() instant.Instant {
	return instant.Now()
}

func (jsHost) SetTimeout(d time.Duration, fn func()) (HostHandle, error) {
	global := js.Global()
	if global.Get("setTimeout").Type() != js.TypeFunction {
		return nil, ErrBackendUnavailable
	}

	// setTimeout takes whole milliseconds; round up so the callback
	// never arrives before the requested delay.
	ms := (d + time.Millisecond - 1) / time.Millisecond
	if ms < 0 {
		ms = 0
	}

	h := &jsHandle{}
	h.fn = js.FuncOf(func(js.Value, []js.Value) any {
		h.fn.Release()
		fn()
		return nil
	})
	h.id = global.Call("setTimeout", h.fn, int(ms))
	return h, nil
}

func (jsHost) ClearTimeout(handle HostHandle) {
	h := handle.(*jsHandle)
	js.Global().Call("clearTimeout", h.id)
	h.fn.Release()
}

// jsHandle pairs the host timeout ID with the js.Func wrapper, which
// must be released exactly once: either when the callback runs or when
// the timeout is cleared.
type jsHandle struct {
	id js.Value
	fn js.Func
}
