//go:build js && wasm

package instant

import "syscall/js"

// performance.now() returns fractional milliseconds since the execution
// context's time origin, monotonic within the context.
var performance = js.Global().Get("performance")

func monotonicNow() int64 {
	return int64(performance.Call("now").Float() * float64(1e6))
}
