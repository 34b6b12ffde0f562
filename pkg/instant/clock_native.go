//go:build !js

package instant

import "time"

// origin anchors the process-local clock. time.Since uses the runtime's
// monotonic clock component, so readings are immune to wall-clock steps.
var origin = time.Now()

func monotonicNow() int64 {
	return int64(time.Since(origin))
}
