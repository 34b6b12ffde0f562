package schedtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualSchedulerAdvanceFiresInDeadlineOrder(t *testing.T) {
	s := NewManualScheduler()

	var order []int
	now := s.Now()
	for i, d := range []time.Duration{30, 10, 20} {
		i := i
		_, err := s.ScheduleAt(now.Add(d*time.Millisecond), func() { order = append(order, i) })
		require.NoError(t, err)
	}

	s.Advance(25 * time.Millisecond)
	assert.Equal(t, []int{1, 2}, order)
	assert.Equal(t, 1, s.Pending())

	s.Advance(5 * time.Millisecond)
	assert.Equal(t, []int{1, 2, 0}, order)
	assert.Equal(t, 0, s.Pending())
}

func TestManualSchedulerCallbackSeesItsDeadline(t *testing.T) {
	s := NewManualScheduler()
	start := s.Now()

	var seen time.Duration
	_, err := s.ScheduleAt(start.Add(10*time.Millisecond), func() {
		seen = s.Now().Sub(start)
	})
	require.NoError(t, err)

	// Advance sets the clock to each deadline before firing.
	s.Advance(time.Second)
	assert.Equal(t, 10*time.Millisecond, seen)
}

func TestManualSchedulerJumpDeliversLate(t *testing.T) {
	s := NewManualScheduler()
	start := s.Now()

	var seen time.Duration
	_, err := s.ScheduleAt(start.Add(10*time.Millisecond), func() {
		seen = s.Now().Sub(start)
	})
	require.NoError(t, err)

	s.Jump(time.Second)
	assert.Equal(t, time.Second, seen)
}

func TestManualSchedulerCallbackMayReRegister(t *testing.T) {
	s := NewManualScheduler()

	// A callback re-registering one period out keeps firing within the
	// same Advance window, the way an interval re-arms.
	count := 0
	var fire func()
	fire = func() {
		count++
		if count < 5 {
			_, err := s.ScheduleAt(s.Now().Add(10*time.Millisecond), fire)
			require.NoError(t, err)
		}
	}
	_, err := s.ScheduleAt(s.Now().Add(10*time.Millisecond), fire)
	require.NoError(t, err)

	s.Advance(100 * time.Millisecond)
	assert.Equal(t, 5, count)
}

func TestManualSchedulerRelease(t *testing.T) {
	s := NewManualScheduler()

	fired := false
	reg, err := s.ScheduleAt(s.Now().Add(10*time.Millisecond), func() { fired = true })
	require.NoError(t, err)

	reg.Release()
	s.Advance(time.Second)
	assert.False(t, fired)
	assert.Equal(t, 0, s.Pending())
}

func TestManualHostTimeoutOrdering(t *testing.T) {
	h := NewManualHost()

	var order []string
	_, err := h.SetTimeout(20*time.Millisecond, func() { order = append(order, "b") })
	require.NoError(t, err)
	_, err = h.SetTimeout(10*time.Millisecond, func() { order = append(order, "a") })
	require.NoError(t, err)

	h.Advance(30 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestManualHostClearTimeout(t *testing.T) {
	h := NewManualHost()

	fired := false
	handle, err := h.SetTimeout(10*time.Millisecond, func() { fired = true })
	require.NoError(t, err)

	h.ClearTimeout(handle)
	h.Advance(time.Second)

	assert.False(t, fired)
	assert.Equal(t, 1, h.ClearedCount())
	assert.Equal(t, 0, h.ScheduledCount())
}

func TestManualHostNegativeDelayRunsImmediately(t *testing.T) {
	h := NewManualHost()

	fired := false
	_, err := h.SetTimeout(-time.Second, func() { fired = true })
	require.NoError(t, err)

	h.Advance(0)
	assert.True(t, fired)
}
