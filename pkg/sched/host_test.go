package sched_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crosstime-io/crosstime-go/internal/schedtest"
	"github.com/crosstime-io/crosstime-go/pkg/sched"
)

func TestHostSchedulerMultiplexesOntoOneCallback(t *testing.T) {
	host := schedtest.NewManualHost()
	s := sched.NewHostScheduler(host)

	now := s.Now()
	for _, d := range []time.Duration{30, 10, 20} {
		_, err := s.ScheduleAt(now.Add(d*time.Millisecond), func() {})
		require.NoError(t, err)
	}

	// However many registrations exist, the host sees one callback.
	assert.Equal(t, 1, host.ScheduledCount())
}

func TestHostSchedulerFiresInDeadlineOrder(t *testing.T) {
	host := schedtest.NewManualHost()
	s := sched.NewHostScheduler(host)

	var order []int
	now := s.Now()
	for i, d := range []time.Duration{30, 10, 20} {
		i := i
		_, err := s.ScheduleAt(now.Add(d*time.Millisecond), func() {
			order = append(order, i)
		})
		require.NoError(t, err)
	}

	host.Advance(40 * time.Millisecond)
	assert.Equal(t, []int{1, 2, 0}, order)
	assert.Equal(t, 0, host.ScheduledCount(), "no callback outstanding once all wakeups fired")
}

func TestHostSchedulerReArmsForEarlierDeadline(t *testing.T) {
	host := schedtest.NewManualHost()
	s := sched.NewHostScheduler(host)

	fired := make([]string, 0, 2)
	now := s.Now()
	_, err := s.ScheduleAt(now.Add(100*time.Millisecond), func() { fired = append(fired, "far") })
	require.NoError(t, err)

	// A nearer deadline must replace the outstanding host callback.
	_, err = s.ScheduleAt(now.Add(10*time.Millisecond), func() { fired = append(fired, "near") })
	require.NoError(t, err)
	assert.Equal(t, 1, host.ScheduledCount())
	assert.Equal(t, 1, host.ClearedCount())

	host.Advance(10 * time.Millisecond)
	assert.Equal(t, []string{"near"}, fired)
	assert.Equal(t, 1, host.ScheduledCount(), "re-armed for the remaining deadline")

	host.Advance(90 * time.Millisecond)
	assert.Equal(t, []string{"near", "far"}, fired)
}

func TestHostSchedulerCoalescesDueWakeups(t *testing.T) {
	host := schedtest.NewManualHost()
	s := sched.NewHostScheduler(host)

	count := 0
	now := s.Now()
	for _, d := range []time.Duration{5, 10, 15} {
		_, err := s.ScheduleAt(now.Add(d*time.Millisecond), func() { count++ })
		require.NoError(t, err)
	}

	// The event loop was busy past all three deadlines: the single wake
	// delivers everything already due.
	host.Jump(20 * time.Millisecond)
	assert.Equal(t, 3, count)
	assert.Equal(t, 0, host.ScheduledCount())
}

func TestHostSchedulerReleaseWithdrawsCallback(t *testing.T) {
	host := schedtest.NewManualHost()
	s := sched.NewHostScheduler(host)

	fired := false
	reg, err := s.ScheduleAt(s.Now().Add(10*time.Millisecond), func() { fired = true })
	require.NoError(t, err)
	require.Equal(t, 1, host.ScheduledCount())

	reg.Release()
	assert.Equal(t, 0, host.ScheduledCount(), "releasing the only registration must clear the host callback")

	host.Advance(time.Second)
	assert.False(t, fired, "released registration fired")

	reg.Release() // idempotent
}

func TestHostSchedulerReleaseOfNonEarliestKeepsCallback(t *testing.T) {
	host := schedtest.NewManualHost()
	s := sched.NewHostScheduler(host)

	var fired []string
	now := s.Now()
	_, err := s.ScheduleAt(now.Add(10*time.Millisecond), func() { fired = append(fired, "near") })
	require.NoError(t, err)
	far, err := s.ScheduleAt(now.Add(100*time.Millisecond), func() { fired = append(fired, "far") })
	require.NoError(t, err)

	far.Release()
	host.Advance(time.Second)
	assert.Equal(t, []string{"near"}, fired)
	assert.Equal(t, 0, host.ScheduledCount())
}

func TestHostSchedulerSpuriousWakeReArms(t *testing.T) {
	host := schedtest.NewManualHost()
	s := sched.NewHostScheduler(host)

	// Release the earliest registration but leave a later one: the
	// outstanding callback wakes with nothing due and re-arms.
	var fired []string
	now := s.Now()
	near, err := s.ScheduleAt(now.Add(10*time.Millisecond), func() { fired = append(fired, "near") })
	require.NoError(t, err)
	_, err = s.ScheduleAt(now.Add(50*time.Millisecond), func() { fired = append(fired, "far") })
	require.NoError(t, err)

	near.Release()
	host.Advance(20 * time.Millisecond)
	assert.Empty(t, fired)
	assert.Equal(t, 1, host.ScheduledCount())

	host.Advance(30 * time.Millisecond)
	assert.Equal(t, []string{"far"}, fired)
}

func TestHostSchedulerUnavailableAtRegistration(t *testing.T) {
	host := schedtest.NewManualHost()
	host.SetUnavailable(true)
	s := sched.NewHostScheduler(host)

	_, err := s.ScheduleAt(s.Now().Add(time.Second), func() {})
	assert.ErrorIs(t, err, sched.ErrBackendUnavailable)
}

func TestHostSchedulerReArmsHeapHeadAfterTransientFailure(t *testing.T) {
	host := schedtest.NewManualHost()
	s := sched.NewHostScheduler(host)

	var fired []string
	now := s.Now()
	_, err := s.ScheduleAt(now.Add(30*time.Millisecond), func() { fired = append(fired, "orphan") })
	require.NoError(t, err)

	// A nearer registration fails mid-rearm: its replacement callback was
	// never set, so the surviving registration sits uncovered.
	host.SetUnavailable(true)
	_, err = s.ScheduleAt(now.Add(10*time.Millisecond), func() { fired = append(fired, "near") })
	require.ErrorIs(t, err, sched.ErrBackendUnavailable)
	require.Equal(t, 0, host.ScheduledCount())

	// The next successful registration must arm for the heap head, not
	// for its own later deadline.
	host.SetUnavailable(false)
	_, err = s.ScheduleAt(now.Add(100*time.Millisecond), func() { fired = append(fired, "far") })
	require.NoError(t, err)

	host.Advance(30 * time.Millisecond)
	assert.Equal(t, []string{"orphan"}, fired, "uncovered registration fired late or not at all")

	host.Advance(70 * time.Millisecond)
	assert.Equal(t, []string{"orphan", "far"}, fired)
}

func TestHostSchedulerTornDownMidFlight(t *testing.T) {
	host := schedtest.NewManualHost()
	s := sched.NewHostScheduler(host)

	var fired []string
	now := s.Now()
	_, err := s.ScheduleAt(now.Add(10*time.Millisecond), func() { fired = append(fired, "first") })
	require.NoError(t, err)
	_, err = s.ScheduleAt(now.Add(50*time.Millisecond), func() { fired = append(fired, "second") })
	require.NoError(t, err)

	// The host disappears after the first wakeup is delivered: the
	// second registration stays forever pending, and new registrations
	// are refused.
	host.SetUnavailable(true)
	host.Advance(time.Second)
	assert.Equal(t, []string{"first"}, fired)

	_, err = s.ScheduleAt(s.Now().Add(time.Millisecond), func() {})
	assert.ErrorIs(t, err, sched.ErrBackendUnavailable)
}

func TestHostSchedulerPastDeadlineFiresImmediately(t *testing.T) {
	host := schedtest.NewManualHost()
	s := sched.NewHostScheduler(host)

	fired := false
	_, err := s.ScheduleAt(s.Now(), func() { fired = true })
	require.NoError(t, err)

	host.Advance(0)
	assert.True(t, fired)
}
