package timer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crosstime-io/crosstime-go/internal/schedtest"
	"github.com/crosstime-io/crosstime-go/pkg/sched"
	"github.com/crosstime-io/crosstime-go/pkg/timer"
)

// awaitRegistration blocks until the racing goroutine has armed its
// delay with the manual scheduler.
func awaitRegistration(t *testing.T, s *schedtest.ManualScheduler) {
	t.Helper()
	require.Eventually(t, func() bool { return s.Pending() > 0 },
		time.Second, time.Millisecond, "timeout never registered its delay")
}

func TestWaitImmediatelyReadyOperationWins(t *testing.T) {
	s := schedtest.NewManualScheduler()

	op := make(chan int, 1)
	op <- 42

	v, err := timer.WaitOn(s, op, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	// The ready operation won before any registration was needed.
	assert.Equal(t, 0, s.Pending())
}

func TestWaitOperationBeatsTimeout(t *testing.T) {
	s := schedtest.NewManualScheduler()
	op := make(chan string, 1)

	type outcome struct {
		v   string
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := timer.WaitOn(s, op, time.Minute)
		done <- outcome{v, err}
	}()

	awaitRegistration(t, s)
	op <- "finished"

	out := <-done
	require.NoError(t, out.err)
	assert.Equal(t, "finished", out.v)
}

func TestWaitTimeoutBeatsNeverReadyOperation(t *testing.T) {
	s := schedtest.NewManualScheduler()
	op := make(chan string)

	done := make(chan error, 1)
	go func() {
		_, err := timer.WaitOn(s, op, 50*time.Millisecond)
		done <- err
	}()

	awaitRegistration(t, s)
	s.Advance(49 * time.Millisecond)
	select {
	case err := <-done:
		t.Fatalf("resolved before the deadline: %v", err)
	default:
	}

	s.Advance(1 * time.Millisecond)
	assert.ErrorIs(t, <-done, timer.ErrTimeout)

	// The internal delay's registration was consumed by firing; nothing
	// is left pending with the backend.
	assert.Equal(t, 0, s.Pending())
}

func TestWaitTieBreakFavorsOperation(t *testing.T) {
	s := schedtest.NewManualScheduler()
	op := make(chan int, 1)

	type outcome struct {
		v   int
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := timer.WaitOn(s, op, 20*time.Millisecond)
		done <- outcome{v, err}
	}()

	awaitRegistration(t, s)

	// Make both branches ready in the same cycle: fill the operation,
	// then fire the delay. The operation must win regardless of which
	// channel the race observes first.
	op <- 7
	s.Advance(20 * time.Millisecond)

	out := <-done
	require.NoError(t, out.err)
	assert.Equal(t, 7, out.v)
}

func TestWaitReleasesDelayWhenOperationWins(t *testing.T) {
	s := schedtest.NewManualScheduler()
	op := make(chan int, 1)

	done := make(chan error, 1)
	go func() {
		_, err := timer.WaitOn(s, op, time.Hour)
		done <- err
	}()

	awaitRegistration(t, s)
	op <- 1
	require.NoError(t, <-done)

	// The losing delay must not leak its registration.
	assert.Equal(t, 0, s.Pending())
}

func TestWaitBackendUnavailable(t *testing.T) {
	s := schedtest.NewManualScheduler()
	s.SetUnavailable(true)

	op := make(chan int)
	_, err := timer.WaitOn(s, op, time.Second)
	assert.ErrorIs(t, err, sched.ErrBackendUnavailable)
}

func TestDoReturnsOperationResult(t *testing.T) {
	s := schedtest.NewManualScheduler()

	v, err := timer.DoOn(s, context.Background(), time.Minute,
		func(context.Context) (string, error) {
			return "done", nil
		})
	require.NoError(t, err)
	assert.Equal(t, "done", v)
}

func TestDoPropagatesOperationError(t *testing.T) {
	s := schedtest.NewManualScheduler()
	opErr := errors.New("backend said no")

	_, err := timer.DoOn(s, context.Background(), time.Minute,
		func(context.Context) (string, error) {
			return "", opErr
		})
	assert.ErrorIs(t, err, opErr)
}

func TestDoCancelsOperationOnTimeout(t *testing.T) {
	s := schedtest.NewManualScheduler()

	cancelled := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := timer.DoOn(s, context.Background(), 30*time.Millisecond,
			func(ctx context.Context) (int, error) {
				<-ctx.Done()
				close(cancelled)
				return 0, ctx.Err()
			})
		done <- err
	}()

	awaitRegistration(t, s)
	s.Advance(30 * time.Millisecond)

	assert.ErrorIs(t, <-done, timer.ErrTimeout)

	// The operation observes its cancellation signal.
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("operation context was never cancelled")
	}
}
