package timer

import (
	"context"
	"errors"
	"time"

	"github.com/crosstime-io/crosstime-go/pkg/sched"
)

// ErrTimeout is returned when the timeout fires before the operation
// completes.
var ErrTimeout = errors.New("timer: operation timed out")

// Wait races a ready-channel operation against a delay of duration d on
// the default scheduler and returns whichever resolves first.
//
// A receive from op, including the zero value from a closed channel,
// counts as the operation resolving. When both the operation and the
// timeout are ready in the same cycle, the operation wins. On timeout,
// ErrTimeout is returned and op is no longer read from; cancelling
// whatever feeds op is the caller's concern.
func Wait[T any](op <-chan T, d time.Duration) (T, error) {
	return WaitOn(sched.Default(), op, d)
}

// WaitOn is Wait on an explicit scheduler.
func WaitOn[T any](s sched.Scheduler, op <-chan T, d time.Duration) (T, error) {
	var zero T

	// An already-ready operation wins without consulting the backend.
	select {
	case v := <-op:
		return v, nil
	default:
	}

	del, err := NewDelayOn(s, d)
	if err != nil {
		return zero, err
	}
	defer del.Stop()

	select {
	case v := <-op:
		return v, nil
	case <-del.C:
		// Fixed tie-break: if the operation became ready in the same
		// cycle as the timeout, the operation still wins.
		select {
		case v := <-op:
			return v, nil
		default:
		}
		return zero, ErrTimeout
	}
}

// Do runs fn under a deadline of d on the default scheduler. fn receives
// a context that is cancelled when the timeout fires (or when Do
// returns), giving the operation its cancellation signal. On timeout Do
// returns ErrTimeout without waiting for fn to observe the cancellation.
func Do[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	return DoOn(sched.Default(), ctx, d, fn)
}

// DoOn is Do on an explicit scheduler.
func DoOn[T any](s sched.Scheduler, ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		v   T
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := fn(ctx)
		done <- outcome{v: v, err: err}
	}()

	out, err := WaitOn(s, done, d)
	if err != nil {
		var zero T
		return zero, err
	}
	return out.v, out.err
}
