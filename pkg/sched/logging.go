package sched

import (
	"time"

	"github.com/google/uuid"

	"github.com/crosstime-io/crosstime-go/pkg/instant"
	"github.com/crosstime-io/crosstime-go/pkg/log"
)

// WithLogging wraps s so every registration's lifecycle is reported to
// logger. Each registration is assigned a UUID for correlating its
// armed/fired/released events in the trace. A nil logger returns s
// unchanged.
func WithLogging(s Scheduler, logger log.Logger) Scheduler {
	if logger == nil {
		return s
	}
	return &loggingScheduler{inner: s, logger: logger}
}

type loggingScheduler struct {
	inner  Scheduler
	logger log.Logger
}

func (l *loggingScheduler) Now() instant.Instant {
	return l.inner.Now()
}

func (l *loggingScheduler) ScheduleAt(deadline instant.Instant, fire func()) (Registration, error) {
	id := uuid.NewString()

	reg, err := l.inner.ScheduleAt(deadline, func() {
		l.logger.Log(log.Event{
			Timestamp:      time.Now(),
			RegistrationID: id,
			Kind:           log.KindFired,
			Late:           l.inner.Now().Sub(deadline),
		})
		fire()
	})
	if err != nil {
		l.logger.Log(log.Event{
			Timestamp:      time.Now(),
			RegistrationID: id,
			Kind:           log.KindRegisterFailed,
			Error:          err.Error(),
		})
		return nil, err
	}

	l.logger.Log(log.Event{
		Timestamp:      time.Now(),
		RegistrationID: id,
		Kind:           log.KindArmed,
		Remaining:      deadline.Sub(l.inner.Now()),
	})
	return &loggingRegistration{inner: reg, sched: l, id: id}, nil
}

type loggingRegistration struct {
	inner Registration
	sched *loggingScheduler
	id    string
}

func (r *loggingRegistration) Release() {
	r.inner.Release()
	r.sched.logger.Log(log.Event{
		Timestamp:      time.Now(),
		RegistrationID: r.id,
		Kind:           log.KindReleased,
	})
}
