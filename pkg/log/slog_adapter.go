package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes trace events to an slog.Logger. Useful for
// development when you want to watch registrations fire in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("registration", event.RegistrationID),
		slog.String("kind", event.Kind.String()),
	}

	switch event.Kind {
	case KindArmed:
		attrs = append(attrs, slog.Duration("remaining", event.Remaining))
	case KindFired:
		attrs = append(attrs, slog.Duration("late", event.Late))
	case KindRegisterFailed:
		attrs = append(attrs, slog.String("error", event.Error))
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "timer", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
