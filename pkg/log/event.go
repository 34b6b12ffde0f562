package log

import (
	"time"
)

// Event represents one step in a wakeup registration's lifecycle.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision, wall
	// clock; registration instants themselves are process-local and not
	// meaningful in a trace).
	Timestamp time.Time `cbor:"1,keyasint"`

	// RegistrationID correlates events for one registration (UUID).
	RegistrationID string `cbor:"2,keyasint"`

	// Kind classifies the lifecycle step.
	Kind Kind `cbor:"3,keyasint"`

	// Remaining is the span from the event to the registration's
	// deadline. Set on Armed events.
	Remaining time.Duration `cbor:"4,keyasint,omitempty"`

	// Late is how far past its deadline the wakeup was delivered.
	// Set on Fired events.
	Late time.Duration `cbor:"5,keyasint,omitempty"`

	// Error carries the failure message on RegisterFailed events.
	Error string `cbor:"6,keyasint,omitempty"`
}

// Kind classifies a trace event.
type Kind uint8

const (
	// KindArmed indicates a registration was accepted by the backend.
	KindArmed Kind = 0

	// KindFired indicates the backend delivered the wakeup.
	KindFired Kind = 1

	// KindReleased indicates the owner withdrew the registration before
	// it fired.
	KindReleased Kind = 2

	// KindRegisterFailed indicates the backend refused the registration.
	KindRegisterFailed Kind = 3
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindArmed:
		return "ARMED"
	case KindFired:
		return "FIRED"
	case KindReleased:
		return "RELEASED"
	case KindRegisterFailed:
		return "REGISTER_FAILED"
	default:
		return "UNKNOWN"
	}
}
