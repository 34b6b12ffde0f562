package instant

import (
	"testing"
	"time"
)

func TestNowMonotonic(t *testing.T) {
	a := Now()
	b := Now()

	if b.Before(a) {
		t.Errorf("second reading %v is before first reading %v", b, a)
	}

	if d := b.Sub(a); d < 0 {
		t.Errorf("Sub() = %v, want >= 0", d)
	}
}

func TestSubSaturates(t *testing.T) {
	a := Now()
	later := a.Add(50 * time.Millisecond)

	// Earlier minus later must be zero, not negative.
	if d := a.Sub(later); d != 0 {
		t.Errorf("earlier.Sub(later) = %v, want 0", d)
	}

	if d := later.Sub(a); d != 50*time.Millisecond {
		t.Errorf("later.Sub(earlier) = %v, want 50ms", d)
	}
}

func TestSubSelfIsZero(t *testing.T) {
	a := Now()
	if d := a.Sub(a); d != 0 {
		t.Errorf("a.Sub(a) = %v, want 0", d)
	}
}

func TestElapsed(t *testing.T) {
	a := Now()
	time.Sleep(10 * time.Millisecond)

	if d := a.Elapsed(); d < 10*time.Millisecond {
		t.Errorf("Elapsed() = %v, want >= 10ms", d)
	}
}

func TestAddAndComparisons(t *testing.T) {
	a := Now()
	b := a.Add(time.Second)

	if !a.Before(b) {
		t.Error("a.Before(a+1s) = false, want true")
	}
	if !b.After(a) {
		t.Error("(a+1s).After(a) = false, want true")
	}
	if a.Before(a) || a.After(a) {
		t.Error("an instant must not be before or after itself")
	}

	// Moving back past the clock origin saturates.
	zero := Instant{}
	if back := zero.Add(-time.Hour); back != zero {
		t.Errorf("origin.Add(-1h) = %v, want origin", back)
	}
}

func TestUntil(t *testing.T) {
	future := Now().Add(time.Hour)
	if d := Until(future); d <= 0 || d > time.Hour {
		t.Errorf("Until(now+1h) = %v, want in (0, 1h]", d)
	}

	past := Now().Add(-time.Hour)
	if d := Until(past); d != 0 {
		t.Errorf("Until(past) = %v, want 0", d)
	}
}
