package timezone

import "time"

// Clock is the single source of "now" handed to services. Services read it once per
// operation so every check inside that operation agrees on the same day.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

type appClock struct{}

func (appClock) Now() time.Time {
	return Now()
}

// NewClock returns the wall clock expressed in the application timezone.
func NewClock() Clock {
	return appClock{}
}

// Fixed returns a clock frozen at t.
func Fixed(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// Today returns midnight of the current day in the application timezone.
func Today(clock Clock) time.Time {
	return Date(clock.Now())
}
