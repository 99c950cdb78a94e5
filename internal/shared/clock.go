package shared

import "time"

// Clock supplies the current time so "today" can be pinned in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always reports the same instant.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time {
	return c.At
}

// Today returns the calendar day of c.Now().
func Today(c Clock) time.Time {
	return Day(c.Now())
}
