package clock

import "time"

// Clock abstracts wall-clock access so day-difference math is testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// System returns the real UTC clock.
func System() Clock {
	return systemClock{}
}

type fixedClock struct {
	at time.Time
}

func (f fixedClock) Now() time.Time {
	return f.at
}

// Fixed returns a clock frozen at the given instant.
func Fixed(at time.Time) Clock {
	return fixedClock{at: at}
}

// OrSystem substitutes the system clock for a nil clock.
func OrSystem(c Clock) Clock {
	if c == nil {
		return System()
	}
	return c
}
