package utils

import "time"

// Clock abstracts wall-clock access so that lockout windows and session
// expiry can be tested deterministically with an injected fake.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now.
type SystemClock struct{}

func NewSystemClock() SystemClock {
	return SystemClock{}
}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
