// Package world provides engine-level world primitives shared by game systems.
package world

import "time"

// Time is a point on the world clock, counted in seconds since the world began.
// The zero value is the start of the world and compares before every later turn.
type Time int64

// Add returns the time d later than t. Sub-second durations are truncated.
func (t Time) Add(d time.Duration) Time {
	return t + Time(d/time.Second)
}

// Before reports whether t is earlier than u.
func (t Time) Before(u Time) bool {
	return t < u
}

// Sub returns the duration between u and t.
func (t Time) Sub(u Time) time.Duration {
	return time.Duration(t-u) * time.Second
}

// Clock is a monotonic world clock advanced by the game loop, not by wall time.
type Clock struct {
	now Time
}

// NewClock creates a clock starting at the given time
func NewClock(start Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current world time
func (c *Clock) Now() Time {
	return c.now
}

// Advance moves the clock forward. Negative durations are ignored so the clock
// never runs backwards.
func (c *Clock) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	c.now = c.now.Add(d)
}
