package anim

import "time"

// Clock is the time source a Timeline reads when it is pumped.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock only moves when told to. Tests and offline renderers use it to
// make animation progress deterministic.
type ManualClock struct {
	now time.Time
}

// NewManualClock creates a clock frozen at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Time { return c.now }

// Advance moves the clock forward by d. Negative durations are ignored so
// progress stays monotonic.
func (c *ManualClock) Advance(d time.Duration) {
	if d > 0 {
		c.now = c.now.Add(d)
	}
}
