// Package sim provides simulated hardware for running the engine without a
// physical device: a manual clock, settable input lines, a scripted knob,
// button and accelerometer. The terminal simulator and the tests use it.
package sim

import "time"

// Epoch is the starting time of a new Clock.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Clock is a manually advanced clock. Sleep advances it instantly.
type Clock struct {
	now    time.Time
	OnTick func(d time.Duration) // Called after every Sleep, if set
}

// NewClock creates a clock set to Epoch.
func NewClock() *Clock {
	return &Clock{now: Epoch}
}

// Now returns the current simulated time.
func (c *Clock) Now() time.Time {
	return c.now
}

// Sleep advances the clock by d.
func (c *Clock) Sleep(d time.Duration) {
	c.Advance(d)
	if c.OnTick != nil {
		c.OnTick(d)
	}
}

// Advance moves the clock forward by d without firing OnTick.
func (c *Clock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// Set moves the clock to an absolute time.
func (c *Clock) Set(t time.Time) {
	c.now = t
}

// Elapsed returns the time since Epoch.
func (c *Clock) Elapsed() time.Duration {
	return c.now.Sub(Epoch)
}
