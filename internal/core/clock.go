package core

import "time"

// Clock is the engine's only source of time.
// Deadline arithmetic uses Sub on values returned by Now, so the system
// implementation must hand out monotonic readings.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the real monotonic clock.
type SystemClock struct{}

// Now returns time.Now, which carries a monotonic reading.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Sleep blocks the calling goroutine for d.
func (SystemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// Clamp01 restricts v to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
