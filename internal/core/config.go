package core

import "time"

// RuntimeConfig contains configuration passed to the engine at initialization.
// Drivers use this to pace the polling loop and for deterministic move draws.
type RuntimeConfig struct {
	Tick             time.Duration // Polling interval of the cooperative loop
	SnapshotInterval time.Duration // Minimum spacing between presentation snapshots
	Seed             int64         // RNG seed for move selection (0 = time based)
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		Tick:             10 * time.Millisecond,
		SnapshotInterval: 50 * time.Millisecond,
		Seed:             0, // 0 means use current time in the driver
	}
}

// TickRate returns the number of polls per second implied by Tick.
func (c RuntimeConfig) TickRate() int {
	if c.Tick <= 0 {
		return 100
	}
	return int(time.Second / c.Tick)
}
