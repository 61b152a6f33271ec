package motion

import (
	"math"
	"time"

	"github.com/vovakirdan/bombmaster/internal/core"
)

// ShakeConfig sets the detector thresholds.
type ShakeConfig struct {
	MagnitudeThreshold float64       // Absolute magnitude that counts as a shake
	ChangeThreshold    float64       // Accumulated |Δmagnitude| within Window
	BigChangeThreshold float64       // Single-sample |Δmagnitude|
	Window             time.Duration // Accumulation window length
	Hold               time.Duration // Time from trigger to confirmation
}

// DefaultShakeConfig returns the MEDIUM thresholds of the handheld.
func DefaultShakeConfig() ShakeConfig {
	return ShakeConfig{
		MagnitudeThreshold: 13,
		ChangeThreshold:    3,
		BigChangeThreshold: 4,
		Window:             200 * time.Millisecond,
		Hold:               1500 * time.Millisecond,
	}
}

// ShakePhase tags the detector state.
type ShakePhase int

const (
	ShakeIdle ShakePhase = iota
	ShakeTriggered
)

// String returns a human-readable name for the phase.
func (p ShakePhase) String() string {
	if p == ShakeTriggered {
		return "triggered"
	}
	return "idle"
}

// ShakeState is the latch: Idle, or Triggered since a point in time.
// Since is only meaningful when Phase is ShakeTriggered.
type ShakeState struct {
	Phase ShakePhase
	Since time.Time
}

// ShakeEvent is what a single Evaluate call observed.
type ShakeEvent int

const (
	ShakeNone      ShakeEvent = iota
	ShakeStarted              // Idle -> Triggered on this sample
	ShakeConfirmed            // Hold elapsed; the latch released to Idle
)

// ShakeDetector confirms a sustained shake from a magnitude stream.
// Once triggered it stays triggered, ignoring later samples, until the hold
// time has elapsed or Reset is called.
type ShakeDetector struct {
	cfg         ShakeConfig
	state       ShakeState
	prev        float64
	accumulated float64
	windowStart time.Time
}

// NewShakeDetector creates an idle detector baselined at the given magnitude.
func NewShakeDetector(cfg ShakeConfig, magnitude float64, now time.Time) *ShakeDetector {
	d := &ShakeDetector{cfg: cfg}
	d.Reset(magnitude, now)
	return d
}

// Config returns the detector thresholds.
func (d *ShakeDetector) Config() ShakeConfig {
	return d.cfg
}

// State returns the current latch state.
func (d *ShakeDetector) State() ShakeState {
	return d.state
}

// Accumulated returns the change accumulated in the current window.
func (d *ShakeDetector) Accumulated() float64 {
	return d.accumulated
}

// Evaluate feeds one magnitude sample taken at now.
func (d *ShakeDetector) Evaluate(magnitude float64, now time.Time) ShakeEvent {
	delta := math.Abs(magnitude - d.prev)
	d.prev = magnitude

	if now.Sub(d.windowStart) > d.cfg.Window {
		d.accumulated = 0
		d.windowStart = now
	} else {
		d.accumulated += delta
	}

	if d.state.Phase == ShakeTriggered {
		if now.Sub(d.state.Since) >= d.cfg.Hold {
			d.state = ShakeState{Phase: ShakeIdle}
			d.accumulated = 0
			d.windowStart = now
			return ShakeConfirmed
		}
		return ShakeNone
	}

	trigger := magnitude > d.cfg.MagnitudeThreshold ||
		d.accumulated > d.cfg.ChangeThreshold ||
		delta > d.cfg.BigChangeThreshold
	if trigger {
		d.state = ShakeState{Phase: ShakeTriggered, Since: now}
		return ShakeStarted
	}
	return ShakeNone
}

// Progress returns how far through the hold period the latch is, in [0, 1].
func (d *ShakeDetector) Progress(now time.Time) float64 {
	if d.state.Phase != ShakeTriggered {
		return 0
	}
	if d.cfg.Hold <= 0 {
		return 1
	}
	return core.Clamp01(float64(now.Sub(d.state.Since)) / float64(d.cfg.Hold))
}

// Reset returns the detector to Idle, clears the accumulated change and
// re-baselines the previous magnitude to the current reading, so the first
// sample after a reset is not compared against a stale value.
func (d *ShakeDetector) Reset(magnitude float64, now time.Time) {
	d.state = ShakeState{Phase: ShakeIdle}
	d.accumulated = 0
	d.prev = magnitude
	d.windowStart = now
}
