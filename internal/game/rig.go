// Package game implements the move, level and session state machines of the
// bomb game. Everything is driven by a single cooperative polling loop: the
// caller (Runner, Session.Run or an external tick source) calls Step with the
// current time and the engine samples its inputs exactly once per call.
package game

import (
	"context"
	"time"

	"github.com/vovakirdan/bombmaster/internal/core"
	"github.com/vovakirdan/bombmaster/internal/encoder"
	"github.com/vovakirdan/bombmaster/internal/motion"
)

// Rig is the set of inputs the engine polls.
type Rig struct {
	Encoder *encoder.Sensor
	Button  core.DigitalInput // Active-low: a low line means pressed
	Motion  *motion.Filter
}

// NewRig wires the three input capabilities of a device.
func NewRig(enc *encoder.Sensor, button core.DigitalInput, filter *motion.Filter) *Rig {
	return &Rig{Encoder: enc, Button: button, Motion: filter}
}

// Pressed reports whether the button is held down.
func (r *Rig) Pressed() bool {
	return r.Button != nil && !r.Button.Read()
}

// WaitForPress polls the button every tick until it goes from released to
// pressed. A button already held when the wait begins must be released
// first.
func (r *Rig) WaitForPress(ctx context.Context, clock core.Clock, tick time.Duration) error {
	if tick <= 0 {
		tick = core.DefaultConfig().Tick
	}
	was := r.Pressed()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		now := r.Pressed()
		if now && !was {
			return nil
		}
		was = now
		clock.Sleep(tick)
	}
}

// Inputs is one tick's consistent view of every input.
type Inputs struct {
	Edge          encoder.Edge
	HasEdge       bool
	Pressed       bool
	Magnitude     float64
	Shake         motion.ShakeEvent
	ShakeProgress float64
}

// sample polls the encoder and button first, then feeds the latest motion
// magnitude to the shake detector. While disarmed (reaction delay) edges
// and shake events are discarded, but the button level and the motion
// average are still tracked.
func (r *Rig) sample(now time.Time, shake *motion.ShakeDetector, armed bool) Inputs {
	var in Inputs
	if r.Encoder != nil {
		in.Edge, in.HasEdge = r.Encoder.Poll(now)
	}
	in.Pressed = r.Pressed()
	in.Magnitude = r.magnitude()

	if !armed {
		in.HasEdge = false
		return in
	}
	if shake != nil {
		in.Shake = shake.Evaluate(in.Magnitude, now)
		in.ShakeProgress = shake.Progress(now)
	}
	return in
}

// reset clears the encoder and shake detector at the start of a move and
// again when the reaction delay ends.
func (r *Rig) reset(now time.Time, shake *motion.ShakeDetector) {
	if r.Encoder != nil {
		r.Encoder.Reset()
	}
	if shake != nil {
		shake.Reset(r.magnitude(), now)
	}
}

func (r *Rig) magnitude() float64 {
	if r.Motion == nil {
		return motion.StandardGravity
	}
	return r.Motion.Magnitude()
}
