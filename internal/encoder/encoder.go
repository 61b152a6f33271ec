// Package encoder decodes the clock and data lines of a rotary encoder into
// debounced left/right rotation events.
//
// Decoding is a pure state machine (Step) so it can be driven by synthetic
// line sequences in tests; Sensor binds it to two physical input lines.
//
// Convention: an event is produced on a falling edge of the clock line. The
// data line level sampled at that moment gives the direction:
// data high = Right (clockwise), data low = Left (counter-clockwise).
package encoder

import (
	"time"

	"github.com/vovakirdan/bombmaster/internal/core"
)

// DefaultDebounce is the minimum spacing between two accepted edges.
const DefaultDebounce = time.Millisecond

// Direction is the rotation direction of an accepted edge.
type Direction int

const (
	Left Direction = iota + 1
	Right
)

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// Levels is one observation of both encoder lines.
type Levels struct {
	Clk  bool
	Data bool
}

// Edge is an accepted rotation step.
type Edge struct {
	Direction Direction
	At        time.Time
}

// State is the decoder memory between two observations.
type State struct {
	Prev         Levels    // Levels seen on the previous observation
	LastAccepted time.Time // Time of the last accepted edge
	HasAccepted  bool      // Whether LastAccepted is meaningful
}

// NewState returns a decoder state synchronized to the given levels.
func NewState(cur Levels) State {
	return State{Prev: cur}
}

// Step advances the decoder by one observation.
// It returns the new state and, when a falling clock edge is accepted, the
// resulting edge. Edges closer than debounce to the previously accepted edge
// are dropped; the stored levels are updated either way.
func Step(s State, cur Levels, now time.Time, debounce time.Duration) (State, Edge, bool) {
	falling := s.Prev.Clk && !cur.Clk
	s.Prev = cur

	if !falling {
		return s, Edge{}, false
	}
	if s.HasAccepted && now.Sub(s.LastAccepted) < debounce {
		return s, Edge{}, false
	}

	s.LastAccepted = now
	s.HasAccepted = true

	dir := Left
	if cur.Data {
		dir = Right
	}
	return s, Edge{Direction: dir, At: now}, true
}

// Sensor reads two digital lines and feeds them through Step.
type Sensor struct {
	clk      core.DigitalInput
	data     core.DigitalInput
	debounce time.Duration
	state    State
}

// NewSensor creates a sensor synchronized to the current line levels.
// A non-positive debounce selects DefaultDebounce.
func NewSensor(clk, data core.DigitalInput, debounce time.Duration) *Sensor {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	s := &Sensor{clk: clk, data: data, debounce: debounce}
	s.Reset()
	return s
}

// Poll samples both lines and returns at most one accepted edge.
func (s *Sensor) Poll(now time.Time) (Edge, bool) {
	var edge Edge
	var ok bool
	s.state, edge, ok = Step(s.state, s.levels(), now, s.debounce)
	return edge, ok
}

// Reset resynchronizes the stored levels to the lines as they are now and
// forgets the last accepted edge, so a half-completed transition from before
// the reset cannot be read as a step.
func (s *Sensor) Reset() {
	s.state = NewState(s.levels())
}

// State returns a copy of the decoder state.
func (s *Sensor) State() State {
	return s.state
}

// Debounce returns the configured debounce interval.
func (s *Sensor) Debounce() time.Duration {
	return s.debounce
}

func (s *Sensor) levels() Levels {
	return Levels{Clk: s.clk.Read(), Data: s.data.Read()}
}
