package game

import (
	"time"

	"github.com/vovakirdan/bombmaster/internal/core"
)

// Phase is the session phase reported in snapshots.
type Phase int

const (
	PhaseIdle      Phase = iota // Not started
	PhaseCountdown              // Counting down before a level
	PhasePlaying                // Level clock running
	PhaseOver                   // Session ended
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseCountdown:
		return "countdown"
	case PhasePlaying:
		return "playing"
	case PhaseOver:
		return "over"
	default:
		return "idle"
	}
}

// MarshalText encodes the phase by name for JSON payloads.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Snapshot is an immutable view of the session for presentation.
type Snapshot struct {
	Phase         Phase       `json:"phase"`
	LevelIndex    int         `json:"level"`
	Move          int         `json:"move"`
	Moves         int         `json:"moves"`
	Target        core.Target `json:"target"`
	Armed         bool        `json:"armed"`               // Reaction delay passed
	MoveProgress  float64     `json:"move_progress"`       // [0, 1]
	LevelProgress float64     `json:"level_progress"`      // Fraction of the deadline used, [0, 1]
	Remaining     float64     `json:"remaining"`           // Seconds left on the level clock
	Countdown     int         `json:"countdown,omitempty"` // Whole seconds left in the countdown
	Score         int         `json:"score"`               // Session total including the current level
	Difficulty    string      `json:"difficulty"`
	At            time.Time   `json:"at"`
}

// Sink consumes snapshots. Publish must not block the polling loop.
type Sink interface {
	Publish(Snapshot)
}

// ResultSink is implemented by sinks that also want level and session results.
type ResultSink interface {
	LevelFinished(LevelResult)
	SessionFinished(SessionResult)
}

// throttle limits snapshot publication to one per interval. Phase changes
// always go through.
type throttle struct {
	interval time.Duration
	last     time.Time
	phase    Phase
	sent     bool
}

func (t *throttle) allow(now time.Time, phase Phase) bool {
	if t.sent && phase == t.phase && now.Sub(t.last) < t.interval {
		return false
	}
	t.sent = true
	t.last = now
	t.phase = phase
	return true
}
