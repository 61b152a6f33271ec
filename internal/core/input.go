package core

// DigitalInput is a single boolean input line (encoder clock, encoder data,
// button). Read returns the raw electrical level: true = high.
type DigitalInput interface {
	Read() bool
}

// Target represents the action a move asks the player to perform.
type Target int

const (
	TargetLeft  Target = iota // Rotate the knob counter-clockwise
	TargetRight               // Rotate the knob clockwise
	TargetPress               // Press the knob button
	TargetShake               // Shake the device
)

// RandomTargets are the targets a non-final move may be drawn from.
var RandomTargets = []Target{TargetLeft, TargetRight, TargetPress}

// String returns a human-readable name for the target.
func (t Target) String() string {
	switch t {
	case TargetLeft:
		return "LEFT"
	case TargetRight:
		return "RIGHT"
	case TargetPress:
		return "PRESS"
	case TargetShake:
		return "SHAKE"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the target by name for JSON/YAML payloads.
func (t Target) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Prompt returns the two-line instruction shown for a target.
func (t Target) Prompt() (string, string) {
	switch t {
	case TargetLeft:
		return "CUT BLUE", "<< LEFT"
	case TargetRight:
		return "CUT RED", "RIGHT >>"
	case TargetPress:
		return "ENTER CODE", "PRESS"
	case TargetShake:
		return "DISARM!!", "SHAKE IT"
	default:
		return "", ""
	}
}
