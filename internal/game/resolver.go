package game

import (
	"time"

	"github.com/vovakirdan/bombmaster/internal/config"
	"github.com/vovakirdan/bombmaster/internal/core"
	"github.com/vovakirdan/bombmaster/internal/encoder"
	"github.com/vovakirdan/bombmaster/internal/motion"
)

// OutcomeKind is the result of evaluating a move on one tick.
type OutcomeKind int

const (
	OutcomePending OutcomeKind = iota // Keep polling
	OutcomeSuccess                    // Target action performed
	OutcomeTimeout                    // Level deadline passed; ends the level
)

// String returns a human-readable name for the outcome.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "pending"
	}
}

// Outcome is what a move resolved to. ScoreDelta is only set on success.
type Outcome struct {
	Kind       OutcomeKind
	ScoreDelta int
}

// Resolver resolves a single move against the tick's inputs.
type Resolver struct {
	scoring       config.ScoringConfig
	reactionDelay time.Duration

	target      core.Target
	accumulator int
	pressed     bool
	progress    float64
}

// NewResolver creates a resolver with the given scoring rules and grace period.
func NewResolver(scoring config.ScoringConfig, reactionDelay time.Duration) *Resolver {
	return &Resolver{scoring: scoring, reactionDelay: reactionDelay}
}

// Begin starts a new move. pressed is the button level at move start, so a
// button already held down does not count as a press.
func (r *Resolver) Begin(target core.Target, pressed bool) {
	r.target = target
	r.accumulator = 0
	r.pressed = pressed
	r.progress = 0
}

// Target returns the current move's target.
func (r *Resolver) Target() core.Target {
	return r.target
}

// Armed reports whether the reaction delay has passed for moveElapsed.
func (r *Resolver) Armed(moveElapsed time.Duration) bool {
	return moveElapsed >= r.reactionDelay
}

// Evaluate resolves one tick. The level deadline is checked first and ends
// the level regardless of move progress. During the reaction delay nothing
// but the deadline counts.
func (r *Resolver) Evaluate(in Inputs, moveElapsed, levelElapsed, levelLimit time.Duration) Outcome {
	if levelElapsed >= levelLimit {
		return Outcome{Kind: OutcomeTimeout}
	}

	wasPressed := r.pressed
	r.pressed = in.Pressed

	if !r.Armed(moveElapsed) {
		return Outcome{Kind: OutcomePending}
	}

	switch r.target {
	case core.TargetLeft, core.TargetRight:
		if in.HasEdge && matches(r.target, in.Edge.Direction) {
			r.accumulator += r.scoring.KnobMultiplier
		}
		r.progress = core.Clamp01(float64(r.accumulator) / float64(r.scoring.TargetScore))
		if r.accumulator >= r.scoring.TargetScore {
			return r.success()
		}
	case core.TargetPress:
		if in.Pressed && !wasPressed {
			return r.success()
		}
	case core.TargetShake:
		r.progress = in.ShakeProgress
		if in.Shake == motion.ShakeConfirmed {
			return r.success()
		}
	}
	return Outcome{Kind: OutcomePending}
}

// Progress returns the completion of the current move in [0, 1].
func (r *Resolver) Progress() float64 {
	return r.progress
}

func (r *Resolver) success() Outcome {
	r.progress = 1
	return Outcome{Kind: OutcomeSuccess, ScoreDelta: r.scoring.MoveBonus}
}

func matches(t core.Target, d encoder.Direction) bool {
	return (t == core.TargetLeft && d == encoder.Left) ||
		(t == core.TargetRight && d == encoder.Right)
}
