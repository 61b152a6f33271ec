package game

import (
	"context"
	"math/rand"
	"time"

	"github.com/vovakirdan/bombmaster/internal/config"
	"github.com/vovakirdan/bombmaster/internal/core"
	"github.com/vovakirdan/bombmaster/internal/motion"
)

// LevelStatus is the state of a level after a Step.
type LevelStatus int

const (
	LevelReady   LevelStatus = iota // Not started
	LevelRunning                    // Moves in progress
	LevelCleared                    // Every move succeeded
	LevelFailed                     // Deadline passed
)

// String returns a human-readable name for the status.
func (s LevelStatus) String() string {
	switch s {
	case LevelRunning:
		return "running"
	case LevelCleared:
		return "cleared"
	case LevelFailed:
		return "failed"
	default:
		return "ready"
	}
}

// LevelResult is handed to result sinks when a level ends.
type LevelResult struct {
	Index   int  `json:"index"` // Zero-based level index
	Success bool `json:"success"`
	Score   int  `json:"score"` // Move rewards plus the completion bonus on success
	Moves   int  `json:"moves"` // Moves completed
}

// Rules are the scoring and pacing rules shared by every level of a session.
type Rules struct {
	Scoring       config.ScoringConfig
	ReactionDelay time.Duration
}

// RulesFromConfig extracts the level rules from a configuration.
func RulesFromConfig(cfg config.Config) Rules {
	return Rules{Scoring: cfg.Scoring, ReactionDelay: cfg.Runtime.ReactionDelay}
}

// Level runs the moves of one level against a shared deadline.
type Level struct {
	index   int
	rules   Rules
	limit   time.Duration
	targets []core.Target

	rig      *Rig
	shake    *motion.ShakeDetector
	resolver *Resolver

	status    LevelStatus
	move      int
	armed     bool
	start     time.Time
	moveStart time.Time
	now       time.Time
	score     int
}

// NewLevel prepares a level. The last move is always a shake; the others are
// drawn uniformly from the rotate and press targets using rng.
func NewLevel(index int, lc config.Level, diff config.Difficulty, rules Rules, rig *Rig, shake *motion.ShakeDetector, rng *rand.Rand) *Level {
	moves := lc.Moves
	if moves < 1 {
		moves = 1
	}
	targets := make([]core.Target, moves)
	for i := 0; i < moves-1; i++ {
		targets[i] = core.RandomTargets[rng.Intn(len(core.RandomTargets))]
	}
	targets[moves-1] = core.TargetShake

	return &Level{
		index:    index,
		rules:    rules,
		limit:    lc.TimeLimit(diff.TimeFactor),
		targets:  targets,
		rig:      rig,
		shake:    shake,
		resolver: NewResolver(rules.Scoring, rules.ReactionDelay),
	}
}

// Targets returns the move sequence of the level.
func (l *Level) Targets() []core.Target {
	return append([]core.Target(nil), l.targets...)
}

// Start starts the level clock and the first move.
func (l *Level) Start(now time.Time) {
	l.start = now
	l.now = now
	l.status = LevelRunning
	l.move = 0
	l.score = 0
	l.beginMove(now)
}

func (l *Level) beginMove(now time.Time) {
	l.moveStart = now
	l.armed = false
	l.rig.reset(now, l.shake)
	l.resolver.Begin(l.targets[l.move], l.rig.Pressed())
}

// Step polls the inputs once and advances the level.
func (l *Level) Step(now time.Time) LevelStatus {
	if l.status != LevelRunning {
		return l.status
	}
	l.now = now

	moveElapsed := now.Sub(l.moveStart)
	if !l.armed && l.resolver.Armed(moveElapsed) {
		// Anything seen during the reaction delay is discarded.
		l.rig.reset(now, l.shake)
		l.armed = true
	}

	in := l.rig.sample(now, l.shake, l.armed)
	out := l.resolver.Evaluate(in, moveElapsed, now.Sub(l.start), l.limit)

	switch out.Kind {
	case OutcomeTimeout:
		l.status = LevelFailed
	case OutcomeSuccess:
		l.score += out.ScoreDelta
		l.move++
		if l.move == len(l.targets) {
			l.score += l.rules.Scoring.LevelBonus
			l.status = LevelCleared
		} else {
			l.beginMove(now)
		}
	}
	return l.status
}

// Status returns the current level status.
func (l *Level) Status() LevelStatus {
	return l.status
}

// Result returns the level outcome so far.
func (l *Level) Result() LevelResult {
	return LevelResult{
		Index:   l.index,
		Success: l.status == LevelCleared,
		Score:   l.score,
		Moves:   l.move,
	}
}

// Target returns the current move's target.
func (l *Level) Target() core.Target {
	if l.move >= len(l.targets) {
		return l.targets[len(l.targets)-1]
	}
	return l.targets[l.move]
}

// Move returns the zero-based index of the current move.
func (l *Level) Move() int {
	return l.move
}

// Armed reports whether the current move is past its reaction delay.
func (l *Level) Armed() bool {
	return l.armed
}

// MoveProgress returns the completion of the current move in [0, 1].
func (l *Level) MoveProgress() float64 {
	return l.resolver.Progress()
}

// LevelProgress returns the fraction of the deadline already used, in [0, 1].
func (l *Level) LevelProgress() float64 {
	if l.limit <= 0 {
		return 1
	}
	return core.Clamp01(float64(l.now.Sub(l.start)) / float64(l.limit))
}

// TimeLimit returns the level deadline.
func (l *Level) TimeLimit() time.Duration {
	return l.limit
}

// Remaining returns the time left before the deadline.
func (l *Level) Remaining() time.Duration {
	left := l.limit - l.now.Sub(l.start)
	if left < 0 {
		return 0
	}
	return left
}

// Runner drives single levels to completion on a clock.
type Runner struct {
	Rig   *Rig
	Clock core.Clock
	Tick  time.Duration
	Rules Rules
	Shake config.ShakeConfig
	Rand  *rand.Rand
}

// NewRunner creates a runner from a configuration.
func NewRunner(cfg config.Config, rig *Rig, clock core.Clock, seed int64) *Runner {
	return &Runner{
		Rig:   rig,
		Clock: clock,
		Tick:  cfg.Runtime.Tick,
		Rules: RulesFromConfig(cfg),
		Shake: cfg.Shake,
		Rand:  newRand(seed),
	}
}

// Run plays one level, polling every Tick until it is cleared or failed.
func (r *Runner) Run(ctx context.Context, index int, lc config.Level, diff config.Difficulty) (LevelResult, error) {
	shakeCfg := config.Config{Shake: r.Shake}.ShakeConfig(diff)
	now := r.Clock.Now()
	shake := motion.NewShakeDetector(shakeCfg, r.Rig.magnitude(), now)

	level := NewLevel(index, lc, diff, r.Rules, r.Rig, shake, r.Rand)
	level.Start(now)
	tick := r.Tick
	if tick <= 0 {
		tick = core.DefaultConfig().Tick
	}
	for {
		if err := ctx.Err(); err != nil {
			return level.Result(), err
		}
		switch level.Step(r.Clock.Now()) {
		case LevelCleared, LevelFailed:
			return level.Result(), nil
		}
		r.Clock.Sleep(tick)
	}
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
