package game

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bombmaster/internal/config"
	"github.com/vovakirdan/bombmaster/internal/core"
	"github.com/vovakirdan/bombmaster/internal/motion"
)

// Setup errors. A driver can log these and retry session setup.
var (
	ErrNoLevels           = config.ErrNoLevels
	ErrInvalidProgression = config.ErrInvalidProgression
	ErrInvalidDifficulty  = config.ErrInvalidDifficulty
	ErrNoRig              = errors.New("game: no input rig")
)

// Scoreboard is the high score board a session reports to when it ends.
type Scoreboard interface {
	Qualifies(score int) bool
	Insert(name string, score int) error
}

// GameState is owned by the session. TotalScore never decreases.
type GameState struct {
	LevelIndex int
	TotalScore int
	Difficulty config.Difficulty
}

// SessionResult is handed to result sinks when a session ends.
type SessionResult struct {
	Player          string        `json:"player,omitempty"`
	Difficulty      string        `json:"difficulty"`
	TotalScore      int           `json:"total_score"`
	Levels          []LevelResult `json:"levels"`
	MissionComplete bool          `json:"mission_complete"`
	Qualifies       bool          `json:"qualifies"` // Made the high score board
	Started         time.Time     `json:"started"`
	Ended           time.Time     `json:"ended"`
}

// LevelsCleared returns the number of levels completed successfully.
func (r SessionResult) LevelsCleared() int {
	n := 0
	for _, l := range r.Levels {
		if l.Success {
			n++
		}
	}
	return n
}

// SessionOptions configures a new session.
type SessionOptions struct {
	Config     config.Config
	Difficulty string // Preset name; empty selects the default
	Player     string // Three-letter name for the board; empty skips insertion
	Seed       int64  // Move draw seed; 0 = time based
	Rig        *Rig
	Clock      core.Clock
	Board      Scoreboard // Optional
	Sink       Sink       // Optional
	Logger     *log.Logger
}

// Session plays the level progression from the first level until a level
// fails or the last level is cleared.
type Session struct {
	cfg    config.Config
	rules  Rules
	player string
	rig    *Rig
	clock  core.Clock
	board  Scoreboard
	sink   Sink
	logger *log.Logger
	rng    *rand.Rand

	state    GameState
	phase    Phase
	since    time.Time
	level    *Level
	shake    *motion.ShakeDetector
	results  []LevelResult
	result   SessionResult
	throttle throttle
}

// NewSession validates the options and creates a session ready to start.
func NewSession(opts SessionOptions) (*Session, error) {
	if err := config.ValidateLevels(opts.Config.Levels); err != nil {
		return nil, err
	}
	diff, err := opts.Config.Difficulty(opts.Difficulty)
	if err != nil {
		return nil, err
	}
	if err := diff.Validate(); err != nil {
		return nil, err
	}
	if opts.Rig == nil {
		return nil, ErrNoRig
	}

	clock := opts.Clock
	if clock == nil {
		clock = core.SystemClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Session{
		cfg:    opts.Config,
		rules:  RulesFromConfig(opts.Config),
		player: strings.ToUpper(opts.Player),
		rig:    opts.Rig,
		clock:  clock,
		board:  opts.Board,
		sink:   opts.Sink,
		logger: logger,
		rng:    newRand(opts.Seed),
		state:  GameState{Difficulty: diff},
	}
	s.throttle.interval = opts.Config.Runtime.SnapshotInterval
	s.shake = motion.NewShakeDetector(opts.Config.ShakeConfig(diff), opts.Rig.magnitude(), clock.Now())
	return s, nil
}

// State returns a copy of the game state.
func (s *Session) State() GameState {
	return s.state
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// Level returns the level in progress, or nil during the first countdown.
func (s *Session) Level() *Level {
	return s.level
}

// Result returns the session result. It is complete once the phase is PhaseOver.
func (s *Session) Result() SessionResult {
	return s.result
}

// Start begins the countdown to the first level.
func (s *Session) Start(now time.Time) {
	s.state.LevelIndex = 0
	s.state.TotalScore = 0
	s.results = nil
	s.level = nil
	s.result = SessionResult{
		Player:     s.player,
		Difficulty: s.state.Difficulty.Name,
		Started:    now,
	}
	s.enter(PhaseCountdown, now)
	s.logger.Info("session started", "difficulty", s.state.Difficulty.Name, "levels", len(s.cfg.Levels))
}

// Step advances the session by one poll and returns the resulting phase.
// Calling Step on a session that has not started starts it.
func (s *Session) Step(now time.Time) Phase {
	switch s.phase {
	case PhaseIdle:
		s.Start(now)
	case PhaseCountdown:
		if now.Sub(s.since) >= s.cfg.Runtime.Countdown {
			s.beginLevel(now)
		}
	case PhasePlaying:
		switch s.level.Step(now) {
		case LevelCleared:
			s.endLevel(now)
		case LevelFailed:
			s.endLevel(now)
		}
	case PhaseOver:
		return s.phase
	}
	s.publish(now)
	return s.phase
}

// Run plays the whole session on the session clock.
func (s *Session) Run(ctx context.Context) (SessionResult, error) {
	tick := s.cfg.Runtime.Tick
	if tick <= 0 {
		tick = core.DefaultConfig().Tick
	}
	for {
		if err := ctx.Err(); err != nil {
			return s.result, err
		}
		if s.Step(s.clock.Now()) == PhaseOver {
			return s.result, nil
		}
		s.clock.Sleep(tick)
	}
}

func (s *Session) enter(p Phase, now time.Time) {
	s.phase = p
	s.since = now
}

func (s *Session) beginLevel(now time.Time) {
	lc := s.cfg.Levels[s.state.LevelIndex]
	s.level = NewLevel(s.state.LevelIndex, lc, s.state.Difficulty, s.rules, s.rig, s.shake, s.rng)
	s.level.Start(now)
	s.enter(PhasePlaying, now)
	s.logger.Debug("level started",
		"level", s.state.LevelIndex+1,
		"moves", lc.Moves,
		"limit", s.level.TimeLimit())
}

func (s *Session) endLevel(now time.Time) {
	res := s.level.Result()
	s.results = append(s.results, res)
	s.state.TotalScore += res.Score
	if rs, ok := s.sink.(ResultSink); ok {
		rs.LevelFinished(res)
	}
	s.logger.Info("level finished",
		"level", res.Index+1,
		"success", res.Success,
		"score", res.Score,
		"total", s.state.TotalScore)

	switch {
	case !res.Success:
		s.finish(now, false)
	case s.state.LevelIndex == len(s.cfg.Levels)-1:
		s.finish(now, true)
	default:
		s.state.LevelIndex++
		s.enter(PhaseCountdown, now)
	}
}

func (s *Session) finish(now time.Time, complete bool) {
	s.result.TotalScore = s.state.TotalScore
	s.result.Levels = append([]LevelResult(nil), s.results...)
	s.result.MissionComplete = complete
	s.result.Ended = now

	if s.board != nil {
		s.result.Qualifies = s.board.Qualifies(s.state.TotalScore)
		if s.result.Qualifies && s.player != "" {
			if err := s.board.Insert(s.player, s.state.TotalScore); err != nil {
				s.logger.Warn("high score not recorded", "player", s.player, "err", err)
			}
		}
	}
	s.enter(PhaseOver, now)

	if rs, ok := s.sink.(ResultSink); ok {
		rs.SessionFinished(s.result)
	}
	s.logger.Info("session over",
		"score", s.result.TotalScore,
		"mission_complete", complete,
		"high_score", s.result.Qualifies)
}

// Snapshot builds the presentation view at now.
func (s *Session) Snapshot(now time.Time) Snapshot {
	snap := Snapshot{
		Phase:      s.phase,
		LevelIndex: s.state.LevelIndex,
		Score:      s.state.TotalScore,
		Difficulty: s.state.Difficulty.Name,
		At:         now,
	}
	if s.phase == PhaseCountdown {
		left := s.cfg.Runtime.Countdown - now.Sub(s.since)
		snap.Countdown = int((left + time.Second - 1) / time.Second)
	}
	if s.level != nil && s.phase == PhasePlaying {
		snap.Target = s.level.Target()
		snap.Move = s.level.Move()
		snap.Moves = len(s.level.targets)
		snap.Armed = s.level.Armed()
		snap.MoveProgress = s.level.MoveProgress()
		snap.LevelProgress = s.level.LevelProgress()
		snap.Remaining = s.level.Remaining().Seconds()
		snap.Score += s.level.Result().Score
	}
	return snap
}

func (s *Session) publish(now time.Time) {
	if s.sink == nil || !s.throttle.allow(now, s.phase) {
		return
	}
	s.sink.Publish(s.Snapshot(now))
}
