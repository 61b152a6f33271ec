// Package logsink reports game progress through the structured logger.
package logsink

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bombmaster/internal/config"
	"github.com/vovakirdan/bombmaster/internal/core"
	"github.com/vovakirdan/bombmaster/internal/game"
	"github.com/vovakirdan/bombmaster/internal/registry"
)

func init() {
	registry.Register("log", "Structured log", func(_ config.Config, logger *log.Logger) (registry.Sink, error) {
		return New(logger), nil
	})
}

// Sink logs phase and move changes at debug level and results at info level.
// Snapshots that change nothing but progress are skipped.
type Sink struct {
	logger *log.Logger

	mu     sync.Mutex
	seen   bool
	phase  game.Phase
	level  int
	move   int
	target core.Target
	armed  bool
}

// New creates a log sink.
func New(logger *log.Logger) *Sink {
	if logger == nil {
		logger = log.Default()
	}
	return &Sink{logger: logger.WithPrefix("game")}
}

// Publish logs the snapshot if the phase, move or target changed.
func (s *Sink) Publish(snap game.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen && snap.Phase == s.phase && snap.LevelIndex == s.level &&
		snap.Move == s.move && snap.Target == s.target && snap.Armed == s.armed {
		return
	}
	s.seen = true
	s.phase = snap.Phase
	s.level = snap.LevelIndex
	s.move = snap.Move
	s.target = snap.Target
	s.armed = snap.Armed

	switch snap.Phase {
	case game.PhaseCountdown:
		s.logger.Debug("countdown", "level", snap.LevelIndex+1, "seconds", snap.Countdown)
	case game.PhasePlaying:
		s.logger.Debug("move",
			"level", snap.LevelIndex+1,
			"move", snap.Move+1,
			"of", snap.Moves,
			"target", snap.Target,
			"armed", snap.Armed,
			"remaining", snap.Remaining)
	}
}

// LevelFinished logs a level result.
func (s *Sink) LevelFinished(res game.LevelResult) {
	if res.Success {
		s.logger.Info("level cleared", "level", res.Index+1, "score", res.Score)
		return
	}
	s.logger.Info("bomb exploded", "level", res.Index+1, "moves", res.Moves, "score", res.Score)
}

// SessionFinished logs a session result.
func (s *Sink) SessionFinished(res game.SessionResult) {
	msg := "game over"
	if res.MissionComplete {
		msg = "mission complete"
	}
	s.logger.Info(msg,
		"player", res.Player,
		"difficulty", res.Difficulty,
		"score", res.TotalScore,
		"levels", res.LevelsCleared(),
		"high_score", res.Qualifies)
}

// Close does nothing.
func (s *Sink) Close() error {
	return nil
}

var (
	_ registry.Sink   = (*Sink)(nil)
	_ game.ResultSink = (*Sink)(nil)
)
