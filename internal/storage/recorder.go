package storage

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bombmaster/internal/game"
)

// Recorder is a result sink that writes every finished session to the store.
type Recorder struct {
	store  *Store
	logger *log.Logger
}

// NewRecorder creates a session recorder.
func NewRecorder(store *Store, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.Default()
	}
	return &Recorder{store: store, logger: logger}
}

// Publish ignores snapshots.
func (r *Recorder) Publish(game.Snapshot) {}

// LevelFinished ignores level results; sessions are recorded whole.
func (r *Recorder) LevelFinished(game.LevelResult) {}

// SessionFinished stores the session. Failures are logged.
func (r *Recorder) SessionFinished(res game.SessionResult) {
	rec := SessionRecord{
		Player:          res.Player,
		Difficulty:      res.Difficulty,
		TotalScore:      res.TotalScore,
		LevelsCleared:   res.LevelsCleared(),
		MissionComplete: res.MissionComplete,
		Qualified:       res.Qualifies,
		Duration:        res.Ended.Sub(res.Started),
	}
	if _, err := r.store.SaveSession(rec); err != nil {
		r.logger.Warn("session not recorded", "err", err)
	}
}

// Close does nothing; the store belongs to the caller.
func (r *Recorder) Close() error { return nil }

var (
	_ game.Sink       = (*Recorder)(nil)
	_ game.ResultSink = (*Recorder)(nil)
)
