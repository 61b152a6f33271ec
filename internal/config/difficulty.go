package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/bombmaster/internal/core"
	"github.com/vovakirdan/bombmaster/internal/motion"
)

// Setup errors returned when a configuration cannot start a session.
var (
	ErrNoLevels           = errors.New("no levels configured")
	ErrInvalidProgression = errors.New("level progression does not increase difficulty")
	ErrInvalidDifficulty  = errors.New("invalid difficulty")
)

// DefaultDifficulty is used when no difficulty is chosen.
const DefaultDifficulty = "medium"

// Difficulty looks up a difficulty preset by name, ignoring case.
func (c Config) Difficulty(name string) (Difficulty, error) {
	if name == "" {
		name = DefaultDifficulty
	}
	for _, d := range c.Difficulties {
		if strings.EqualFold(d.Name, name) {
			return d, nil
		}
	}
	return Difficulty{}, fmt.Errorf("%w: unknown difficulty %q (available: %s)",
		ErrInvalidDifficulty, name, strings.Join(c.DifficultyNames(), ", "))
}

// DifficultyNames returns the configured preset names in order.
func (c Config) DifficultyNames() []string {
	names := make([]string, 0, len(c.Difficulties))
	for _, d := range c.Difficulties {
		names = append(names, d.Name)
	}
	return names
}

// Validate checks that the preset can be applied to a session.
func (d Difficulty) Validate() error {
	switch {
	case d.TimeFactor <= 0:
		return fmt.Errorf("%w: %s: time factor must be positive", ErrInvalidDifficulty, d.Name)
	case d.ShakeThreshold <= 0:
		return fmt.Errorf("%w: %s: shake threshold must be positive", ErrInvalidDifficulty, d.Name)
	case d.ShakeChangeThreshold <= 0:
		return fmt.Errorf("%w: %s: shake change threshold must be positive", ErrInvalidDifficulty, d.Name)
	}
	return nil
}

// ValidateLevels checks the level progression. Every level needs a positive
// time and at least one move; each level must keep or shrink the time budget,
// keep or raise the move count, and change at least one of them.
func ValidateLevels(levels []Level) error {
	if len(levels) == 0 {
		return ErrNoLevels
	}
	for i, l := range levels {
		if l.BaseTime <= 0 || l.Moves < 1 {
			return fmt.Errorf("%w: level %d needs a positive time and at least one move", ErrInvalidProgression, i+1)
		}
		if i == 0 {
			continue
		}
		prev := levels[i-1]
		if l.BaseTime > prev.BaseTime || l.Moves < prev.Moves {
			return fmt.Errorf("%w: level %d is easier than level %d", ErrInvalidProgression, i+1, i)
		}
		if l.BaseTime == prev.BaseTime && l.Moves == prev.Moves {
			return fmt.Errorf("%w: level %d repeats level %d", ErrInvalidProgression, i+1, i)
		}
	}
	return nil
}

// Validate checks everything a session needs from the configuration.
func (c Config) Validate() error {
	if err := ValidateLevels(c.Levels); err != nil {
		return err
	}
	for _, d := range c.Difficulties {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	if c.Scoring.TargetScore <= 0 || c.Scoring.KnobMultiplier <= 0 {
		return fmt.Errorf("config: scoring needs a positive target score and knob multiplier")
	}
	if c.Runtime.Tick <= 0 {
		return fmt.Errorf("config: runtime tick must be positive")
	}
	return nil
}

// RuntimeConfig converts the runtime section for the polling loop.
func (c Config) RuntimeConfig(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{
		Tick:             c.Runtime.Tick,
		SnapshotInterval: c.Runtime.SnapshotInterval,
		Seed:             seed,
	}
}

// FilterConfig converts the motion section for the accelerometer filter.
func (c Config) FilterConfig() motion.FilterConfig {
	return motion.FilterConfig{
		CalibrationSamples:  c.Motion.CalibrationSamples,
		CalibrationInterval: c.Motion.CalibrationInterval,
		Gravity:             c.Motion.Gravity,
	}
}

// ShakeConfig combines the shared shake settings with a difficulty's thresholds.
func (c Config) ShakeConfig(d Difficulty) motion.ShakeConfig {
	return motion.ShakeConfig{
		MagnitudeThreshold: d.ShakeThreshold,
		ChangeThreshold:    d.ShakeChangeThreshold,
		BigChangeThreshold: c.Shake.BigChangeThreshold,
		Window:             c.Shake.Window,
		Hold:               c.Shake.Hold,
	}
}
