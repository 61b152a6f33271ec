package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEmbeddedMatchesDefault(t *testing.T) {
	cfg := embedded()
	def := Default()

	if cfg.Runtime != def.Runtime {
		t.Errorf("Expected runtime %+v, got %+v", def.Runtime, cfg.Runtime)
	}
	if cfg.Scoring != def.Scoring {
		t.Errorf("Expected scoring %+v, got %+v", def.Scoring, cfg.Scoring)
	}
	if cfg.Shake != def.Shake {
		t.Errorf("Expected shake %+v, got %+v", def.Shake, cfg.Shake)
	}
	if cfg.Hardware != def.Hardware {
		t.Errorf("Expected hardware %+v, got %+v", def.Hardware, cfg.Hardware)
	}
	if len(cfg.Levels) != len(def.Levels) {
		t.Fatalf("Expected %d levels, got %d", len(def.Levels), len(cfg.Levels))
	}
	for i := range def.Levels {
		if cfg.Levels[i] != def.Levels[i] {
			t.Errorf("Level %d: expected %+v, got %+v", i+1, def.Levels[i], cfg.Levels[i])
		}
	}
	if len(cfg.Difficulties) != 3 {
		t.Errorf("Expected 3 difficulties, got %d", len(cfg.Difficulties))
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestLoadCustomOverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("scoring:\n  target_score: 90\nshake:\n  hold: 500ms\nlevels:\n  - { base_time: 5, moves: 1 }\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Scoring.TargetScore != 90 {
		t.Errorf("Expected target score 90, got %d", cfg.Scoring.TargetScore)
	}
	if cfg.Scoring.KnobMultiplier != 30 {
		t.Errorf("Expected default knob multiplier 30, got %d", cfg.Scoring.KnobMultiplier)
	}
	if cfg.Shake.Hold != 500*time.Millisecond {
		t.Errorf("Expected hold 500ms, got %v", cfg.Shake.Hold)
	}
	if len(cfg.Levels) != 1 {
		t.Errorf("Expected levels to be replaced, got %d levels", len(cfg.Levels))
	}
	if len(cfg.Difficulties) != 3 {
		t.Errorf("Expected default difficulties to survive, got %d", len(cfg.Difficulties))
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing custom config")
	}
}

func TestLoadDoesNotMutateDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("levels: [{ base_time: 3, moves: 2 }]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Fatal(err)
	}
	if got := embedded().Levels[0].BaseTime; got != 25 {
		t.Errorf("Expected embedded first level 25s, got %v", got)
	}
}

func TestDifficultyLookup(t *testing.T) {
	cfg := Default()

	d, err := cfg.Difficulty("HARD")
	if err != nil {
		t.Fatalf("Difficulty() failed: %v", err)
	}
	if d.TimeFactor != 0.8 {
		t.Errorf("Expected hard time factor 0.8, got %v", d.TimeFactor)
	}

	d, err = cfg.Difficulty("")
	if err != nil || d.Name != DefaultDifficulty {
		t.Errorf("Expected empty name to select %s, got %q (%v)", DefaultDifficulty, d.Name, err)
	}

	if _, err := cfg.Difficulty("nightmare"); !errors.Is(err, ErrInvalidDifficulty) {
		t.Errorf("Expected ErrInvalidDifficulty, got %v", err)
	}
}

func TestValidateLevels(t *testing.T) {
	tests := []struct {
		name   string
		levels []Level
		want   error
	}{
		{"empty", nil, ErrNoLevels},
		{"valid", []Level{{10, 3}, {8, 3}, {8, 4}}, nil},
		{"more time", []Level{{10, 3}, {12, 4}}, ErrInvalidProgression},
		{"fewer moves", []Level{{10, 3}, {9, 2}}, ErrInvalidProgression},
		{"repeat", []Level{{10, 3}, {10, 3}}, ErrInvalidProgression},
		{"zero moves", []Level{{10, 0}}, ErrInvalidProgression},
	}
	for _, tt := range tests {
		err := ValidateLevels(tt.levels)
		if tt.want == nil && err != nil {
			t.Errorf("%s: expected no error, got %v", tt.name, err)
		}
		if tt.want != nil && !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
	}
}

func TestTimeLimit(t *testing.T) {
	l := Level{BaseTime: 25, Moves: 3}
	if got := l.TimeLimit(0.8); got != 20*time.Second {
		t.Errorf("Expected 20s, got %v", got)
	}
	if got := l.TimeLimit(1.2); got != 30*time.Second {
		t.Errorf("Expected 30s, got %v", got)
	}
}

func TestShakeConfigUsesDifficulty(t *testing.T) {
	cfg := Default()
	sc := cfg.ShakeConfig(Difficulty{Name: "x", TimeFactor: 1, ShakeThreshold: 20, ShakeChangeThreshold: 5})
	if sc.MagnitudeThreshold != 20 || sc.ChangeThreshold != 5 {
		t.Errorf("Expected thresholds 20/5, got %v/%v", sc.MagnitudeThreshold, sc.ChangeThreshold)
	}
	if sc.Hold != 1500*time.Millisecond {
		t.Errorf("Expected hold 1.5s, got %v", sc.Hold)
	}
}
