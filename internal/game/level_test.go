package game

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/vovakirdan/bombmaster/internal/config"
	"github.com/vovakirdan/bombmaster/internal/core"
	"github.com/vovakirdan/bombmaster/internal/motion"
)

// playLevel steps a level on the simulated clock until it ends.
func playLevel(t *testing.T, l *Level, clock core.Clock, p *player) LevelStatus {
	t.Helper()
	l.Start(clock.Now())
	for i := 0; i < 10000; i++ {
		p.act(l)
		if st := l.Step(clock.Now()); st == LevelCleared || st == LevelFailed {
			return st
		}
		clock.Sleep(10 * time.Millisecond)
	}
	t.Fatal("level did not finish")
	return LevelRunning
}

func newTestLevel(rig *Rig, clock core.Clock, lc config.Level, seed int64) *Level {
	cfg := config.Default()
	diff := mediumDifficulty()
	shake := motion.NewShakeDetector(cfg.ShakeConfig(diff), rig.magnitude(), clock.Now())
	return NewLevel(0, lc, diff, RulesFromConfig(cfg), rig, shake, rand.New(rand.NewSource(seed)))
}

func TestLevelLastMoveIsShake(t *testing.T) {
	rig, _, clock := testRig()
	for seed := int64(1); seed <= 20; seed++ {
		l := newTestLevel(rig, clock, config.Level{BaseTime: 10, Moves: 6}, seed)
		targets := l.Targets()
		if len(targets) != 6 {
			t.Fatalf("Expected 6 moves, got %d", len(targets))
		}
		if targets[5] != core.TargetShake {
			t.Errorf("Seed %d: expected last move SHAKE, got %v", seed, targets[5])
		}
		for i, tg := range targets[:5] {
			if tg == core.TargetShake {
				t.Errorf("Seed %d: move %d drew SHAKE", seed, i)
			}
		}
	}
}

func TestLevelTargetsDeterministic(t *testing.T) {
	rig, _, clock := testRig()
	a := newTestLevel(rig, clock, config.Level{BaseTime: 10, Moves: 12}, 42).Targets()
	b := newTestLevel(rig, clock, config.Level{BaseTime: 10, Moves: 12}, 42).Targets()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Move %d differs for the same seed: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestLevelClearedScoresBonus(t *testing.T) {
	rig, dev, clock := testRig()
	l := newTestLevel(rig, clock, config.Level{BaseTime: 25, Moves: 3}, 7)

	st := playLevel(t, l, clock, &player{dev: dev, upTo: 3})
	if st != LevelCleared {
		t.Fatalf("Expected level cleared, got %v", st)
	}
	res := l.Result()
	if !res.Success {
		t.Error("Expected success")
	}
	// 3 moves x 10 + 50 completion bonus
	if res.Score != 80 {
		t.Errorf("Expected score 80, got %d", res.Score)
	}
	if res.Moves != 3 {
		t.Errorf("Expected 3 moves completed, got %d", res.Moves)
	}
}

func TestLevelTimeoutOnSecondMove(t *testing.T) {
	rig, dev, clock := testRig()
	l := newTestLevel(rig, clock, config.Level{BaseTime: 5, Moves: 3}, 3)
	start := clock.Now()

	st := playLevel(t, l, clock, &player{dev: dev, upTo: 1})
	if st != LevelFailed {
		t.Fatalf("Expected level failed, got %v", st)
	}
	res := l.Result()
	if res.Success {
		t.Error("Expected failure")
	}
	if res.Score != 10 {
		t.Errorf("Expected only the first move reward (10), got %d", res.Score)
	}
	if res.Moves != 1 {
		t.Errorf("Expected 1 move completed, got %d", res.Moves)
	}
	if elapsed := clock.Now().Sub(start); elapsed < 5*time.Second || elapsed > 5*time.Second+10*time.Millisecond {
		t.Errorf("Expected failure one poll after the 5s deadline, got %v", elapsed)
	}
}

func TestLevelTimeFactor(t *testing.T) {
	rig, _, clock := testRig()
	cfg := config.Default()
	hard, _ := cfg.Difficulty("hard")
	shake := motion.NewShakeDetector(cfg.ShakeConfig(hard), rig.magnitude(), clock.Now())
	l := NewLevel(0, config.Level{BaseTime: 25, Moves: 3}, hard, RulesFromConfig(cfg), rig, shake, rand.New(rand.NewSource(1)))
	if l.TimeLimit() != 20*time.Second {
		t.Errorf("Expected 20s limit, got %v", l.TimeLimit())
	}
}

func TestLevelInputDuringReactionDelayIgnored(t *testing.T) {
	rig, dev, clock := testRig()
	l := newTestLevel(rig, clock, config.Level{BaseTime: 5, Moves: 1}, 1)
	l.Start(clock.Now())

	// Shake immediately: the latch would confirm after 1.5s, but the input
	// arrives before the move is armed.
	dev.Accel.Shake(10)
	for i := 0; i < 300; i++ {
		l.Step(clock.Now())
		clock.Sleep(10 * time.Millisecond)
	}
	if l.Status() != LevelRunning {
		t.Errorf("Expected level still running, got %v", l.Status())
	}
	if l.MoveProgress() != 0 {
		t.Errorf("Expected no move progress, got %v", l.MoveProgress())
	}
}

func TestRunnerRun(t *testing.T) {
	rig, dev, clock := testRig()
	cfg := config.Default()
	r := NewRunner(cfg, rig, clock, 11)

	// Shake the device once per second; only the armed move can use it.
	ticks := 0
	clock.OnTick = func(time.Duration) {
		dev.Tick()
		ticks++
		if ticks%100 == 0 && dev.Accel.Pending() == 0 {
			dev.Accel.Shake(5)
		}
	}

	res, err := r.Run(context.Background(), 0, config.Level{BaseTime: 10, Moves: 1}, mediumDifficulty())
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if !res.Success || res.Score != 60 {
		t.Errorf("Expected cleared level with score 60, got %+v", res)
	}
}

func TestRunnerCancel(t *testing.T) {
	rig, _, clock := testRig()
	r := NewRunner(config.Default(), rig, clock, 1)

	ctx, cancel := context.WithCancel(context.Background())
	ticks := 0
	clock.OnTick = func(time.Duration) {
		ticks++
		if ticks == 50 {
			cancel()
		}
	}

	_, err := r.Run(ctx, 0, config.Level{BaseTime: 10, Moves: 3}, mediumDifficulty())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
