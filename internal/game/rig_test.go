package game

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitForPress(t *testing.T) {
	rig, dev, clock := testRig()
	start := clock.Now()

	// Press once 100ms into the wait.
	ticks := 0
	clock.OnTick = func(time.Duration) {
		ticks++
		if ticks == 10 {
			dev.Button.Press(3)
		}
		dev.Tick()
	}
	if err := rig.WaitForPress(context.Background(), clock, 10*time.Millisecond); err != nil {
		t.Fatalf("WaitForPress failed: %v", err)
	}
	if waited := clock.Now().Sub(start); waited != 100*time.Millisecond {
		t.Errorf("Expected to return on the press at 100ms, got %v", waited)
	}
}

func TestWaitForPressNeedsRelease(t *testing.T) {
	rig, dev, clock := testRig()
	start := clock.Now()
	dev.Button.Press(20) // Held when the wait begins

	ticks := 0
	clock.OnTick = func(time.Duration) {
		ticks++
		if ticks == 30 {
			dev.Button.Press(3)
		}
		dev.Tick()
	}
	if err := rig.WaitForPress(context.Background(), clock, 10*time.Millisecond); err != nil {
		t.Fatalf("WaitForPress failed: %v", err)
	}
	if waited := clock.Now().Sub(start); waited != 300*time.Millisecond {
		t.Errorf("Expected the held press to be ignored until the second press at 300ms, got %v", waited)
	}
}

func TestWaitForPressCancel(t *testing.T) {
	rig, _, clock := testRig()
	ctx, cancel := context.WithCancel(context.Background())
	ticks := 0
	clock.OnTick = func(time.Duration) {
		ticks++
		if ticks == 5 {
			cancel()
		}
	}
	if err := rig.WaitForPress(ctx, clock, 10*time.Millisecond); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
