package motion

import (
	"errors"
	"math"
	"testing"
	"time"
)

type fakeClock struct {
	now   time.Time
	slept time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
	c.slept += d
}

// scripted returns queued readings, then rest forever.
type scripted struct {
	rest  Vector
	queue []Vector
	fail  []bool
	reads int
}

func (s *scripted) Acceleration() (Vector, error) {
	s.reads++
	if len(s.fail) > 0 {
		f := s.fail[0]
		s.fail = s.fail[1:]
		if f {
			return Vector{}, errors.New("bus error")
		}
	}
	if len(s.queue) > 0 {
		v := s.queue[0]
		s.queue = s.queue[1:]
		return v, nil
	}
	return s.rest, nil
}

func near(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestFilterConvergesToGravityAfterCalibration(t *testing.T) {
	src := &scripted{rest: Vector{Z: StandardGravity}}
	f := NewFilter(src, &fakeClock{}, DefaultFilterConfig())

	if !f.Calibrate() {
		t.Fatal("Calibrate() should succeed with a working sensor")
	}
	for i := 0; i < WindowSize; i++ {
		f.Read()
	}
	if m := f.Magnitude(); !near(m, StandardGravity, 1e-9) {
		t.Errorf("Expected magnitude %.3f, got %.6f", StandardGravity, m)
	}
}

func TestFilterCalibrationRemovesTilt(t *testing.T) {
	// Sensor mounted with a bias on every axis
	biased := Vector{X: 0.4, Y: -0.3, Z: 10.1}
	src := &scripted{rest: biased}
	clock := &fakeClock{}
	f := NewFilter(src, clock, DefaultFilterConfig())
	f.Calibrate()

	want := Vector{X: 0.4, Y: -0.3, Z: 10.1 - StandardGravity}
	off := f.Offset()
	if !near(off.X, want.X, 1e-9) || !near(off.Y, want.Y, 1e-9) || !near(off.Z, want.Z, 1e-9) {
		t.Errorf("Expected offset %+v, got %+v", want, off)
	}
	if src.reads != 10 {
		t.Errorf("Expected 10 calibration reads, got %d", src.reads)
	}
	if clock.slept != 500*time.Millisecond {
		t.Errorf("Expected 500ms of sampling, got %v", clock.slept)
	}

	// Buffer primed with corrected samples: first Read is already at rest
	if m := f.Magnitude(); !near(m, StandardGravity, 1e-9) {
		t.Errorf("Expected first magnitude at rest %.3f, got %.6f", StandardGravity, m)
	}
}

func TestFilterCalibrationImmutable(t *testing.T) {
	src := &scripted{rest: Vector{X: 1, Z: StandardGravity}}
	f := NewFilter(src, &fakeClock{}, DefaultFilterConfig())
	f.Calibrate()
	first := f.Offset()

	src.rest = Vector{X: 5, Z: 3}
	f.Calibrate()
	if f.Offset() != first {
		t.Errorf("Offset changed after second Calibrate: %+v -> %+v", first, f.Offset())
	}
}

func TestFilterCalibrationAllReadsFail(t *testing.T) {
	src := &scripted{rest: Vector{Z: StandardGravity}, fail: make([]bool, 10)}
	for i := range src.fail {
		src.fail[i] = true
	}
	f := NewFilter(src, &fakeClock{}, DefaultFilterConfig())

	if f.Calibrate() {
		t.Error("Calibrate() should report failure when every read fails")
	}
	if f.Calibrated() {
		t.Error("Filter should stay uncalibrated")
	}
	// A later attempt may still succeed
	if !f.Calibrate() {
		t.Error("Calibrate() should succeed once the sensor recovers")
	}
}

func TestFilterMovingAverage(t *testing.T) {
	src := &scripted{queue: []Vector{{X: 5}, {X: 5}, {X: 5}, {X: 5}, {X: 5}, {X: 10}}}
	f := NewFilter(src, nil, DefaultFilterConfig())

	// Buffer starts at zero: averages ramp up 1, 2, 3, 4, 5
	for i := 1; i <= WindowSize; i++ {
		v := f.Read()
		if !near(v.X, float64(i), 1e-9) {
			t.Errorf("Read %d: expected X=%d, got %.3f", i, i, v.X)
		}
	}
	// Oldest 5 replaced by 10
	if v := f.Read(); !near(v.X, 6, 1e-9) {
		t.Errorf("Expected X=6 after window rolls, got %.3f", v.X)
	}
}

func TestFilterTransientFailureKeepsAverage(t *testing.T) {
	src := &scripted{rest: Vector{Z: StandardGravity}}
	f := NewFilter(src, &fakeClock{}, DefaultFilterConfig())
	f.Calibrate()
	before := f.Read()

	src.fail = []bool{true}
	src.queue = []Vector{{X: 100}}
	if got := f.Read(); got != before {
		t.Errorf("Failed read should return previous average %+v, got %+v", before, got)
	}
}

func TestFilterAbsentSensor(t *testing.T) {
	f := NewFilter(nil, &fakeClock{}, DefaultFilterConfig())

	if f.Calibrate() {
		t.Error("Calibrate() without a sensor should be a no-op")
	}
	if f.Present() {
		t.Error("Present() should be false without a sensor")
	}
	for i := 0; i < 20; i++ {
		if m := f.Magnitude(); m != StandardGravity {
			t.Fatalf("Expected neutral magnitude %.1f, got %.3f", StandardGravity, m)
		}
	}
}
