package game

import (
	"time"

	"github.com/vovakirdan/bombmaster/internal/config"
	"github.com/vovakirdan/bombmaster/internal/core"
	"github.com/vovakirdan/bombmaster/internal/encoder"
	"github.com/vovakirdan/bombmaster/internal/motion"
	"github.com/vovakirdan/bombmaster/internal/sim"
)

// testRig builds a calibrated rig on a simulated device. Every clock sleep
// advances the device waveforms by one poll.
func testRig() (*Rig, *sim.Device, *sim.Clock) {
	clock := sim.NewClock()
	dev := sim.NewDevice()
	clock.OnTick = func(time.Duration) { dev.Tick() }

	enc := encoder.NewSensor(dev.Knob.Clk, dev.Knob.Data, time.Millisecond)
	filter := motion.NewFilter(dev.Accel, clock, motion.DefaultFilterConfig())
	filter.Calibrate()
	return NewRig(enc, dev.Button, filter), dev, clock
}

// perform makes the simulated device do what the target asks.
func perform(dev *sim.Device, target core.Target) {
	switch target {
	case core.TargetLeft:
		dev.Knob.Turn(encoder.Left, 2)
	case core.TargetRight:
		dev.Knob.Turn(encoder.Right, 2)
	case core.TargetPress:
		dev.Button.Press(3)
	case core.TargetShake:
		dev.Accel.Shake(10)
	}
}

// player performs each move once it is armed, up to the given move count.
type player struct {
	dev   *sim.Device
	upTo  int // Moves to perform; later moves are left alone
	moved int
}

func (p *player) act(l *Level) {
	if l == nil || l.Status() != LevelRunning || !l.Armed() {
		return
	}
	if l.Move() < p.upTo && l.Move() == p.moved {
		perform(p.dev, l.Target())
		p.moved++
	}
}

func testConfig(levels ...config.Level) config.Config {
	cfg := config.Default()
	cfg.Levels = levels
	cfg.Runtime.Countdown = time.Second
	return cfg
}

func mediumDifficulty() config.Difficulty {
	d, _ := config.Default().Difficulty("medium")
	return d
}
