package sim

import "github.com/vovakirdan/bombmaster/internal/encoder"

// Line is a settable digital input line.
type Line struct {
	level bool
}

// NewLine creates a line at the given level.
func NewLine(level bool) *Line {
	return &Line{level: level}
}

// Read returns the current level.
func (l *Line) Read() bool {
	return l.level
}

// Set changes the level.
func (l *Line) Set(level bool) {
	l.level = level
}

// Knob drives a pair of encoder lines from queued rotation steps.
// Each step takes two ticks: clock pulled low with the data line set for the
// direction, then both lines released high again. Lines idle high, matching
// pull-up wiring.
type Knob struct {
	Clk   *Line
	Data  *Line
	queue []encoder.Direction
	low   bool
}

// NewKnob creates a knob with both lines idle high.
func NewKnob() *Knob {
	return &Knob{Clk: NewLine(true), Data: NewLine(true)}
}

// Turn queues n steps in the given direction.
func (k *Knob) Turn(dir encoder.Direction, n int) {
	for i := 0; i < n; i++ {
		k.queue = append(k.queue, dir)
	}
}

// Pending returns the number of queued steps not yet emitted.
func (k *Knob) Pending() int {
	return len(k.queue)
}

// Tick advances the line waveform by one poll.
func (k *Knob) Tick() {
	if k.low {
		k.Clk.Set(true)
		k.Data.Set(true)
		k.low = false
		return
	}
	if len(k.queue) == 0 {
		return
	}
	dir := k.queue[0]
	k.queue = k.queue[1:]
	k.Data.Set(dir == encoder.Right)
	k.Clk.Set(false)
	k.low = true
}

// Button is an active-low push button line.
type Button struct {
	*Line
	held int
}

// NewButton creates a released button (line high).
func NewButton() *Button {
	return &Button{Line: NewLine(true)}
}

// Press holds the button down for the given number of ticks.
func (b *Button) Press(ticks int) {
	if ticks < 1 {
		ticks = 1
	}
	b.held = ticks
	b.Set(false)
}

// Tick counts down a timed press and releases the line when it expires.
func (b *Button) Tick() {
	if b.held == 0 {
		return
	}
	b.held--
	if b.held == 0 {
		b.Set(true)
	}
}
