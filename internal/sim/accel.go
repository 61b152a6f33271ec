package sim

import (
	"errors"

	"github.com/vovakirdan/bombmaster/internal/motion"
)

// ErrReadFailed is returned by Accelerometer for injected read failures.
var ErrReadFailed = errors.New("sim: accelerometer read failed")

// Accelerometer is a scripted 3-axis sensor. At rest it reports Rest; queued
// readings (and failures) are consumed one per Acceleration call.
type Accelerometer struct {
	Rest  motion.Vector
	queue []reading
	Reads int
}

type reading struct {
	v   motion.Vector
	err bool
}

// NewAccelerometer creates a sensor resting flat with gravity on Z.
func NewAccelerometer() *Accelerometer {
	return &Accelerometer{Rest: motion.Vector{Z: motion.StandardGravity}}
}

// Acceleration returns the next queued reading or the resting vector.
func (a *Accelerometer) Acceleration() (motion.Vector, error) {
	a.Reads++
	if len(a.queue) == 0 {
		return a.Rest, nil
	}
	r := a.queue[0]
	a.queue = a.queue[1:]
	if r.err {
		return motion.Vector{}, ErrReadFailed
	}
	return r.v, nil
}

// Queue appends explicit readings.
func (a *Accelerometer) Queue(vs ...motion.Vector) {
	for _, v := range vs {
		a.queue = append(a.queue, reading{v: v})
	}
}

// Fail queues n failing reads.
func (a *Accelerometer) Fail(n int) {
	for i := 0; i < n; i++ {
		a.queue = append(a.queue, reading{err: true})
	}
}

// Shake queues n readings alternating between strong positive and negative
// jolts on every axis.
func (a *Accelerometer) Shake(n int) {
	for i := 0; i < n; i++ {
		s := 18.0
		if i%2 == 1 {
			s = -18.0
		}
		a.Queue(motion.Vector{X: s, Y: s / 2, Z: a.Rest.Z + s})
	}
}

// Pending returns the number of queued readings.
func (a *Accelerometer) Pending() int {
	return len(a.queue)
}
