// Package motion turns raw accelerometer readings into a smoothed, calibrated
// magnitude and detects sustained shaking from it.
package motion

import "math"

// StandardGravity is the expected magnitude of a device at rest, in m/s².
const StandardGravity = 9.8

// Vector is a 3-axis acceleration in m/s².
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale returns v * k.
func (v Vector) Scale(k float64) Vector {
	return Vector{X: v.X * k, Y: v.Y * k, Z: v.Z * k}
}

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Accelerometer supplies one acceleration triple per call.
// An error means no new sample is available this time.
type Accelerometer interface {
	Acceleration() (Vector, error)
}
