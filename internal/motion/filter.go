package motion

import (
	"time"

	"github.com/vovakirdan/bombmaster/internal/core"
)

// WindowSize is the length of the moving-average buffer.
const WindowSize = 5

// FilterConfig controls calibration.
type FilterConfig struct {
	CalibrationSamples  int           // Samples averaged by Calibrate
	CalibrationInterval time.Duration // Pause between calibration samples
	Gravity             float64       // Expected resting magnitude along +Z
}

// DefaultFilterConfig returns the calibration settings of the handheld.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		CalibrationSamples:  10,
		CalibrationInterval: 50 * time.Millisecond,
		Gravity:             StandardGravity,
	}
}

// Filter smooths a 3-axis accelerometer with a fixed offset correction and a
// five-sample moving average.
//
// A Filter built with a nil source models a device without accelerometer:
// it always reports the resting gravity vector, which never crosses any shake
// threshold, so Shake moves cannot be completed on such a unit.
type Filter struct {
	src        Accelerometer
	clock      core.Clock
	cfg        FilterConfig
	samples    [WindowSize]Vector
	index      int
	avg        Vector
	offset     Vector
	calibrated bool
}

// NewFilter creates an uncalibrated filter. src may be nil.
func NewFilter(src Accelerometer, clock core.Clock, cfg FilterConfig) *Filter {
	if cfg.CalibrationSamples <= 0 {
		cfg.CalibrationSamples = DefaultFilterConfig().CalibrationSamples
	}
	if cfg.Gravity == 0 {
		cfg.Gravity = StandardGravity
	}
	return &Filter{src: src, clock: clock, cfg: cfg}
}

// Present reports whether an accelerometer is attached.
func (f *Filter) Present() bool {
	return f.src != nil
}

// Calibrated reports whether an offset has been computed.
func (f *Filter) Calibrated() bool {
	return f.calibrated
}

// Offset returns the calibration offset (zero until calibrated).
func (f *Filter) Offset() Vector {
	return f.offset
}

// Neutral returns the reading of a device at rest.
func (f *Filter) Neutral() Vector {
	return Vector{Z: f.cfg.Gravity}
}

// Calibrate samples the resting device and stores offset = mean - gravity.
// It runs at most once successfully; later calls, and calls without a sensor,
// do nothing. Failed reads are skipped. When no read succeeds the filter stays
// uncalibrated. The corrected samples are pushed through the averaging
// buffer so the first Read starts from rest instead of from zero.
func (f *Filter) Calibrate() bool {
	if f.src == nil || f.calibrated {
		return f.calibrated
	}

	var got []Vector
	for i := 0; i < f.cfg.CalibrationSamples; i++ {
		if v, err := f.src.Acceleration(); err == nil {
			got = append(got, v)
		}
		if f.clock != nil && f.cfg.CalibrationInterval > 0 {
			f.clock.Sleep(f.cfg.CalibrationInterval)
		}
	}
	if len(got) == 0 {
		return false
	}

	var sum Vector
	for _, v := range got {
		sum = sum.Add(v)
	}
	mean := sum.Scale(1 / float64(len(got)))
	f.offset = mean.Sub(f.Neutral())
	f.calibrated = true

	for _, v := range got {
		f.push(v.Sub(f.offset))
	}
	return true
}

// Read takes one sample and returns the moving average.
// A failed read returns the previous average unchanged.
func (f *Filter) Read() Vector {
	if f.src == nil {
		return f.Neutral()
	}

	v, err := f.src.Acceleration()
	if err != nil {
		return f.avg
	}
	if f.calibrated {
		v = v.Sub(f.offset)
	}
	f.push(v)
	return f.avg
}

// Magnitude returns the Euclidean norm of Read.
func (f *Filter) Magnitude() float64 {
	return f.Read().Norm()
}

// push inserts a sample into the ring and refreshes the average.
func (f *Filter) push(v Vector) {
	f.samples[f.index] = v
	f.index = (f.index + 1) % WindowSize

	var sum Vector
	for _, s := range f.samples {
		sum = sum.Add(s)
	}
	f.avg = sum.Scale(1.0 / WindowSize)
}
