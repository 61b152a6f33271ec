package hardware

import (
	"encoding/binary"
	"fmt"

	"github.com/vovakirdan/bombmaster/internal/motion"
)

// ADXL345 registers.
const (
	regDevID      = 0x00
	regPowerCtl   = 0x2D
	regDataFormat = 0x31
	regDataX0     = 0x32

	adxl345ID = 0xE5

	powerMeasure = 0x08
	formatRange2 = 0x00 // +-2g, 10-bit, right justified

	// DefaultADXL345Addr is the address with SDO/ALT ADDRESS tied low.
	DefaultADXL345Addr = 0x53
)

// scale converts a raw count to m/s2 in the +-2g range (4 mg/LSB).
const scale = 0.004 * 9.80665

// Bus is a register-level I2C connection to one device.
// periph's *i2c.Dev satisfies it.
type Bus interface {
	Tx(w, r []byte) error
}

// ADXL345 reads acceleration from an Analog Devices ADXL345 over I2C.
type ADXL345 struct {
	bus Bus
}

// NewADXL345 checks the device ID and switches the sensor to measurement mode.
func NewADXL345(bus Bus) (*ADXL345, error) {
	id := make([]byte, 1)
	if err := bus.Tx([]byte{regDevID}, id); err != nil {
		return nil, fmt.Errorf("adxl345: read device id: %w", err)
	}
	if id[0] != adxl345ID {
		return nil, fmt.Errorf("adxl345: unexpected device id 0x%02X", id[0])
	}
	if err := bus.Tx([]byte{regDataFormat, formatRange2}, nil); err != nil {
		return nil, fmt.Errorf("adxl345: set data format: %w", err)
	}
	if err := bus.Tx([]byte{regPowerCtl, powerMeasure}, nil); err != nil {
		return nil, fmt.Errorf("adxl345: enable measurement: %w", err)
	}
	return &ADXL345{bus: bus}, nil
}

// Acceleration reads the three axes in m/s2.
func (a *ADXL345) Acceleration() (motion.Vector, error) {
	buf := make([]byte, 6)
	if err := a.bus.Tx([]byte{regDataX0}, buf); err != nil {
		return motion.Vector{}, fmt.Errorf("adxl345: read data: %w", err)
	}
	x := int16(binary.LittleEndian.Uint16(buf[0:2]))
	y := int16(binary.LittleEndian.Uint16(buf[2:4]))
	z := int16(binary.LittleEndian.Uint16(buf[4:6]))
	return motion.Vector{
		X: float64(x) * scale,
		Y: float64(y) * scale,
		Z: float64(z) * scale,
	}, nil
}

var _ motion.Accelerometer = (*ADXL345)(nil)
