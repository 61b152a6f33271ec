// Package hardware connects the engine to the physical handheld: the rotary
// encoder and its push button on GPIO, and an ADXL345 accelerometer on I2C.
package hardware

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/vovakirdan/bombmaster/internal/config"
	"github.com/vovakirdan/bombmaster/internal/motion"
)

// Line is a GPIO input with the internal pull-up enabled.
type Line struct {
	pin gpio.PinIO
}

// Read returns true when the line is high.
func (l *Line) Read() bool {
	return l.pin.Read() == gpio.High
}

// Name returns the pin name.
func (l *Line) Name() string {
	return l.pin.Name()
}

// Device is the opened handheld.
type Device struct {
	Clock  *Line
	Data   *Line
	Button *Line

	accel *ADXL345
	bus   i2c.BusCloser
}

// Open initializes the host drivers, the three input pins and the
// accelerometer. The pins are required. A missing or failing accelerometer
// is logged and the device runs without one.
func Open(cfg config.HardwareConfig, logger *log.Logger) (*Device, error) {
	if logger == nil {
		logger = log.Default()
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("hardware: host init: %w", err)
	}

	d := &Device{}
	var err error
	if d.Clock, err = openLine(cfg.ClockPin); err != nil {
		return nil, err
	}
	if d.Data, err = openLine(cfg.DataPin); err != nil {
		return nil, err
	}
	if d.Button, err = openLine(cfg.ButtonPin); err != nil {
		return nil, err
	}

	addr := cfg.AccelAddr
	if addr == 0 {
		addr = DefaultADXL345Addr
	}
	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		logger.Warn("I2C bus unavailable, continuing without accelerometer", "bus", cfg.I2CBus, "err", err)
		return d, nil
	}
	accel, err := NewADXL345(&i2c.Dev{Addr: addr, Bus: bus})
	if err != nil {
		bus.Close()
		logger.Warn("accelerometer unavailable, shake moves cannot succeed", "addr", fmt.Sprintf("0x%02X", addr), "err", err)
		return d, nil
	}
	d.accel = accel
	d.bus = bus
	logger.Info("hardware ready",
		"clock", d.Clock.Name(),
		"data", d.Data.Name(),
		"button", d.Button.Name(),
		"accel", fmt.Sprintf("0x%02X", addr))
	return d, nil
}

func openLine(name string) (*Line, error) {
	if name == "" {
		return nil, errors.New("hardware: pin name not configured")
	}
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("hardware: unknown pin %q", name)
	}
	if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("hardware: configure %s: %w", name, err)
	}
	return &Line{pin: pin}, nil
}

// Accelerometer returns the sensor, or nil when the device has none.
func (d *Device) Accelerometer() motion.Accelerometer {
	if d.accel == nil {
		return nil
	}
	return d.accel
}

// Close releases the I2C bus.
func (d *Device) Close() error {
	if d.bus != nil {
		return d.bus.Close()
	}
	return nil
}
