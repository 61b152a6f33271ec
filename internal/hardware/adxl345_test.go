package hardware

import (
	"errors"
	"math"
	"testing"
)

// regBus emulates the ADXL345 register file.
type regBus struct {
	regs   [64]byte
	writes map[byte]byte
	fail   bool
}

func newRegBus() *regBus {
	b := &regBus{writes: make(map[byte]byte)}
	b.regs[regDevID] = adxl345ID
	return b
}

func (b *regBus) Tx(w, r []byte) error {
	if b.fail {
		return errors.New("bus error")
	}
	if len(w) == 2 && r == nil {
		b.writes[w[0]] = w[1]
		b.regs[w[0]] = w[1]
		return nil
	}
	copy(r, b.regs[w[0]:])
	return nil
}

func (b *regBus) setAxis(reg byte, v int16) {
	b.regs[reg] = byte(uint16(v))
	b.regs[reg+1] = byte(uint16(v) >> 8)
}

func TestADXL345Init(t *testing.T) {
	bus := newRegBus()
	if _, err := NewADXL345(bus); err != nil {
		t.Fatalf("NewADXL345() failed: %v", err)
	}
	if bus.writes[regPowerCtl] != powerMeasure {
		t.Errorf("Expected measurement mode, got 0x%02X", bus.writes[regPowerCtl])
	}
	if v, ok := bus.writes[regDataFormat]; !ok || v != formatRange2 {
		t.Errorf("Expected data format 0x%02X, got 0x%02X", formatRange2, v)
	}
}

func TestADXL345WrongID(t *testing.T) {
	bus := newRegBus()
	bus.regs[regDevID] = 0x00
	if _, err := NewADXL345(bus); err == nil {
		t.Error("Expected error for wrong device id")
	}
}

func TestADXL345Acceleration(t *testing.T) {
	bus := newRegBus()
	a, err := NewADXL345(bus)
	if err != nil {
		t.Fatal(err)
	}

	bus.setAxis(regDataX0, 0)
	bus.setAxis(regDataX0+2, -250)
	bus.setAxis(regDataX0+4, 250)

	v, err := a.Acceleration()
	if err != nil {
		t.Fatalf("Acceleration() failed: %v", err)
	}
	if v.X != 0 {
		t.Errorf("Expected X 0, got %v", v.X)
	}
	// 250 counts x 4 mg = 1 g
	if math.Abs(v.Z-9.80665) > 1e-9 {
		t.Errorf("Expected Z 9.80665, got %v", v.Z)
	}
	if math.Abs(v.Y+9.80665) > 1e-9 {
		t.Errorf("Expected Y -9.80665, got %v", v.Y)
	}

	bus.fail = true
	if _, err := a.Acceleration(); err == nil {
		t.Error("Expected error on bus failure")
	}
}
