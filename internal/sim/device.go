package sim

// Device bundles the simulated inputs of one handheld unit.
type Device struct {
	Knob   *Knob
	Button *Button
	Accel  *Accelerometer
}

// NewDevice creates an idle device lying flat.
func NewDevice() *Device {
	return &Device{
		Knob:   NewKnob(),
		Button: NewButton(),
		Accel:  NewAccelerometer(),
	}
}

// Tick advances the knob and button waveforms by one poll.
func (d *Device) Tick() {
	d.Knob.Tick()
	d.Button.Tick()
}
