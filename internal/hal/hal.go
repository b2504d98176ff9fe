// Package hal declares the hardware collaborators the engine drives.
// Implementations live in sub-packages: virtual (desktop and tests) and
// pico (TinyGo firmware).
package hal

import (
	"errors"
	"time"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/display"
)

// ErrHardware is returned by implementations that fail to acquire a device at startup.
var ErrHardware = errors.New("hal: hardware unavailable")

// Axis identifies a joystick axis.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

// Button identifies a push button.
type Button uint8

const (
	ButtonMain Button = iota
	ButtonAux
)

const (
	// AxisMax is the top of the raw axis range; AxisCenter is its rest value.
	AxisMax    uint16 = 4095
	AxisCenter uint16 = 2048
)

// Pixels is the addressable LED chain.
type Pixels interface {
	SetPixel(index int, r, g, b uint8)
	// Flush transmits the whole frame.
	Flush() error
}

// TextDisplay is the character display.
type TextDisplay interface {
	// ShowLines clears the screen and draws one line per row from the top.
	ShowLines(lines []string) error
	// ShowStatus draws the fixed status layout.
	ShowStatus(s display.Status) error
}

// Buzzer plays a square tone. PlayTone blocks for the duration.
type Buzzer interface {
	PlayTone(hz uint32, d time.Duration)
}

// AnalogInput samples a joystick axis in [0, AxisMax].
type AnalogInput interface {
	ReadAxis(a Axis) uint16
}

// ButtonInput reports whether a button is held. Active-low wiring is
// already inverted by the implementation.
type ButtonInput interface {
	IsPressed(b Button) bool
}

// Panel bundles every collaborator of one device.
type Panel struct {
	Pixels  Pixels
	Display TextDisplay
	Buzzer  Buzzer
	Analog  AnalogInput
	Buttons ButtonInput
}

// DrawFrame pushes a whole frame to p.
func DrawFrame(p Pixels, f display.Frame) error {
	for i, c := range f {
		p.SetPixel(i, c.R, c.G, c.B)
	}
	return p.Flush()
}
