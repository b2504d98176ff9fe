// Package input turns raw joystick and button samples into discrete,
// edge-triggered events. It keeps no timing of its own, so tests can drive
// it with synthetic sample sequences.
package input

import "github.com/MRamiBalles/BobTamagotchi/firmware/internal/hal"

// Event is a discrete navigation event.
type Event uint8

const (
	None Event = iota
	Up
	Down
	Left
	Right
	Center
	ButtonPressed
	ButtonReleased
)

func (e Event) String() string {
	switch e {
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	case Center:
		return "CENTER"
	case ButtonPressed:
		return "BUTTON_PRESSED"
	case ButtonReleased:
		return "BUTTON_RELEASED"
	}
	return "NONE"
}

// Directional reports whether e moves a cursor.
func (e Event) Directional() bool {
	return e == Up || e == Down || e == Left || e == Right
}

// Thresholds split an axis into low / neutral / high bands.
type Thresholds struct {
	Lower uint16
	Upper uint16
}

// DefaultThresholds suit a 12-bit ADC with a 500-count margin at each end.
func DefaultThresholds() Thresholds {
	return Thresholds{Lower: 500, Upper: hal.AxisMax - 500}
}

// Classify maps one sample to a direction. X wins over Y: only a centered X
// lets Y report Up or Down.
func (t Thresholds) Classify(x, y uint16) Event {
	switch {
	case x < t.Lower:
		return Left
	case x > t.Upper:
		return Right
	case y < t.Lower:
		return Up
	case y > t.Upper:
		return Down
	}
	return Center
}

type latch uint8

const (
	neutral latch = iota
	latched
)

// Debouncer holds the edge latches for the stick and the button.
//
// Stick: neutral -> (off-center sample, event fires) -> latched -> (centered sample) -> neutral.
// Button: released -> (press, ButtonPressed fires) -> held -> (release, ButtonReleased fires) -> released.
type Debouncer struct {
	th     Thresholds
	stick  latch
	button latch
}

// NewDebouncer creates a debouncer with both latches neutral.
func NewDebouncer(th Thresholds) *Debouncer {
	return &Debouncer{th: th}
}

// Stick feeds one joystick sample and returns the event it produced, if any.
func (d *Debouncer) Stick(x, y uint16) (Event, bool) {
	dir := d.th.Classify(x, y)
	if dir == Center {
		d.stick = neutral
		return None, false
	}
	if d.stick == latched {
		return None, false
	}
	d.stick = latched
	return dir, true
}

// Button feeds one button sample (true = held).
func (d *Debouncer) Button(pressed bool) (Event, bool) {
	switch {
	case pressed && d.button == neutral:
		d.button = latched
		return ButtonPressed, true
	case !pressed && d.button == latched:
		d.button = neutral
		return ButtonReleased, true
	}
	return None, false
}

// Latched reports whether the stick is waiting to return to center.
func (d *Debouncer) Latched() bool {
	return d.stick == latched
}

// Sample is one poll of every input.
type Sample struct {
	X       uint16 `json:"x"`
	Y       uint16 `json:"y"`
	Pressed bool   `json:"pressed"`
}

// Feed runs both latches on s. The stick event, if any, comes first.
func (d *Debouncer) Feed(s Sample) []Event {
	var out []Event
	if ev, ok := d.Stick(s.X, s.Y); ok {
		out = append(out, ev)
	}
	if ev, ok := d.Button(s.Pressed); ok {
		out = append(out, ev)
	}
	return out
}

// Read takes one sample from the collaborators.
func Read(a hal.AnalogInput, b hal.ButtonInput) Sample {
	return Sample{
		X:       a.ReadAxis(hal.AxisX),
		Y:       a.ReadAxis(hal.AxisY),
		Pressed: b.IsPressed(hal.ButtonMain),
	}
}
