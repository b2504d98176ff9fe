// Package pico drives the real board: a Raspberry Pi Pico with a 5x5 WS2812
// matrix, an SSD1306 OLED, a PWM buzzer, an analog joystick and a push button.
// Hardware access is only built with TinyGo; the helpers in this file are
// plain Go so they can be tested on the desktop.
package pico

import "github.com/MRamiBalles/BobTamagotchi/firmware/internal/hal"

const (
	// Screen geometry of the SSD1306.
	ScreenWidth  = 128
	ScreenHeight = 64

	// LineHeight is the pixel pitch of one text row; the font baseline sits
	// at baseline pixels below the row top.
	LineHeight = 10
	baseline   = 8

	// MaxLines is how many rows fit on the screen.
	MaxLines = ScreenHeight / LineHeight
)

// ScaleADC converts a 16-bit TinyGo ADC reading to the 12-bit range the
// input thresholds are expressed in.
func ScaleADC(raw uint16) uint16 {
	v := raw >> 4
	if v > hal.AxisMax {
		return hal.AxisMax
	}
	return v
}

// LineBaseline is the y coordinate to draw text row i at.
func LineBaseline(i int) int16 {
	return int16(i*LineHeight + baseline)
}

// VisibleLines trims lines to what fits on the screen.
func VisibleLines(lines []string) []string {
	if len(lines) > MaxLines {
		return lines[:MaxLines]
	}
	return lines
}
