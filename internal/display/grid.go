// Package display builds what Bob shows: LED frames for the 5x5 grid and
// text lines for the character display. Everything here is pure; pushing
// the result to hardware is the hal package's job.
package display

import "github.com/MRamiBalles/BobTamagotchi/firmware/internal/domain/rules"

const (
	// Side is the width and height of the LED grid.
	Side = 5
	// LEDCount is the number of addressable LEDs in the chain.
	LEDCount = Side * Side
)

// FaceIndex maps a grid coordinate to a chain index for face patterns.
// Row 0 is the top of the face, which is wired at the far end of the chain.
func FaceIndex(row, col int) int {
	return (Side-1-row)*Side + col
}

// GameIndex maps a grid coordinate to a chain index for the game board.
// Unlike FaceIndex it is not flipped.
func GameIndex(row, col int) int {
	return row*Side + col
}

// Color is an RGB triple as sent to the LED chain.
type Color struct {
	R, G, B uint8
}

var (
	Off         = Color{}
	FaceColor   = Color{R: 100}
	GridColor   = Color{R: 255, G: 255, B: 255}
	XColor      = Color{R: 50}
	OColor      = Color{B: 50}
	CursorColor = Color{R: 50, G: 50}
	DrawColor   = Color{R: 200, G: 200, B: 200}
)

// Frame holds one color per chain index.
type Frame [LEDCount]Color

// Pattern is a row-major on/off bitmap of the grid.
type Pattern [Side][Side]uint8

var (
	happyFace = Pattern{
		{0, 1, 0, 1, 0},
		{0, 1, 0, 1, 0},
		{1, 0, 0, 0, 1},
		{0, 1, 1, 1, 0},
		{0, 0, 0, 0, 0},
	}
	neutralFace = Pattern{
		{0, 1, 0, 1, 0},
		{0, 1, 0, 1, 0},
		{0, 0, 0, 0, 0},
		{1, 1, 1, 1, 1},
		{0, 0, 0, 0, 0},
	}
	sadFace = Pattern{
		{0, 1, 0, 1, 0},
		{0, 1, 0, 1, 0},
		{0, 0, 0, 0, 0},
		{0, 1, 1, 1, 0},
		{1, 0, 0, 0, 1},
	}
)

// FacePattern returns the bitmap for f.
func FacePattern(f rules.Face) Pattern {
	switch f {
	case rules.FaceHappy:
		return happyFace
	case rules.FaceNeutral:
		return neutralFace
	default:
		return sadFace
	}
}

// PatternFrame lights the set bits of p in c using the face mapping.
func PatternFrame(p Pattern, c Color) Frame {
	var f Frame
	for row := 0; row < Side; row++ {
		for col := 0; col < Side; col++ {
			if p[row][col] != 0 {
				f[FaceIndex(row, col)] = c
			}
		}
	}
	return f
}

// FaceFrame is the frame for Bob's expression.
func FaceFrame(face rules.Face) Frame {
	return PatternFrame(FacePattern(face), FaceColor)
}
