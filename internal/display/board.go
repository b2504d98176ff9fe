package display

import "github.com/MRamiBalles/BobTamagotchi/firmware/internal/domain/board"

// The 3x3 board sits on the even rows and columns of the grid; odd rows and
// columns draw the white lattice between cells.
func isCell(row, col int) bool {
	return row%2 == 0 && col%2 == 0
}

func markColor(m board.Mark) Color {
	switch m {
	case board.PlayerX:
		return XColor
	case board.PlayerO:
		return OColor
	}
	return Off
}

// BoardFrame renders b. The cursor is drawn only when showCursor is set,
// i.e. on the human's turn, and hides the mark underneath it.
func BoardFrame(b board.Board, cursor board.Pos, showCursor bool) Frame {
	var f Frame
	for row := 0; row < Side; row++ {
		for col := 0; col < Side; col++ {
			idx := GameIndex(row, col)
			if !isCell(row, col) {
				f[idx] = GridColor
				continue
			}
			p := board.Pos{Row: row / 2, Col: col / 2}
			if showCursor && p == cursor {
				f[idx] = CursorColor
			} else {
				f[idx] = markColor(b.At(p))
			}
		}
	}
	return f
}

// FillFrame paints every cell c and keeps the lattice.
func FillFrame(c Color) Frame {
	var f Frame
	for row := 0; row < Side; row++ {
		for col := 0; col < Side; col++ {
			if isCell(row, col) {
				f[GameIndex(row, col)] = c
			} else {
				f[GameIndex(row, col)] = GridColor
			}
		}
	}
	return f
}

// WinColor is the flash color for the winning mark.
func WinColor(m board.Mark) Color {
	return markColor(m)
}
