// Package board defines the domain entity for the tic-tac-toe grid.
// This package is PURE and must NOT import any infrastructure packages.
package board

// Size is the side of the square grid.
const Size = 3

// Mark is the content of one cell. Values match the on-device encoding.
type Mark uint8

const (
	Empty   Mark = 0
	PlayerX Mark = 1 // the human
	PlayerO Mark = 2 // Bob
)

func (m Mark) String() string {
	switch m {
	case PlayerX:
		return "X"
	case PlayerO:
		return "O"
	}
	return "."
}

// Outcome is the result of evaluating a board.
type Outcome uint8

const (
	InProgress Outcome = iota
	WinX
	WinO
	Draw
)

func (o Outcome) String() string {
	switch o {
	case WinX:
		return "WIN_X"
	case WinO:
		return "WIN_O"
	case Draw:
		return "DRAW"
	}
	return "IN_PROGRESS"
}

// Decided reports whether the game is over.
func (o Outcome) Decided() bool {
	return o != InProgress
}

// Winner returns the winning mark, or Empty for a draw or an open game.
func (o Outcome) Winner() Mark {
	switch o {
	case WinX:
		return PlayerX
	case WinO:
		return PlayerO
	}
	return Empty
}

func outcomeFor(m Mark) Outcome {
	if m == PlayerX {
		return WinX
	}
	return WinO
}

// Pos addresses one cell.
type Pos struct {
	Row, Col int
}

// Board is a 3x3 grid of marks.
type Board [Size][Size]Mark

// At returns the mark at p.
func (b Board) At(p Pos) Mark {
	return b[p.Row][p.Col]
}

// Place puts m on an empty cell. Returns false if the cell is occupied.
func (b *Board) Place(p Pos, m Mark) bool {
	if b[p.Row][p.Col] != Empty {
		return false
	}
	b[p.Row][p.Col] = m
	return true
}

// EmptyCells lists the free cells in row-major order.
func (b Board) EmptyCells() []Pos {
	cells := make([]Pos, 0, Size*Size)
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b[r][c] == Empty {
				cells = append(cells, Pos{r, c})
			}
		}
	}
	return cells
}

// Full reports whether no cell is empty.
func (b Board) Full() bool {
	return len(b.EmptyCells()) == 0
}

// Evaluate checks rows, then columns, then both diagonals for three equal
// non-empty marks. Lines are checked before fullness, so a last move that
// completes a line on a full board is a win, not a draw.
func (b Board) Evaluate() Outcome {
	for i := 0; i < Size; i++ {
		if m := b[i][0]; m != Empty && m == b[i][1] && m == b[i][2] {
			return outcomeFor(m)
		}
	}
	for i := 0; i < Size; i++ {
		if m := b[0][i]; m != Empty && m == b[1][i] && m == b[2][i] {
			return outcomeFor(m)
		}
	}
	if m := b[1][1]; m != Empty {
		if m == b[0][0] && m == b[2][2] {
			return outcomeFor(m)
		}
		if m == b[0][2] && m == b[2][0] {
			return outcomeFor(m)
		}
	}

	if b.Full() {
		return Draw
	}
	return InProgress
}
