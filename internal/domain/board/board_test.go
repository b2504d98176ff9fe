package board

import "testing"

func TestEvaluateTopRow(t *testing.T) {
	b := Board{
		{1, 1, 1},
		{0, 2, 0},
		{2, 0, 2},
	}
	if got := b.Evaluate(); got != WinX {
		t.Errorf("expected WIN_X, got %s", got)
	}
	if b.Evaluate().Winner() != PlayerX {
		t.Errorf("expected winner X")
	}
}

func TestEvaluateDraw(t *testing.T) {
	b := Board{
		{1, 2, 1},
		{2, 1, 2},
		{2, 1, 2},
	}
	if got := b.Evaluate(); got != Draw {
		t.Errorf("expected DRAW, got %s", got)
	}
}

func TestEvaluateEmpty(t *testing.T) {
	var b Board
	if got := b.Evaluate(); got != InProgress {
		t.Errorf("expected IN_PROGRESS, got %s", got)
	}
}

func TestEvaluateColumnsAndDiagonals(t *testing.T) {
	col := Board{
		{0, 2, 1},
		{0, 2, 1},
		{1, 2, 0},
	}
	if got := col.Evaluate(); got != WinO {
		t.Errorf("column: expected WIN_O, got %s", got)
	}

	anti := Board{
		{2, 0, 1},
		{2, 1, 0},
		{1, 0, 0},
	}
	if got := anti.Evaluate(); got != WinX {
		t.Errorf("anti-diagonal: expected WIN_X, got %s", got)
	}

	diag := Board{
		{2, 1, 1},
		{0, 2, 0},
		{1, 0, 2},
	}
	if got := diag.Evaluate(); got != WinO {
		t.Errorf("diagonal: expected WIN_O, got %s", got)
	}
}

func TestWinOnFullBoardBeatsDraw(t *testing.T) {
	// The last X completes the main diagonal and fills the board.
	b := Board{
		{1, 2, 1},
		{2, 1, 2},
		{2, 1, 1},
	}
	if got := b.Evaluate(); got != WinX {
		t.Errorf("expected WIN_X on a full board, got %s", got)
	}
}

func TestPlaceRejectsOccupiedCell(t *testing.T) {
	var b Board
	if !b.Place(Pos{1, 1}, PlayerX) {
		t.Fatalf("expected first placement to succeed")
	}
	if b.Place(Pos{1, 1}, PlayerO) {
		t.Errorf("expected placement on occupied cell to fail")
	}
	if b.At(Pos{1, 1}) != PlayerX {
		t.Errorf("occupied cell was overwritten")
	}
	if len(b.EmptyCells()) != 8 {
		t.Errorf("expected 8 empty cells, got %d", len(b.EmptyCells()))
	}
}

func TestReadOnlyMethodsOnCopies(t *testing.T) {
	get := func() Board { return Board{{1, 2, 0}} }

	if n := len(get().EmptyCells()); n != 7 {
		t.Errorf("expected 7 empty cells, got %d", n)
	}
	if get().At(Pos{0, 1}) != PlayerO {
		t.Errorf("expected O at 0,1")
	}
	if get().Full() || get().Evaluate() != InProgress {
		t.Errorf("expected an open board")
	}
}
