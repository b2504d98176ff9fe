package engine

import (
	"math/rand"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/domain/board"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/input"
)

// GameState is the turn state machine of a tic-tac-toe round.
type GameState uint8

const (
	HumanTurn GameState = iota
	AiTurn
	Won
	Draw
)

func (s GameState) String() string {
	switch s {
	case HumanTurn:
		return "HUMAN_TURN"
	case AiTurn:
		return "AI_TURN"
	case Won:
		return "WON"
	case Draw:
		return "DRAW"
	}
	return "UNKNOWN"
}

// Terminal reports whether the round is over.
func (s GameState) Terminal() bool {
	return s == Won || s == Draw
}

// Step tells the caller what an input did to the game.
type Step uint8

const (
	StepIgnored Step = iota
	StepCursor
	StepPlaced
)

// Game is one round: the human plays X, Bob plays O and picks a random empty cell.
// Bob never looks ahead.
type Game struct {
	board  board.Board
	cursor board.Pos
	state  GameState
	winner board.Mark
	moves  int
	rng    *rand.Rand
}

// NewGame starts on an empty board with the human to move.
func NewGame(rng *rand.Rand) *Game {
	return &Game{state: HumanTurn, rng: rng}
}

// Board returns a copy of the grid.
func (g *Game) Board() board.Board { return g.board }

func (g *Game) Cursor() board.Pos { return g.cursor }

func (g *Game) State() GameState { return g.state }

// Winner is the winning mark, Empty unless the state is Won.
func (g *Game) Winner() board.Mark { return g.winner }

// Moves counts marks placed by either side.
func (g *Game) Moves() int { return g.moves }

// Outcome evaluates the board.
func (g *Game) Outcome() board.Outcome { return g.board.Evaluate() }

// wrap keeps a cursor coordinate in [0, board.Size).
func wrap(v int) int {
	return ((v % board.Size) + board.Size) % board.Size
}

// Handle applies one input on the human's turn. Directions move the cursor
// with wrap-around; ButtonPressed places X on an empty cell. Anything else,
// including a press on an occupied cell, is ignored.
func (g *Game) Handle(ev input.Event) Step {
	if g.state != HumanTurn {
		return StepIgnored
	}

	switch ev {
	case input.Up:
		g.cursor.Row = wrap(g.cursor.Row - 1)
	case input.Down:
		g.cursor.Row = wrap(g.cursor.Row + 1)
	case input.Left:
		g.cursor.Col = wrap(g.cursor.Col - 1)
	case input.Right:
		g.cursor.Col = wrap(g.cursor.Col + 1)
	case input.ButtonPressed:
		if !g.board.Place(g.cursor, board.PlayerX) {
			return StepIgnored
		}
		g.moves++
		g.settle(AiTurn)
		return StepPlaced
	default:
		return StepIgnored
	}
	return StepCursor
}

// AiMove plays Bob's turn: a uniformly random empty cell.
func (g *Game) AiMove() (board.Pos, bool) {
	if g.state != AiTurn {
		return board.Pos{}, false
	}
	empty := g.board.EmptyCells()
	if len(empty) == 0 {
		g.settle(HumanTurn)
		return board.Pos{}, false
	}
	p := empty[g.rng.Intn(len(empty))]
	g.board.Place(p, board.PlayerO)
	g.moves++
	g.settle(HumanTurn)
	return p, true
}

// settle evaluates the board and moves to a terminal state or to next.
func (g *Game) settle(next GameState) {
	switch o := g.board.Evaluate(); o {
	case board.WinX, board.WinO:
		g.state = Won
		g.winner = o.Winner()
	case board.Draw:
		g.state = Draw
	default:
		g.state = next
	}
}
