package soak

import (
	"fmt"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/domain/board"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/domain/rules"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/engine"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/events"
)

// CheckJournal replays a session's journal and verifies it is internally
// consistent: every decay removed decay points, every action's after-state
// is its before-state with the action's effect applied, and every fully
// retained game alternates marks on empty cells and ends with a matching result.
func CheckJournal(history []events.DeviceEvent, decay int) error {
	var (
		inGame bool
		b      board.Board
		moves  int
		fired  int64
	)

	for _, ev := range history {
		switch pl := ev.Payload.(type) {
		case engine.DecayPayload:
			if pl.Amount != decay {
				return fmt.Errorf("decay #%d removed %d, expected %d", pl.Firing, pl.Amount, decay)
			}
			if pl.Firing <= fired {
				return fmt.Errorf("decay firing %d after %d", pl.Firing, fired)
			}
			fired = pl.Firing
			if err := checkRange(fmt.Sprintf("decay #%d", pl.Firing), pl.Needs); err != nil {
				return err
			}

		case engine.ActionPayload:
			effect, err := effectOf(pl)
			if err != nil {
				return err
			}
			want := pl.Before
			effect.Apply(&want)
			if want != pl.After {
				return fmt.Errorf("%s %s: expected %+v, got %+v", pl.Action, pl.Detail, want, pl.After)
			}
			if err := checkRange(pl.Action, pl.After); err != nil {
				return err
			}

		case engine.GameMovePayload:
			if !inGame {
				continue
			}
			moves++
			wantMark := board.PlayerX
			if moves%2 == 0 {
				wantMark = board.PlayerO
			}
			if pl.Mark != wantMark.String() {
				return fmt.Errorf("move %d: expected %s to play, got %s", moves, wantMark, pl.Mark)
			}
			if pl.Move != moves {
				return fmt.Errorf("move %d journaled as %d", moves, pl.Move)
			}
			if !b.Place(board.Pos{Row: pl.Row, Col: pl.Col}, wantMark) {
				return fmt.Errorf("move %d: cell (%d,%d) already taken", moves, pl.Row, pl.Col)
			}
			if moves > board.Size*board.Size {
				return fmt.Errorf("game ran past %d moves", board.Size*board.Size)
			}

		case engine.GameResultPayload:
			if !inGame {
				continue
			}
			if pl.Moves != moves {
				return fmt.Errorf("result after %d moves, journal has %d", pl.Moves, moves)
			}
			if got := b.Evaluate().String(); got != pl.Outcome {
				return fmt.Errorf("result %s, board says %s", pl.Outcome, got)
			}
			inGame = false

		default:
			if ev.Type == events.EventTypeGameStarted {
				if inGame {
					return fmt.Errorf("game started before the previous one finished")
				}
				inGame, b, moves = true, board.Board{}, 0
			}
		}
	}
	return nil
}

func effectOf(pl engine.ActionPayload) (rules.Effect, error) {
	switch pl.Action {
	case rules.ActionFeed.String():
		for _, f := range rules.Foods {
			if f.Name == pl.Detail {
				return f.Effect, nil
			}
		}
		return nil, fmt.Errorf("unknown food %q", pl.Detail)
	case rules.ActionWash.String():
		return rules.WashEffect, nil
	case rules.ActionSleep.String():
		return rules.SleepEffect, nil
	case rules.ActionPlay.String():
		return rules.PlayEffect(pl.Detail == "won"), nil
	}
	return nil, fmt.Errorf("unknown action %q", pl.Action)
}
