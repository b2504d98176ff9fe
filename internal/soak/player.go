package soak

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/domain/board"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/domain/rules"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/engine"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/events"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/hal/virtual"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/input"
)

// Player drives a running engine through the virtual panel the way a person
// would. It never peeks at engine internals beyond the public accessors and
// learns what happened from the journal.
type Player struct {
	panel   *virtual.Panel
	engine  *engine.Engine
	log     *events.EventLog
	rng     *rand.Rand
	timeout time.Duration
	cursor  board.Pos
}

// NewPlayer binds a player to an engine and the panel it runs on.
func NewPlayer(panel *virtual.Panel, eng *engine.Engine, rng *rand.Rand) *Player {
	return &Player{
		panel:   panel,
		engine:  eng,
		log:     eng.EventLog(),
		rng:     rng,
		timeout: 5 * time.Second,
	}
}

// SetTimeout bounds every wait the player does.
func (p *Player) SetTimeout(d time.Duration) {
	p.timeout = d
}

// SelectDifficulty answers the power-up prompt with rules.Difficulties[idx].
func (p *Player) SelectDifficulty(ctx context.Context, idx int) error {
	if err := p.await(ctx, "difficulty prompt", p.idle(engine.ModeDifficulty)); err != nil {
		return err
	}
	from := p.head()

	n := len(rules.Difficulties)
	p.taps(input.Right, ((idx-rules.DefaultDifficulty)%n+n)%n)
	p.panel.Press()

	if _, err := p.next(ctx, from, events.EventTypeDifficultySelected); err != nil {
		return err
	}
	return p.await(ctx, "action menu", func() bool { return p.engine.Mode() == engine.ModeMenu })
}

// Perform runs one care action. food picks the dish when a is ActionFeed.
// Play is handled by PlayGame.
func (p *Player) Perform(ctx context.Context, a rules.Action, food int) (engine.ActionPayload, error) {
	if a == rules.ActionPlay {
		return engine.ActionPayload{}, fmt.Errorf("soak: use PlayGame for %s", a)
	}
	from, err := p.choose(ctx, a)
	if err != nil {
		return engine.ActionPayload{}, err
	}
	if a == rules.ActionFeed {
		p.taps(input.Right, food)
		p.panel.Press()
	}

	ev, err := p.next(ctx, from, events.EventTypeAction)
	if err != nil {
		return engine.ActionPayload{}, err
	}
	payload, _ := ev.Payload.(engine.ActionPayload)
	return payload, nil
}

// PlayGame starts a round from the action menu and plays random empty
// cells until the journal reports a result.
func (p *Player) PlayGame(ctx context.Context) (engine.GameResultPayload, error) {
	var none engine.GameResultPayload

	from, err := p.choose(ctx, rules.ActionPlay)
	if err != nil {
		return none, err
	}
	start, err := p.next(ctx, from, events.EventTypeGameStarted)
	if err != nil {
		return none, err
	}
	p.cursor = board.Pos{}

	for {
		var (
			result *engine.GameResultPayload
			moves  []engine.GameMovePayload
		)
		err := p.await(ctx, "human turn", func() bool {
			result, moves = p.round(start.Seq)
			return result != nil || len(moves)%2 == 0
		})
		if err != nil {
			return none, err
		}
		if result != nil {
			if _, err := p.next(ctx, start.Seq, events.EventTypeAction); err != nil {
				return none, err
			}
			return *result, nil
		}

		target, ok := p.pick(moves)
		if !ok {
			return none, fmt.Errorf("soak: no empty cell after %d moves and no result", len(moves))
		}
		p.taps(input.Right, (target.Col-p.cursor.Col+board.Size)%board.Size)
		p.taps(input.Down, (target.Row-p.cursor.Row+board.Size)%board.Size)
		p.panel.Press()
		p.cursor = target

		played := len(moves)
		err = p.await(ctx, "move to register", func() bool {
			r, m := p.round(start.Seq)
			return r != nil || len(m) > played
		})
		if err != nil {
			return none, err
		}
	}
}

// Storm feeds n random stick and button samples and waits until they are read.
func (p *Player) Storm(ctx context.Context, n int) error {
	samples := make([]input.Sample, n)
	for i := range samples {
		samples[i] = input.Sample{
			X:       uint16(p.rng.Intn(4096)),
			Y:       uint16(p.rng.Intn(4096)),
			Pressed: p.rng.Intn(5) == 0,
		}
	}
	p.panel.Queue(samples...)
	p.panel.Queue(virtual.Centered())
	return p.await(ctx, "storm to drain", func() bool { return p.panel.Pending() == 0 })
}

// choose moves the action cursor onto a and presses. It returns the journal
// head from before the press.
func (p *Player) choose(ctx context.Context, a rules.Action) (int, error) {
	if err := p.await(ctx, "action menu", p.idle(engine.ModeMenu)); err != nil {
		return 0, err
	}
	from := p.head()

	n := len(rules.Actions)
	p.taps(input.Right, (int(a)-int(p.engine.Selected())+n)%n)
	p.panel.Press()
	return from, nil
}

// round reads the moves and result journaled since the game started.
func (p *Player) round(startSeq int) (*engine.GameResultPayload, []engine.GameMovePayload) {
	var moves []engine.GameMovePayload
	for _, ev := range p.log.Since(startSeq + 1) {
		switch pl := ev.Payload.(type) {
		case engine.GameMovePayload:
			moves = append(moves, pl)
		case engine.GameResultPayload:
			return &pl, moves
		}
	}
	return nil, moves
}

func (p *Player) pick(moves []engine.GameMovePayload) (board.Pos, bool) {
	var b board.Board
	for _, m := range moves {
		mark := board.PlayerX
		if m.Mark == board.PlayerO.String() {
			mark = board.PlayerO
		}
		b.Place(board.Pos{Row: m.Row, Col: m.Col}, mark)
	}
	empty := b.EmptyCells()
	if len(empty) == 0 {
		return board.Pos{}, false
	}
	return empty[p.rng.Intn(len(empty))], true
}

func (p *Player) taps(ev input.Event, n int) {
	for i := 0; i < n; i++ {
		p.panel.Tap(ev)
	}
}

// idle holds once the script is drained and the engine waits in mode. The
// last sample of every script is a centered one, so a sample popped but not
// yet handled cannot move a cursor.
func (p *Player) idle(mode engine.Mode) func() bool {
	return func() bool {
		return p.panel.Pending() == 0 && p.engine.Mode() == mode
	}
}

func (p *Player) head() int {
	all := p.log.Replay()
	if len(all) == 0 {
		return -1
	}
	return all[len(all)-1].Seq
}

// next waits for the first event of type t journaled after seq.
func (p *Player) next(ctx context.Context, seq int, t events.EventType) (events.DeviceEvent, error) {
	var found events.DeviceEvent
	err := p.await(ctx, string(t), func() bool {
		for _, ev := range p.log.Since(seq + 1) {
			if ev.Type == t {
				found = ev
				return true
			}
		}
		return false
	})
	return found, err
}

func (p *Player) await(ctx context.Context, what string, cond func() bool) error {
	deadline := time.Now().Add(p.timeout)
	for !cond() {
		if time.Now().After(deadline) {
			return fmt.Errorf("soak: timed out waiting for %s", what)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
	return nil
}
