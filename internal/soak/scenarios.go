package soak

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/display"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/domain/pet"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/domain/rules"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/engine"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/config"
)

// DefaultScenarios is the suite the soak runner executes.
func DefaultScenarios() []Scenario {
	return []Scenario{
		Neglect(),
		CareRoutine(24),
		Marathon(10),
		InputStorm(600),
	}
}

// Neglect leaves Bob alone on the hardest difficulty until every counter
// bottoms out, then checks the floor holds and the face is sad.
func Neglect() Scenario {
	return Scenario{
		Name:        "neglect",
		Description: "no care at all on Dificil; counters must floor at zero",
		Tweak: func(c *config.Config) {
			c.DecayInterval = 2 * time.Millisecond
		},
		Run: func(ctx context.Context, r *Rig) error {
			hard := len(rules.Difficulties) - 1
			if err := r.Player.SelectDifficulty(ctx, hard); err != nil {
				return err
			}

			want := rules.DecayAmount(r.Config.BaseDecay, rules.Difficulties[hard].Multiplier)
			if got := r.Engine.Scheduler().Amount(); got != want {
				return fmt.Errorf("decay amount %d, expected %d", got, want)
			}

			err := r.Player.await(ctx, "counters to reach zero", func() bool {
				return r.Engine.Needs() == pet.Needs{}
			})
			if err != nil {
				return err
			}

			fired := r.Engine.Scheduler().Firings()
			err = r.Player.await(ctx, "more decay at the floor", func() bool {
				return r.Engine.Scheduler().Firings() >= fired+3
			})
			if err != nil {
				return err
			}
			if n := r.Engine.Needs(); n != (pet.Needs{}) {
				return fmt.Errorf("counters rose without care: %+v", n)
			}

			sad := display.FaceFrame(rules.FaceSad)
			return r.Player.await(ctx, "sad face", func() bool {
				return r.Panel.Frame() == sad
			})
		},
	}
}

// CareRoutine performs random feed, wash and sleep actions while decay runs
// fast beside the loop.
func CareRoutine(rounds int) Scenario {
	return Scenario{
		Name:        "care-routine",
		Description: fmt.Sprintf("%d random care actions racing a fast decay", rounds),
		Tweak: func(c *config.Config) {
			c.DecayInterval = 3 * time.Millisecond
		},
		Run: func(ctx context.Context, r *Rig) error {
			if err := r.Player.SelectDifficulty(ctx, rules.DefaultDifficulty); err != nil {
				return err
			}

			care := []rules.Action{rules.ActionFeed, rules.ActionWash, rules.ActionSleep}
			counts := map[string]int64{}
			for i := 0; i < rounds; i++ {
				a := care[r.Player.rng.Intn(len(care))]
				food := r.Player.rng.Intn(len(rules.Foods))

				pl, err := r.Player.Perform(ctx, a, food)
				if err != nil {
					return fmt.Errorf("round %d: %w", i, err)
				}
				if pl.Action != a.String() {
					return fmt.Errorf("round %d: asked for %s, device did %s", i, a, pl.Action)
				}
				if a == rules.ActionFeed && pl.Detail != rules.Foods[food].Name {
					return fmt.Errorf("round %d: asked for %s, device served %s", i, rules.Foods[food].Name, pl.Detail)
				}
				counts[a.String()]++
			}

			checks := map[string]*int64{
				rules.ActionFeed.String():  &r.Metrics.ActionsFeed,
				rules.ActionWash.String():  &r.Metrics.ActionsWash,
				rules.ActionSleep.String(): &r.Metrics.ActionsSleep,
			}
			for name, field := range checks {
				if got := atomic.LoadInt64(field); got != counts[name] {
					return fmt.Errorf("%s counted %d times, performed %d", name, got, counts[name])
				}
			}
			return nil
		},
	}
}

// Marathon plays games back to back with a random but legal human.
func Marathon(games int) Scenario {
	return Scenario{
		Name:        "tic-tac-toe-marathon",
		Description: fmt.Sprintf("%d games in a row against Bob", games),
		Tweak: func(c *config.Config) {
			c.DecayInterval = time.Hour
		},
		Run: func(ctx context.Context, r *Rig) error {
			if err := r.Player.SelectDifficulty(ctx, 0); err != nil {
				return err
			}

			var won, lost, drawn int64
			for i := 0; i < games; i++ {
				res, err := r.Player.PlayGame(ctx)
				if err != nil {
					return fmt.Errorf("game %d: %w", i, err)
				}
				switch res.Outcome {
				case "WIN_X":
					won++
				case "WIN_O":
					lost++
				case "DRAW":
					drawn++
				default:
					return fmt.Errorf("game %d ended as %q", i, res.Outcome)
				}
			}

			if got := atomic.LoadInt64(&r.Metrics.GamesWon); got != won {
				return fmt.Errorf("games won: metrics %d, played %d", got, won)
			}
			if got := atomic.LoadInt64(&r.Metrics.GamesLost); got != lost {
				return fmt.Errorf("games lost: metrics %d, played %d", got, lost)
			}
			if got := atomic.LoadInt64(&r.Metrics.GamesDrawn); got != drawn {
				return fmt.Errorf("games drawn: metrics %d, played %d", got, drawn)
			}
			if got := atomic.LoadInt64(&r.Metrics.ActionsPlay); got != int64(games) {
				return fmt.Errorf("play actions: metrics %d, played %d", got, games)
			}
			return nil
		},
	}
}

// InputStorm throws random stick and button noise at every screen.
func InputStorm(samples int) Scenario {
	return Scenario{
		Name:        "input-storm",
		Description: fmt.Sprintf("%d random joystick samples across every screen", samples),
		Tweak: func(c *config.Config) {
			c.DecayInterval = 5 * time.Millisecond
		},
		Run: func(ctx context.Context, r *Rig) error {
			if err := r.Player.Storm(ctx, samples); err != nil {
				return err
			}
			if !r.Alive() {
				return fmt.Errorf("engine loop exited during the storm")
			}

			switch m := r.Engine.Mode(); m {
			case engine.ModeBoot, engine.ModeDifficulty, engine.ModeMenu, engine.ModeFood, engine.ModeGame, engine.ModeMessage:
			default:
				return fmt.Errorf("engine in unknown mode %q", m)
			}
			if atomic.LoadInt64(&r.Metrics.InputEvents) == 0 {
				return fmt.Errorf("no input events decoded from %d samples", samples)
			}
			return nil
		},
	}
}
