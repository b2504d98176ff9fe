package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/display"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/domain/rules"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/events"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/hal/virtual"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/input"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/config"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/logger"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/metrics"
)

type session struct {
	engine  *Engine
	panel   *virtual.Panel
	log     *events.EventLog
	metrics *metrics.Collector
	cancel  context.CancelFunc
	done    chan error
}

// startSession runs an engine on a virtual panel with every pause removed.
func startSession(t *testing.T, tweak func(*config.Config)) *session {
	t.Helper()

	cfg := config.FastConfig()
	cfg.DecayInterval = time.Hour
	if tweak != nil {
		tweak(cfg)
	}

	p := virtual.New()
	log := events.NewEventLog(0)
	e := NewEngine(p.HAL(), cfg, log, logger.Discard())
	c := metrics.NewCollector()
	e.SetMetrics(c)

	ctx, cancel := context.WithCancel(context.Background())
	s := &session{engine: e, panel: p, log: log, metrics: c, cancel: cancel, done: make(chan error, 1)}
	go func() { s.done <- e.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case <-s.done:
		case <-time.After(2 * time.Second):
			t.Errorf("engine did not stop")
		}
	})
	return s
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestDifficultyMenuDefaultsToNormal(t *testing.T) {
	s := startSession(t, nil)

	waitFor(t, "difficulty prompt", func() bool {
		lines := s.panel.Lines()
		return len(lines) == 2 && lines[0] == "Dificuldade:"
	})
	if got := s.panel.Lines()[1]; got != "Normal" {
		t.Errorf("expected Normal preselected, got %q", got)
	}
	if s.engine.Mode() != ModeDifficulty {
		t.Errorf("expected mode %s, got %s", ModeDifficulty, s.engine.Mode())
	}
}

func TestSelectHardDifficulty(t *testing.T) {
	// Setup
	s := startSession(t, nil)

	// Act
	s.panel.Tap(input.Right)
	s.panel.Press()
	waitFor(t, "action menu", func() bool { return s.engine.Mode() == ModeMenu })

	// Assert
	if d := s.engine.Difficulty(); d.Name != "Dificil" {
		t.Errorf("expected Dificil, got %s", d.Name)
	}
	if amount := s.engine.Scheduler().Amount(); amount != 7 {
		t.Errorf("expected decay 7 on Dificil, got %d", amount)
	}
	selected := s.log.ByType(events.EventTypeDifficultySelected)
	if len(selected) != 1 {
		t.Fatalf("expected one DIFFICULTY_SELECTED event, got %d", len(selected))
	}
	if p := selected[0].Payload.(DifficultyPayload); p.Multiplier != 1.5 {
		t.Errorf("unexpected payload %+v", p)
	}

	tones := s.panel.Tones()
	if len(tones) < 2 || tones[0].Hz != 650 || tones[1].Hz != 750 {
		t.Errorf("expected menu tone then confirm tone, got %+v", tones)
	}
}

func TestStatusScreenAndFace(t *testing.T) {
	s := startSession(t, nil)
	s.panel.Press()

	waitFor(t, "status screen", func() bool {
		lines := s.panel.Lines()
		return len(lines) == 6 && lines[0] == "Acao: Alimentar"
	})

	lines := s.panel.Lines()
	if lines[2] != "Fome:75 Hig:75" || lines[3] != "Ener:75 Div:75" {
		t.Errorf("unexpected counters %q / %q", lines[2], lines[3])
	}
	if lines[5] != "Prox: 3599 s" && lines[5] != "Prox: 3600 s" {
		t.Errorf("unexpected countdown %q", lines[5])
	}
	waitFor(t, "happy face", func() bool {
		return s.panel.Frame() == display.FaceFrame(rules.FaceHappy)
	})
}

func TestWashFromActionMenu(t *testing.T) {
	s := startSession(t, nil)

	s.panel.Press()          // Normal
	s.panel.Tap(input.Right) // Banho
	s.panel.Press()

	waitFor(t, "wash", func() bool { return len(s.log.ByType(events.EventTypeAction)) == 1 })

	p := s.log.ByType(events.EventTypeAction)[0].Payload.(ActionPayload)
	if p.Action != "WASH" {
		t.Errorf("expected WASH, got %s", p.Action)
	}
	if n := s.engine.Needs(); n.Hygiene != 100 || n.Fun != 70 {
		t.Errorf("unexpected needs after wash %+v", n)
	}
	waitFor(t, "menu after wash", func() bool {
		lines := s.panel.Lines()
		return len(lines) == 6 && lines[0] == "Acao: Banho"
	})
}

func TestFeedThroughFoodMenu(t *testing.T) {
	s := startSession(t, nil)

	s.panel.Press()          // Normal
	s.panel.Press()          // Alimentar
	s.panel.Tap(input.Right) // Petisco
	s.panel.Press()

	waitFor(t, "feed", func() bool { return len(s.log.ByType(events.EventTypeAction)) == 1 })

	p := s.log.ByType(events.EventTypeAction)[0].Payload.(ActionPayload)
	if p.Action != "FEED" || p.Detail != "Petisco" {
		t.Errorf("unexpected payload %+v", p)
	}
	if n := s.engine.Needs(); n.Hunger != 85 || n.Energy != 75 {
		t.Errorf("unexpected needs after snack %+v", n)
	}
}

func TestLeftWrapsToPlayAndGameFinishes(t *testing.T) {
	// Setup
	s := startSession(t, nil)
	s.panel.Press()         // Normal
	s.panel.Tap(input.Left) // wraps to Brincar
	s.panel.Press()

	// Act: visit every cell row by row and press on each.
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			s.panel.Press()
			s.panel.Tap(input.Right)
		}
		s.panel.Tap(input.Down)
	}

	// Assert
	waitFor(t, "game result", func() bool { return len(s.log.ByType(events.EventTypeGameResult)) >= 1 })
	waitFor(t, "play action", func() bool {
		for _, ev := range s.log.ByType(events.EventTypeAction) {
			if ev.Payload.(ActionPayload).Action == "PLAY" {
				return true
			}
		}
		return false
	})

	if len(s.log.ByType(events.EventTypeGameStarted)) < 1 {
		t.Errorf("expected GAME_STARTED")
	}

	moves := s.log.ByType(events.EventTypeGameMove)
	if len(moves) < 5 {
		t.Fatalf("a game needs at least 5 moves, got %d", len(moves))
	}
	for i, ev := range moves[:5] {
		mark := ev.Payload.(GameMovePayload).Mark
		want := "X"
		if i%2 == 1 {
			want = "O"
		}
		if mark != want {
			t.Errorf("move %d: expected %s, got %s", i, want, mark)
		}
	}

	result := s.log.ByType(events.EventTypeGameResult)[0].Payload.(GameResultPayload)
	var play ActionPayload
	for _, ev := range s.log.ByType(events.EventTypeAction) {
		if p := ev.Payload.(ActionPayload); p.Action == "PLAY" {
			play = p
			break
		}
	}
	wantFun := play.Before.Fun + 10
	if result.Outcome == "WIN_X" {
		wantFun = play.Before.Fun + 20
	}
	if play.After.Fun != wantFun {
		t.Errorf("outcome %s: expected fun %d, got %d", result.Outcome, wantFun, play.After.Fun)
	}
	if play.After.Energy != play.Before.Energy-10 {
		t.Errorf("expected game to cost 10 energy, got %d -> %d", play.Before.Energy, play.After.Energy)
	}

	won := atomic.LoadInt64(&s.metrics.GamesWon)
	lost := atomic.LoadInt64(&s.metrics.GamesLost)
	drawn := atomic.LoadInt64(&s.metrics.GamesDrawn)
	if won+lost+drawn < 1 {
		t.Errorf("expected a recorded game")
	}
}

func TestDecayRunsBesideForegroundLoop(t *testing.T) {
	s := startSession(t, func(c *config.Config) { c.DecayInterval = 10 * time.Millisecond })
	s.panel.Press()

	waitFor(t, "two decays", func() bool { return s.engine.Scheduler().Firings() >= 2 })

	if n := s.engine.Needs(); n.Hunger > 65 {
		t.Errorf("expected hunger at most 65 after two firings, got %d", n.Hunger)
	}
	if len(s.log.ByType(events.EventTypeDecay)) < 2 {
		t.Errorf("expected DECAY events in the journal")
	}
}

func TestFlushFailuresDoNotStopTheLoop(t *testing.T) {
	s := startSession(t, nil)
	s.panel.FailFlushes(5)

	s.panel.Press()
	s.panel.Tap(input.Right)
	s.panel.Tap(input.Right) // Dormir
	s.panel.Press()

	waitFor(t, "sleep", func() bool { return len(s.log.ByType(events.EventTypeAction)) == 1 })

	if n := s.engine.Needs(); n.Energy != 100 {
		t.Errorf("expected energy 100 after sleep, got %d", n.Energy)
	}
	if n := atomic.LoadInt64(&s.metrics.FlushErrors); n < 5 {
		t.Errorf("expected 5 flush errors counted, got %d", n)
	}
}

func TestRunReturnsOnCancel(t *testing.T) {
	s := startSession(t, nil)
	waitFor(t, "difficulty menu", func() bool { return s.engine.Mode() == ModeDifficulty })

	s.cancel()

	select {
	case err := <-s.done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		s.done <- err
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return")
	}
}
