package engine

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/display"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/domain/board"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/domain/pet"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/domain/rules"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/events"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/hal"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/input"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/menu"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/config"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/logger"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/metrics"
)

// Mode is what the foreground loop is currently waiting on.
type Mode string

const (
	ModeBoot       Mode = "BOOT"
	ModeDifficulty Mode = "DIFFICULTY"
	ModeMenu       Mode = "MENU"
	ModeFood       Mode = "FOOD"
	ModeGame       Mode = "GAME"
	ModeMessage    Mode = "MESSAGE"
)

// Game result messages.
const (
	MsgGameIntro = "Jogo da Velha!\nSua vez"
	MsgHumanWon  = "Voce venceu!"
	MsgBobWon    = "Bob venceu!"
	MsgDraw      = "Empate!"
)

// DifficultyPayload is attached to the DIFFICULTY_SELECTED event.
type DifficultyPayload struct {
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
	Decay      int     `json:"decay"`
}

// GameMovePayload is attached to each GAME_MOVE event.
type GameMovePayload struct {
	Mark string `json:"mark"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Move int    `json:"move"`
}

// GameResultPayload is attached to the GAME_RESULT event.
type GameResultPayload struct {
	Outcome string `json:"outcome"`
	Moves   int    `json:"moves"`
}

// Engine is the foreground control loop. It owns every state machine and
// drives the panel; the decay scheduler runs beside it in its own goroutine.
type Engine struct {
	cfg      *config.Config
	panel    hal.Panel
	eventLog *events.EventLog
	logger   *logger.Logger
	metrics  *metrics.Collector

	vitals    *Vitals
	scheduler *DecayScheduler
	care      *CareSystem
	feedback  *Feedback
	debouncer *input.Debouncer
	actions   *menu.Menu
	rng       *rand.Rand
	now       func() time.Time

	mu         sync.RWMutex
	mode       Mode
	difficulty rules.Difficulty
	face       rules.Face
	selected   rules.Action
}

// NewEngine wires the subsystems around one panel.
func NewEngine(panel hal.Panel, cfg *config.Config, eventLog *events.EventLog, log *logger.Logger) *Engine {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	vitals := NewVitals()
	scheduler := NewDecayScheduler(vitals, eventLog, log, cfg.DecayInterval)
	scheduler.SetBase(cfg.BaseDecay)

	return &Engine{
		cfg:      cfg,
		panel:    panel,
		eventLog: eventLog,
		logger:   log,
		metrics:  metrics.Get(),

		vitals:    vitals,
		scheduler: scheduler,
		care:      NewCareSystem(vitals, eventLog, log),
		feedback:  NewFeedback(panel.Buzzer, cfg.ToneGap, cfg.ToneRests),
		debouncer: input.NewDebouncer(input.Thresholds{Lower: cfg.AxisLower, Upper: cfg.AxisUpper}),
		actions:   menu.New("", rules.ActionNames(), 0),
		rng:       rand.New(rand.NewSource(seed)),
		now:       time.Now,

		mode:       ModeBoot,
		difficulty: rules.Difficulties[rules.DefaultDifficulty],
		face:       rules.FaceHappy,
	}
}

// SetMetrics redirects every counter of the engine and its subsystems.
func (e *Engine) SetMetrics(c *metrics.Collector) {
	e.metrics = c
	e.scheduler.SetMetrics(c)
	e.care.metrics = c
}

func (e *Engine) Vitals() *Vitals { return e.vitals }

func (e *Engine) Scheduler() *DecayScheduler { return e.scheduler }

func (e *Engine) EventLog() *events.EventLog { return e.eventLog }

// Needs is a consistent copy of the counters.
func (e *Engine) Needs() pet.Needs {
	return e.vitals.Snapshot()
}

// LastDecay is when the scheduler last fired (or started).
func (e *Engine) LastDecay() time.Time {
	return e.scheduler.LastFired()
}

// Selected is the action under the menu cursor.
func (e *Engine) Selected() rules.Action {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.selected
}

// Mode reports what the loop is waiting on.
func (e *Engine) Mode() Mode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mode
}

// Difficulty is the selected difficulty (Normal until the menu is confirmed).
func (e *Engine) Difficulty() rules.Difficulty {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.difficulty
}

func (e *Engine) setMode(m Mode) {
	e.mu.Lock()
	e.mode = m
	e.mu.Unlock()
}

// Run asks for the difficulty, starts the decay scheduler and then loops
// forever on the action menu. It returns ctx.Err() once ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("Bob is waking up")

	if err := e.selectDifficulty(ctx); err != nil {
		return err
	}

	go e.scheduler.Start(ctx)
	defer e.scheduler.Stop()

	for {
		if err := e.tick(ctx); err != nil {
			e.logger.Info("foreground loop stopped", "reason", err.Error())
			return err
		}
	}
}

// tick is one iteration of the action menu loop.
func (e *Engine) tick(ctx context.Context) error {
	e.setMode(ModeMenu)
	e.render()

	for _, ev := range e.poll() {
		switch e.actions.Handle(ev) {
		case menu.Moved:
			e.mu.Lock()
			e.selected = rules.Actions[e.actions.Index()]
			e.mu.Unlock()
			e.feedback.Play(ToneMenuMove)
			e.render()
		case menu.Confirmed:
			e.feedback.Play(ToneConfirm)
			if err := e.dispatch(ctx, rules.Actions[e.actions.Index()]); err != nil {
				return err
			}
			// Whatever else was sampled belongs to the screen we just left.
			return e.pause(ctx, e.cfg.ActionPause)
		}
	}

	return e.pause(ctx, e.cfg.PollInterval)
}

func (e *Engine) selectDifficulty(ctx context.Context) error {
	names := make([]string, len(rules.Difficulties))
	for i, d := range rules.Difficulties {
		names[i] = d.Name
	}

	idx, err := e.choose(ctx, menu.New("Dificuldade", names, rules.DefaultDifficulty), ModeDifficulty)
	if err != nil {
		return err
	}

	d := rules.Difficulties[idx]
	e.mu.Lock()
	e.difficulty = d
	e.mu.Unlock()
	e.scheduler.SetMultiplier(d.Multiplier)

	e.eventLog.Append(events.EventTypeDifficultySelected, events.ActorPlayer, DifficultyPayload{
		Name:       d.Name,
		Multiplier: d.Multiplier,
		Decay:      e.scheduler.Amount(),
	})
	e.logger.Info("difficulty selected", "name", d.Name, "multiplier", d.Multiplier, "decay", e.scheduler.Amount())

	return e.showMessage(ctx, "Dificuldade: "+d.Name)
}

// choose runs a sub-menu until the button confirms a selection.
func (e *Engine) choose(ctx context.Context, m *menu.Menu, mode Mode) (int, error) {
	e.setMode(mode)
	dirty := true

	for {
		if dirty {
			e.showLines(display.MessageLines(m.Prompt(), display.LineWidth))
			dirty = false
		}
		for _, ev := range e.poll() {
			switch m.Handle(ev) {
			case menu.Moved:
				e.feedback.Play(ToneMenuMove)
				dirty = true
			case menu.Confirmed:
				e.feedback.Play(ToneConfirm)
				return m.Index(), nil
			}
		}
		if err := e.pause(ctx, e.cfg.MenuPoll); err != nil {
			return 0, err
		}
	}
}

func (e *Engine) dispatch(ctx context.Context, a rules.Action) error {
	e.logger.Info("action confirmed", "action", a.String())

	switch a {
	case rules.ActionFeed:
		names := make([]string, len(rules.Foods))
		for i, f := range rules.Foods {
			names[i] = f.Name
		}
		idx, err := e.choose(ctx, menu.New("Alimentar", names, 0), ModeFood)
		if err != nil {
			return err
		}
		e.care.Feed(idx)
	case rules.ActionWash:
		e.care.Wash()
	case rules.ActionSleep:
		e.care.Sleep()
	case rules.ActionPlay:
		won, err := e.playGame(ctx)
		if err != nil {
			return err
		}
		e.care.Play(won)
	}

	if err := e.showMessage(ctx, a.Message()); err != nil {
		return err
	}
	e.feedback.Play(JingleSuccess)
	return nil
}

// playGame runs one round of tic-tac-toe and reports whether the human won.
func (e *Engine) playGame(ctx context.Context) (bool, error) {
	g := NewGame(e.rng)
	e.eventLog.Append(events.EventTypeGameStarted, events.ActorPlayer, nil)

	if err := e.showMessage(ctx, MsgGameIntro); err != nil {
		return false, err
	}
	e.setMode(ModeGame)

	for !g.State().Terminal() {
		e.drawFrame(display.BoardFrame(g.Board(), g.Cursor(), g.State() == HumanTurn))

		switch g.State() {
		case HumanTurn:
			for _, ev := range e.poll() {
				cursor := g.Cursor()
				switch g.Handle(ev) {
				case StepCursor:
					e.feedback.Play(ToneMenuMove)
					if err := e.pause(ctx, e.cfg.ActionPause); err != nil {
						return false, err
					}
				case StepPlaced:
					e.recordMove(g, board.PlayerX, cursor, events.ActorPlayer)
					if !g.State().Terminal() {
						if err := e.pause(ctx, e.cfg.ActionPause); err != nil {
							return false, err
						}
					}
				}
			}
		case AiTurn:
			if p, ok := g.AiMove(); ok {
				e.recordMove(g, board.PlayerO, p, events.ActorBob)
			}
			if err := e.pause(ctx, e.cfg.AIThinkTime); err != nil {
				return false, err
			}
		}

		if err := e.pause(ctx, e.cfg.PollInterval); err != nil {
			return false, err
		}
	}

	e.drawFrame(display.BoardFrame(g.Board(), g.Cursor(), false))
	return e.finishGame(ctx, g)
}

func (e *Engine) recordMove(g *Game, m board.Mark, p board.Pos, actor string) {
	e.eventLog.Append(events.EventTypeGameMove, actor, GameMovePayload{
		Mark: m.String(),
		Row:  p.Row,
		Col:  p.Col,
		Move: g.Moves(),
	})
	e.metrics.RecordMove()
}

// finishGame plays the flourish and the result message.
func (e *Engine) finishGame(ctx context.Context, g *Game) (bool, error) {
	outcome := g.Outcome()
	won := outcome == board.WinX
	draw := outcome == board.Draw

	e.eventLog.Append(events.EventTypeGameResult, events.ActorBob, GameResultPayload{
		Outcome: outcome.String(),
		Moves:   g.Moves(),
	})
	e.metrics.RecordGame(won, draw)
	e.logger.Info("game over", "outcome", outcome.String(), "moves", g.Moves())

	flash, msg, jingle := display.DrawColor, MsgDraw, []Tone(nil)
	switch {
	case won:
		flash, msg, jingle = display.WinColor(board.PlayerX), MsgHumanWon, JingleSuccess
	case !draw:
		flash, msg, jingle = display.WinColor(board.PlayerO), MsgBobWon, JingleFailure
	}

	if err := e.flourish(ctx, flash); err != nil {
		return false, err
	}
	if err := e.showMessage(ctx, msg); err != nil {
		return false, err
	}
	e.feedback.Play(jingle)
	return won, nil
}

// flourish flashes the board cells in c, keeping the lattice lit.
func (e *Engine) flourish(ctx context.Context, c display.Color) error {
	for i := 0; i < e.cfg.FlashCount; i++ {
		e.drawFrame(display.FillFrame(c))
		if err := e.pause(ctx, e.cfg.FlashHalfCycle); err != nil {
			return err
		}
		e.drawFrame(display.FillFrame(display.Off))
		if err := e.pause(ctx, e.cfg.FlashHalfCycle); err != nil {
			return err
		}
	}
	return nil
}

// render draws the face and the status screen from one snapshot.
func (e *Engine) render() {
	needs := e.vitals.Snapshot()
	face := rules.SelectFace(needs)

	e.mu.Lock()
	changed := face != e.face
	e.face = face
	e.mu.Unlock()
	if changed {
		e.logger.Info("face changed", "face", face.String())
	}

	e.drawFrame(display.FaceFrame(face))

	if e.panel.Display == nil {
		return
	}
	err := e.panel.Display.ShowStatus(display.Status{
		Action:    e.actions.Selected(),
		Needs:     needs,
		Remaining: e.scheduler.Remaining(e.now()),
	})
	if err != nil {
		e.logger.Warn("status refresh failed", "error", err)
	}
}

func (e *Engine) drawFrame(f display.Frame) {
	if e.panel.Pixels == nil {
		return
	}
	err := hal.DrawFrame(e.panel.Pixels, f)
	e.metrics.RecordFrame(err)
	if err != nil {
		e.logger.Warn("frame flush failed", "error", err)
	}
}

func (e *Engine) showLines(lines []string) {
	if e.panel.Display == nil {
		return
	}
	if err := e.panel.Display.ShowLines(lines); err != nil {
		e.logger.Warn("display refresh failed", "error", err)
	}
}

// showMessage puts msg on the display and holds it.
func (e *Engine) showMessage(ctx context.Context, msg string) error {
	prev := e.Mode()
	e.setMode(ModeMessage)
	e.showLines(display.MessageLines(msg, display.LineWidth))
	err := e.pause(ctx, e.cfg.MessageHold)
	e.setMode(prev)
	return err
}

// poll samples the inputs once and returns the edges they produced.
func (e *Engine) poll() []input.Event {
	if e.panel.Analog == nil || e.panel.Buttons == nil {
		return nil
	}
	evs := e.debouncer.Feed(input.Read(e.panel.Analog, e.panel.Buttons))
	for _, ev := range evs {
		e.metrics.RecordInput()
		e.logger.Debug("input", "event", ev.String())
	}
	return evs
}

// pause sleeps for d unless ctx ends first. A zero d only checks ctx.
func (e *Engine) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
