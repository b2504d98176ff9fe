// Package soak runs scripted sessions against a full engine on the virtual
// panel and checks that Bob stays consistent under long or hostile use.
package soak

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/domain/pet"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/engine"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/events"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/hal/virtual"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/config"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/logger"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/metrics"
)

// Result captures the outcome of one scenario.
type Result struct {
	ScenarioName string
	Description  string
	Passed       bool
	Reason       string
	Elapsed      time.Duration
	Events       int
	Final        pet.Needs
}

// Scenario is one scripted session. Tweak adjusts the config before the
// engine is built; Run drives it and returns an error on a failed check.
type Scenario struct {
	Name        string
	Description string
	Tweak       func(*config.Config)
	Run         func(ctx context.Context, r *Rig) error
}

// Rig is what a scenario gets to work with.
type Rig struct {
	Panel   *virtual.Panel
	Engine  *engine.Engine
	Player  *Player
	Metrics *metrics.Collector
	Config  *config.Config

	done chan struct{}
}

// Alive reports whether the engine loop is still running.
func (r *Rig) Alive() bool {
	select {
	case <-r.done:
		return false
	default:
		return true
	}
}

// Harness runs scenarios one after another, each on a fresh device.
type Harness struct {
	base    *config.Config
	logger  *logger.Logger
	timeout time.Duration
	mu      sync.Mutex
	results []Result
}

// NewHarness creates the soak harness. Scenarios start from a copy of base.
func NewHarness(base *config.Config, log *logger.Logger) *Harness {
	if base == nil {
		base = config.FastConfig()
	}
	return &Harness{
		base:    base,
		logger:  log,
		timeout: 30 * time.Second,
	}
}

// SetTimeout bounds each scenario.
func (h *Harness) SetTimeout(d time.Duration) {
	h.timeout = d
}

// Run executes the scenarios in order and returns their results.
func (h *Harness) Run(ctx context.Context, scenarios ...Scenario) []Result {
	out := make([]Result, 0, len(scenarios))
	for _, s := range scenarios {
		res := h.runOne(ctx, s)
		if res.Passed {
			h.logger.Info("scenario passed", "name", s.Name, "elapsed", res.Elapsed, "events", res.Events)
		} else {
			h.logger.Warn("scenario failed", "name", s.Name, "reason", res.Reason)
		}
		out = append(out, res)
	}

	h.mu.Lock()
	h.results = append(h.results, out...)
	h.mu.Unlock()
	return out
}

// Results returns everything run so far.
func (h *Harness) Results() []Result {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Result(nil), h.results...)
}

func (h *Harness) runOne(parent context.Context, s Scenario) Result {
	cfg := *h.base
	if s.Tweak != nil {
		s.Tweak(&cfg)
	}
	res := Result{ScenarioName: s.Name, Description: s.Description}

	ctx, cancel := context.WithTimeout(parent, h.timeout)
	defer cancel()

	panel := virtual.New()
	eventLog := events.NewEventLog(cfg.EventCapacity)
	eng := engine.NewEngine(panel.HAL(), &cfg, eventLog, h.logger)
	c := metrics.NewCollector()
	eng.SetMetrics(c)

	rig := &Rig{
		Panel:   panel,
		Engine:  eng,
		Player:  NewPlayer(panel, eng, rand.New(rand.NewSource(cfg.Seed))),
		Metrics: c,
		Config:  &cfg,
		done:    make(chan struct{}),
	}

	runCtx, stop := context.WithCancel(ctx)
	go func() {
		defer close(rig.done)
		_ = eng.Run(runCtx)
	}()

	w := newWatchdog(eng)
	go w.watch(runCtx)

	start := time.Now()
	err := s.Run(ctx, rig)
	res.Elapsed = time.Since(start)

	stop()
	select {
	case <-rig.done:
	case <-time.After(2 * time.Second):
		if err == nil {
			err = fmt.Errorf("engine did not stop after cancel")
		}
	}
	w.wait()

	if err == nil {
		err = w.err()
	}
	if err == nil {
		err = CheckJournal(eventLog.Replay(), eng.Scheduler().Amount())
	}

	res.Events = eventLog.Len()
	res.Final = eng.Needs()
	res.Passed = err == nil
	if err != nil {
		res.Reason = err.Error()
	} else {
		res.Reason = "all invariants held"
	}
	return res
}

// Report prints the results in the shape of a test run summary and returns
// the number of failures.
func Report(w io.Writer, results []Result) int {
	rule := strings.Repeat("=", 60)
	failed := 0

	for _, r := range results {
		fmt.Fprintln(w, "\n"+rule)
		fmt.Fprintf(w, "SCENARIO: %s\n", r.ScenarioName)
		fmt.Fprintf(w, "   %s\n", r.Description)
		fmt.Fprintf(w, "   elapsed: %s  events: %s\n", r.Elapsed.Round(time.Millisecond), humanize.Comma(int64(r.Events)))
		fmt.Fprintf(w, "   final: hunger=%d hygiene=%d energy=%d fun=%d\n",
			r.Final.Hunger, r.Final.Hygiene, r.Final.Energy, r.Final.Fun)
		if r.Passed {
			fmt.Fprintln(w, "PASSED: "+r.Reason)
		} else {
			failed++
			fmt.Fprintln(w, "FAILED: "+r.Reason)
		}
	}

	fmt.Fprintln(w, "\n"+rule)
	fmt.Fprintln(w, "SUMMARY")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "   passed: %d\n", len(results)-failed)
	fmt.Fprintf(w, "   failed: %d\n", failed)
	return failed
}

// watchdog samples the live counters while a scenario runs.
type watchdog struct {
	eng     *engine.Engine
	stopped chan struct{}
	mu      sync.Mutex
	first   error
}

func newWatchdog(eng *engine.Engine) *watchdog {
	return &watchdog{eng: eng, stopped: make(chan struct{})}
}

func (w *watchdog) watch(ctx context.Context) {
	defer close(w.stopped)
	t := time.NewTicker(500 * time.Microsecond)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := checkRange("live", w.eng.Needs()); err != nil {
				w.mu.Lock()
				if w.first == nil {
					w.first = err
				}
				w.mu.Unlock()
				return
			}
		}
	}
}

func (w *watchdog) wait() {
	<-w.stopped
}

func (w *watchdog) err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.first
}

func checkRange(where string, n pet.Needs) error {
	for i, v := range n.Values() {
		if v < pet.MinLevel || v > pet.MaxLevel {
			return fmt.Errorf("%s: %s out of range: %d", where, pet.AllNeeds[i], v)
		}
	}
	return nil
}
