// Package engine contains Bob's simulation: the guarded need counters, the
// decay scheduler running beside the foreground loop, the care actions and
// the tic-tac-toe game.
//
// The scheduler is the only writer that runs outside the foreground loop.
// It touches Vitals under its guard and nothing else.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/domain/pet"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/domain/rules"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/events"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/logger"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/metrics"
)

// DefaultDecayInterval is the time between two decay firings on the device.
const DefaultDecayInterval = 60 * time.Second

// DecayPayload is attached to each DECAY event.
type DecayPayload struct {
	Firing     int64     `json:"firing"`
	Amount     int       `json:"amount"`
	Multiplier float64   `json:"multiplier"`
	Needs      pet.Needs `json:"needs"`
}

// DecayScheduler fires once per interval and lowers every need.
// Missed ticks are not caught up: a late firing still decays only once.
type DecayScheduler struct {
	vitals   *Vitals
	eventLog *events.EventLog
	logger   *logger.Logger
	metrics  *metrics.Collector
	interval time.Duration
	base     int
	now      func() time.Time

	mu         sync.Mutex
	multiplier float64
	lastFired  time.Time
	firings    int64

	stopChan chan struct{}
	stopOnce sync.Once
}

// NewDecayScheduler creates a scheduler with the Normal multiplier.
// The countdown starts at construction.
func NewDecayScheduler(vitals *Vitals, eventLog *events.EventLog, log *logger.Logger, interval time.Duration) *DecayScheduler {
	if interval <= 0 {
		interval = DefaultDecayInterval
	}
	s := &DecayScheduler{
		vitals:     vitals,
		eventLog:   eventLog,
		logger:     log,
		metrics:    metrics.Get(),
		interval:   interval,
		base:       rules.BaseDecay,
		now:        time.Now,
		multiplier: rules.Difficulties[rules.DefaultDifficulty].Multiplier,
		stopChan:   make(chan struct{}),
	}
	s.lastFired = s.now()
	return s
}

// SetBase overrides the per-firing decay before the multiplier.
func (s *DecayScheduler) SetBase(base int) {
	s.mu.Lock()
	s.base = base
	s.mu.Unlock()
}

// SetMultiplier applies the chosen difficulty. Call before Start.
func (s *DecayScheduler) SetMultiplier(m float64) {
	s.mu.Lock()
	s.multiplier = m
	s.mu.Unlock()
}

// SetMetrics redirects counters, mainly for tests.
func (s *DecayScheduler) SetMetrics(c *metrics.Collector) {
	s.metrics = c
}

// Start runs the periodic trigger until ctx is cancelled or Stop is called.
// Call in a goroutine.
func (s *DecayScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.lastFired = s.now()
	s.mu.Unlock()

	s.logger.Info("decay scheduler started", "interval", s.interval.String(), "amount", s.Amount())

	// time.Ticker drops ticks a slow receiver misses, which is exactly the
	// no-catch-up rule.
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("decay scheduler stopped by context")
			return
		case <-s.stopChan:
			s.logger.Info("decay scheduler stopped manually")
			return
		case <-ticker.C:
			s.Fire()
		}
	}
}

// Stop ends Start. Safe to call more than once.
func (s *DecayScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

// Amount is floor(base * multiplier) for the current difficulty.
func (s *DecayScheduler) Amount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rules.DecayAmount(s.base, s.multiplier)
}

// Fire performs exactly one decay. Start calls it on every tick; tests call
// it directly.
func (s *DecayScheduler) Fire() pet.Needs {
	s.mu.Lock()
	amount := rules.DecayAmount(s.base, s.multiplier)
	multiplier := s.multiplier
	s.mu.Unlock()

	after := s.vitals.ApplyDecay(amount)

	s.mu.Lock()
	s.lastFired = s.now()
	s.firings++
	firing := s.firings
	s.mu.Unlock()

	s.eventLog.Append(events.EventTypeDecay, events.ActorScheduler, DecayPayload{
		Firing:     firing,
		Amount:     amount,
		Multiplier: multiplier,
		Needs:      after,
	})
	s.metrics.RecordDecay(amount)
	s.logger.Debug("decay", "firing", firing, "amount", amount,
		"hunger", after.Hunger, "hygiene", after.Hygiene, "energy", after.Energy, "fun", after.Fun)

	return after
}

// Remaining is the time until the next firing, zero when overdue.
func (s *DecayScheduler) Remaining(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	left := s.interval - now.Sub(s.lastFired)
	if left < 0 {
		return 0
	}
	return left
}

// LastFired is when the scheduler last decayed (or started).
func (s *DecayScheduler) LastFired() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFired
}

// Firings counts decays since construction.
func (s *DecayScheduler) Firings() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.firings
}

// Interval is the configured period.
func (s *DecayScheduler) Interval() time.Duration {
	return s.interval
}
