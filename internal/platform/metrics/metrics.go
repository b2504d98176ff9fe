// Package metrics provides observability for the device and the simulator.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers runtime counters.
type Collector struct {
	// Decay metrics
	DecayCount    int64
	DecayAmount   int64 // total points removed per counter
	LastDecayTime time.Time

	// Care actions
	ActionsFeed  int64
	ActionsWash  int64
	ActionsSleep int64
	ActionsPlay  int64

	// Games
	GamesWon   int64
	GamesLost  int64
	GamesDrawn int64
	GameMoves  int64

	// Input and output
	InputEvents int64
	FramesSent  int64
	FlushErrors int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{StartTime: time.Now()}
}

// Global collector instance
var collector = NewCollector()

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordDecay records one scheduler firing.
func (c *Collector) RecordDecay(amount int) {
	atomic.AddInt64(&c.DecayCount, 1)
	atomic.AddInt64(&c.DecayAmount, int64(amount))

	c.mu.Lock()
	c.LastDecayTime = time.Now()
	c.mu.Unlock()
}

// RecordAction records a confirmed top-level action by name (FEED, WASH, SLEEP, PLAY).
func (c *Collector) RecordAction(name string) {
	switch name {
	case "FEED":
		atomic.AddInt64(&c.ActionsFeed, 1)
	case "WASH":
		atomic.AddInt64(&c.ActionsWash, 1)
	case "SLEEP":
		atomic.AddInt64(&c.ActionsSleep, 1)
	case "PLAY":
		atomic.AddInt64(&c.ActionsPlay, 1)
	}
}

// RecordGame records a finished game from the human's point of view.
func (c *Collector) RecordGame(won, draw bool) {
	switch {
	case won:
		atomic.AddInt64(&c.GamesWon, 1)
	case draw:
		atomic.AddInt64(&c.GamesDrawn, 1)
	default:
		atomic.AddInt64(&c.GamesLost, 1)
	}
}

// RecordMove records one placed mark.
func (c *Collector) RecordMove() {
	atomic.AddInt64(&c.GameMoves, 1)
}

// RecordInput records one debounced input event.
func (c *Collector) RecordInput() {
	atomic.AddInt64(&c.InputEvents, 1)
}

// RecordFrame records an LED frame flush.
func (c *Collector) RecordFrame(err error) {
	atomic.AddInt64(&c.FramesSent, 1)
	if err != nil {
		atomic.AddInt64(&c.FlushErrors, 1)
	}
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	lastDecay := c.LastDecayTime
	c.mu.RUnlock()

	last := ""
	if !lastDecay.IsZero() {
		last = lastDecay.Format(time.RFC3339)
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"decay": map[string]interface{}{
			"count":      atomic.LoadInt64(&c.DecayCount),
			"amount":     atomic.LoadInt64(&c.DecayAmount),
			"last_decay": last,
		},

		"actions": map[string]interface{}{
			"feed":  atomic.LoadInt64(&c.ActionsFeed),
			"wash":  atomic.LoadInt64(&c.ActionsWash),
			"sleep": atomic.LoadInt64(&c.ActionsSleep),
			"play":  atomic.LoadInt64(&c.ActionsPlay),
		},

		"games": map[string]interface{}{
			"won":   atomic.LoadInt64(&c.GamesWon),
			"lost":  atomic.LoadInt64(&c.GamesLost),
			"drawn": atomic.LoadInt64(&c.GamesDrawn),
			"moves": atomic.LoadInt64(&c.GameMoves),
		},

		"io": map[string]interface{}{
			"input_events": atomic.LoadInt64(&c.InputEvents),
			"frames_sent":  atomic.LoadInt64(&c.FramesSent),
			"flush_errors": atomic.LoadInt64(&c.FlushErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},
	}
}
