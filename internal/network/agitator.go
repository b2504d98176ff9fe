package network

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/hal"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/logger"
)

// AgitatorConfig configures a panel load test.
type AgitatorConfig struct {
	URL      string
	Clients  int
	Interval time.Duration
	Seed     int64
}

// AgitatorStats tracks what the load test saw.
type AgitatorStats struct {
	MessagesSent     int64
	MessagesReceived int64
	Errors           int64

	mu        sync.Mutex
	latencies []time.Duration
}

// Latency returns min, average and max write latency.
func (s *AgitatorStats) Latency() (min, avg, max time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.latencies) == 0 {
		return 0, 0, 0
	}
	var total time.Duration
	min, max = s.latencies[0], s.latencies[0]
	for _, l := range s.latencies {
		total += l
		if l < min {
			min = l
		}
		if l > max {
			max = l
		}
	}
	return min, total / time.Duration(len(s.latencies)), max
}

func (s *AgitatorStats) record(latency time.Duration) {
	atomic.AddInt64(&s.MessagesSent, 1)
	s.mu.Lock()
	s.latencies = append(s.latencies, latency)
	s.mu.Unlock()
}

// Agitator connects many panel clients at once and mashes the controls.
type Agitator struct {
	cfg    AgitatorConfig
	logger *logger.Logger
	stats  *AgitatorStats
}

// NewAgitator creates a load generator for a running panel server.
func NewAgitator(cfg AgitatorConfig, log *logger.Logger) *Agitator {
	if cfg.Clients <= 0 {
		cfg.Clients = 1
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 100 * time.Millisecond
	}
	return &Agitator{cfg: cfg, logger: log, stats: &AgitatorStats{}}
}

// Stats returns the live counters.
func (a *Agitator) Stats() *AgitatorStats {
	return a.stats
}

// Run blocks until ctx ends and every client has disconnected.
func (a *Agitator) Run(ctx context.Context) *AgitatorStats {
	var wg sync.WaitGroup
	for i := 0; i < a.cfg.Clients; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			a.runClient(ctx, id)
		}(i)
	}
	wg.Wait()
	return a.stats
}

func (a *Agitator) runClient(ctx context.Context, id int) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, a.cfg.URL, nil)
	if err != nil {
		a.logger.Warn("agitator connection failed", "client", id, "error", err)
		atomic.AddInt64(&a.stats.Errors, 1)
		return
	}
	defer conn.Close()

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			atomic.AddInt64(&a.stats.MessagesReceived, 1)
		}
	}()

	rng := rand.New(rand.NewSource(a.cfg.Seed + int64(id)))
	ticker := time.NewTicker(a.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			return
		case <-ticker.C:
			start := time.Now()
			if err := conn.WriteJSON(randomInput(rng)); err != nil {
				atomic.AddInt64(&a.stats.Errors, 1)
				return
			}
			a.stats.record(time.Since(start))
		}
	}
}

var tapDirections = []string{"UP", "DOWN", "LEFT", "RIGHT", "PRESS"}

func randomInput(rng *rand.Rand) InputMessage {
	if rng.Intn(3) > 0 {
		return InputMessage{Type: MessageTap, Direction: tapDirections[rng.Intn(len(tapDirections))]}
	}
	x := uint16(rng.Intn(int(hal.AxisMax) + 1))
	y := uint16(rng.Intn(int(hal.AxisMax) + 1))
	return InputMessage{Type: MessageInput, X: &x, Y: &y, Pressed: rng.Intn(4) == 0}
}
