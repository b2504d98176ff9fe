package network

import (
	"context"
	"math/rand"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/hal"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/logger"
)

func TestAgitatorDrivesPanel(t *testing.T) {
	// Setup
	f := newFixture(t)
	a := NewAgitator(AgitatorConfig{
		URL:      "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws",
		Clients:  3,
		Interval: 2 * time.Millisecond,
		Seed:     1,
	}, logger.Discard())

	// Act
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	stats := a.Run(ctx)

	// Assert
	if atomic.LoadInt64(&stats.MessagesSent) == 0 {
		t.Fatal("expected the agitator to send messages")
	}
	if errs := atomic.LoadInt64(&stats.Errors); errs != 0 {
		t.Errorf("expected no errors, got %d", errs)
	}
	min, avg, max := stats.Latency()
	if min > avg || avg > max {
		t.Errorf("latency out of order: min=%v avg=%v max=%v", min, avg, max)
	}
}

func TestAgitatorCountsFailedDials(t *testing.T) {
	a := NewAgitator(AgitatorConfig{URL: "ws://127.0.0.1:1/ws", Clients: 2}, logger.Discard())

	stats := a.Run(context.Background())

	if got := atomic.LoadInt64(&stats.Errors); got != 2 {
		t.Errorf("expected 2 dial errors, got %d", got)
	}
}

func TestRandomInputIsAcceptedByHub(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		msg := randomInput(rng)
		switch msg.Type {
		case MessageTap:
			if _, ok := tapEvents[msg.Direction]; !ok {
				t.Fatalf("unknown direction %q", msg.Direction)
			}
		case MessageInput:
			if msg.X == nil || msg.Y == nil || *msg.X > hal.AxisMax || *msg.Y > hal.AxisMax {
				t.Fatalf("axis out of range: %+v", msg)
			}
		default:
			t.Fatalf("unexpected type %q", msg.Type)
		}
	}
}
