package network

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/events"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/hal/virtual"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/logger"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/metrics"
)

type fixture struct {
	panel  *virtual.Panel
	hub    *Hub
	log    *events.EventLog
	server *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	p := virtual.New()
	log := events.NewEventLog(0)
	hub := NewHub(p, logger.Discard())
	hub.SetMetrics(metrics.NewCollector())
	go hub.Run(ctx)
	hub.StartPanelMirror(ctx, p)
	hub.StartEventPoller(ctx, log, 5*time.Millisecond)

	srv := httptest.NewServer(NewMux(hub, log, metrics.NewCollector(), logger.Discard()))
	t.Cleanup(srv.Close)

	return &fixture{panel: p, hub: hub, log: log, server: srv}
}

func (f *fixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for f.hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client never registered")
		}
		time.Sleep(time.Millisecond)
	}
	return conn
}

// readUntil reads messages until one of type typ arrives.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if msg.Type == typ {
			return msg
		}
	}
}

func TestPanelChangesAreMirrored(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)

	_ = f.panel.ShowLines([]string{"Bob alimentado!"})

	msg := readUntil(t, conn, MessagePanel)
	if len(msg.Panel.Lines) != 1 || msg.Panel.Lines[0] != "Bob alimentado!" {
		t.Errorf("unexpected mirrored lines %v", msg.Panel.Lines)
	}
	if len(msg.Panel.LEDs) != 25 {
		t.Errorf("expected 25 LEDs, got %d", len(msg.Panel.LEDs))
	}
}

func TestTapMessageQueuesInput(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"TAP","direction":"left"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for f.panel.Pending() != 2 {
		if time.Now().After(deadline) {
			t.Fatalf("expected a deflection and a return to center, pending %d", f.panel.Pending())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestInputMessageSetsStick(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"INPUT","x":100,"pressed":true}`)); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		in := f.panel.Snapshot().Input
		if in.X == 100 && in.Y == 2048 && in.Pressed {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("input not applied, panel input %+v", in)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestJournalEventsAreBroadcast(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)

	f.log.Append(events.EventTypeDecay, events.ActorScheduler, map[string]int{"amount": 5})

	msg := readUntil(t, conn, MessageEvent)
	if msg.Event == nil || msg.Event.Type != events.EventTypeDecay {
		t.Errorf("expected a DECAY event, got %+v", msg.Event)
	}
}

func TestEventsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.log.Append(events.EventTypeAction, events.ActorPlayer, nil)
	f.log.Append(events.EventTypeDecay, events.ActorScheduler, nil)

	resp, err := http.Get(f.server.URL + "/events?since=1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var list []events.DeviceEvent
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].Type != events.EventTypeDecay {
		t.Errorf("expected only the DECAY event, got %+v", list)
	}

	bad, err := http.Get(f.server.URL + "/events?since=abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for a bad since, got %d", bad.StatusCode)
	}
}

func TestPanelPageServed(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.server.URL + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Errorf("unexpected response %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
}

func TestStoppedHubRefusesClients(t *testing.T) {
	// Setup
	p := virtual.New()
	hub := NewHub(p, logger.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, w, r)
	}))
	defer srv.Close()

	// Act
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()

	// Assert
	if err == nil {
		t.Fatal("expected the server to drop the connection")
	}
	if ne, ok := err.(interface{ Timeout() bool }); ok && ne.Timeout() {
		t.Errorf("connection was left open: %v", err)
	}
	if hub.ClientCount() != 0 {
		t.Errorf("expected no registered clients, got %d", hub.ClientCount())
	}
}
