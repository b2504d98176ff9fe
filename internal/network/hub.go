// Package network mirrors the virtual panel to browsers over WebSocket and
// feeds their joystick and button input back into it.
package network

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/events"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/hal/virtual"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/input"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/logger"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/metrics"
)

// Outgoing message types.
const (
	MessagePanel = "PANEL"
	MessageEvent = "EVENT"
)

// Message is the envelope of everything sent to clients.
type Message struct {
	Type  string              `json:"type"`
	Panel *virtual.Snapshot   `json:"panel,omitempty"`
	Event *events.DeviceEvent `json:"event,omitempty"`
}

// InputSink receives input from remote clients. *virtual.Panel satisfies it.
type InputSink interface {
	Set(s input.Sample)
	Tap(ev input.Event)
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.Mutex
	logger     *logger.Logger
	metrics    *metrics.Collector
	sink       InputSink
	sendBuffer int
}

// NewHub initializes a new WebSocket Hub. Input from clients goes to sink.
func NewHub(sink InputSink, log *logger.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		logger:     log,
		metrics:    metrics.Get(),
		sink:       sink,
		sendBuffer: 64,
	}
}

// SetSendBuffer sets the per-client outgoing queue length for new clients.
func (h *Hub) SetSendBuffer(n int) {
	if n > 0 {
		h.sendBuffer = n
	}
}

// SetMetrics redirects counters, mainly for tests.
func (h *Hub) SetMetrics(c *metrics.Collector) {
	h.metrics = c
}

// ClientCount is the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Run starts the Hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("websocket hub shutting down")
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.metrics.RecordWSConnection(1)
			h.logger.Info("websocket client connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.metrics.RecordWSConnection(-1)
				h.logger.Info("websocket client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					h.metrics.RecordWSMessage(false)
				default:
					// Too slow to keep up with the panel.
					close(client.send)
					delete(h.clients, client)
					h.metrics.RecordWSConnection(-1)
					h.metrics.RecordWSError()
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast serializes msg and queues it for every client.
func (h *Hub) Broadcast(ctx context.Context, msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to serialize websocket message", "type", msg.Type, "error", err)
		return
	}
	select {
	case h.broadcast <- payload:
	case <-ctx.Done():
	case <-h.done:
	}
}

// StartPanelMirror broadcasts every panel change until ctx ends.
func (h *Hub) StartPanelMirror(ctx context.Context, panel *virtual.Panel) {
	snaps, cancel := panel.Subscribe(16)
	go func() {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-snaps:
				if !ok {
					return
				}
				h.Broadcast(ctx, Message{Type: MessagePanel, Panel: &snap})
			}
		}
	}()
}

// StartEventPoller polls the journal and pushes new events to the clients.
func (h *Hub) StartEventPoller(ctx context.Context, eventLog *events.EventLog, every time.Duration) {
	go func() {
		pollInterval := time.NewTicker(every)
		defer pollInterval.Stop()

		next := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-pollInterval.C:
				for _, ev := range eventLog.Since(next) {
					ev := ev
					h.Broadcast(ctx, Message{Type: MessageEvent, Event: &ev})
					next = ev.Seq + 1
				}
			}
		}
	}()
}
