package network

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/hal"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/input"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Incoming message types.
const (
	MessageInput = "INPUT" // absolute stick position and button state
	MessageTap   = "TAP"   // one deflection and return to center
)

// InputMessage is a command from a browser panel.
//
//	{"type":"INPUT","x":100,"y":2048,"pressed":false}
//	{"type":"TAP","direction":"LEFT"}
type InputMessage struct {
	Type      string  `json:"type"`
	X         *uint16 `json:"x,omitempty"`
	Y         *uint16 `json:"y,omitempty"`
	Pressed   bool    `json:"pressed"`
	Direction string  `json:"direction,omitempty"` // UP, DOWN, LEFT, RIGHT, PRESS
}

// Client is one browser connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewClient creates a new WebSocket client and returns it.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, hub.sendBuffer),
	}
}

// Register adds the client to the hub. It returns false once the hub
// has stopped.
func (c *Client) Register() bool {
	select {
	case c.hub.register <- c:
		return true
	case <-c.hub.done:
		return false
	}
}

func (c *Client) unregister() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.done:
	}
}

// ReadPump pumps input messages from the websocket connection to the panel.
func (c *Client) ReadPump() {
	defer func() {
		c.unregister()
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read failed", "error", err)
				c.hub.metrics.RecordWSError()
			}
			break
		}
		c.hub.metrics.RecordWSMessage(true)

		var msg InputMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.hub.logger.Warn("failed to parse input message", "error", err)
			c.hub.metrics.RecordWSError()
			continue
		}
		c.hub.handleInput(msg)
	}
}

// handleInput applies one client message to the sink.
func (h *Hub) handleInput(msg InputMessage) {
	if h.sink == nil {
		return
	}
	switch strings.ToUpper(msg.Type) {
	case MessageInput:
		s := input.Sample{X: hal.AxisCenter, Y: hal.AxisCenter, Pressed: msg.Pressed}
		if msg.X != nil {
			s.X = clampAxis(*msg.X)
		}
		if msg.Y != nil {
			s.Y = clampAxis(*msg.Y)
		}
		h.sink.Set(s)
	case MessageTap:
		ev, ok := tapEvents[strings.ToUpper(msg.Direction)]
		if !ok {
			h.logger.Warn("unknown tap direction", "direction", msg.Direction)
			return
		}
		h.sink.Tap(ev)
	default:
		h.logger.Warn("unknown input message type", "type", msg.Type)
	}
}

var tapEvents = map[string]input.Event{
	"UP":    input.Up,
	"DOWN":  input.Down,
	"LEFT":  input.Left,
	"RIGHT": input.Right,
	"PRESS": input.ButtonPressed,
}

func clampAxis(v uint16) uint16 {
	if v > hal.AxisMax {
		return hal.AxisMax
	}
	return v
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One JSON message per frame; browsers parse each on its own.
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.metrics.RecordWSError()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
