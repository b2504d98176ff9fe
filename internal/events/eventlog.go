// Package events provides the device journal: an in-memory, append-only
// record of everything that changed Bob's state. It lives only as long as
// the process does.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a device event.
type EventType string

const (
	EventTypeDifficultySelected EventType = "DIFFICULTY_SELECTED"
	EventTypeDecay              EventType = "DECAY"
	EventTypeAction             EventType = "ACTION"
	EventTypeGameStarted        EventType = "GAME_STARTED"
	EventTypeGameMove           EventType = "GAME_MOVE"
	EventTypeGameResult         EventType = "GAME_RESULT"
)

// Actors.
const (
	ActorScheduler = "SCHEDULER"
	ActorPlayer    = "PLAYER"
	ActorBob       = "BOB"
)

// DeviceEvent represents an immutable record of something that happened.
type DeviceEvent struct {
	ID        string      `json:"id"`
	Seq       int         `json:"seq"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Payload   interface{} `json:"payload"`
}

// DefaultCapacity bounds the journal on the device.
const DefaultCapacity = 256

// EventLog is a bounded append-only log. When full, the oldest entries are dropped;
// sequence numbers keep increasing so pollers can tell what they missed.
type EventLog struct {
	mu       sync.RWMutex
	events   []DeviceEvent
	capacity int
	nextSeq  int
}

// NewEventLog creates a log keeping at most capacity events (DefaultCapacity if <= 0).
func NewEventLog(capacity int) *EventLog {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &EventLog{
		events:   make([]DeviceEvent, 0, capacity),
		capacity: capacity,
	}
}

// Append stamps and stores a new event and returns the stored copy.
func (el *EventLog) Append(eventType EventType, actorID string, payload interface{}) DeviceEvent {
	el.mu.Lock()
	defer el.mu.Unlock()

	ev := DeviceEvent{
		ID:        GenerateEventID(),
		Seq:       el.nextSeq,
		Timestamp: time.Now(),
		Type:      eventType,
		ActorID:   actorID,
		Payload:   payload,
	}
	el.nextSeq++

	if len(el.events) == el.capacity {
		copy(el.events, el.events[1:])
		el.events = el.events[:len(el.events)-1]
	}
	el.events = append(el.events, ev)
	return ev
}

// Replay returns a copy of the retained history.
func (el *EventLog) Replay() []DeviceEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()
	out := make([]DeviceEvent, len(el.events))
	copy(out, el.events)
	return out
}

// Since returns retained events with Seq >= seq.
func (el *EventLog) Since(seq int) []DeviceEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var out []DeviceEvent
	for _, e := range el.events {
		if e.Seq >= seq {
			out = append(out, e)
		}
	}
	return out
}

// ByType returns retained events of one type.
func (el *EventLog) ByType(t EventType) []DeviceEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var out []DeviceEvent
	for _, e := range el.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Len is the number of retained events.
func (el *EventLog) Len() int {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return len(el.events)
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
