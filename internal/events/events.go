// Package events provides the in-process pub/sub bus the stores publish
// their mutations on. The UI layer (CLI, daemon loops) subscribes to
// re-render or log; stores never call back into their observers.
package events

import (
	"encoding/json"
	"sync"
	"time"
)

// Topics published by the core stores.
const (
	TopicAttendanceUpdated = "attendance.updated"
	TopicShiftsChanged     = "shifts.changed"
	TopicNotesChanged      = "notes.changed"
)

// Event is a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Handler reacts to an event.
type Handler func(event Event)

// Bus provides in-process pub/sub.
type Bus struct {
	subscribers map[string][]Handler
	mu          sync.RWMutex
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

// Subscribe registers a handler for a given event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type. Handlers run
// synchronously; the caller decides the concurrency model.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		handler(event)
	}
}

// PublishJSON marshals payload and publishes it under eventType. A
// payload that fails to marshal is published with a nil body rather
// than dropped.
func (b *Bus) PublishJSON(eventType string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		body = nil
	}
	b.Publish(Event{Type: eventType, Payload: body})
}
