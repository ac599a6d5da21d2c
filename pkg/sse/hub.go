package sse

import (
	"log"
	"sync"
)

// Event names pushed to connected clients
const (
	EventDataChanged = "data-changed"
	EventNewEmail    = "new-email"
)

// Event is one message fanned out to every subscriber
type Event struct {
	Name    string      `json:"name"`
	Payload interface{} `json:"payload,omitempty"`
}

// Hub fans events out to connected SSE clients. Slow clients drop events
// rather than blocking the broadcaster.
type Hub struct {
	mu      sync.Mutex
	clients map[chan Event]struct{}
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{clients: make(map[chan Event]struct{})}
}

// Subscribe registers a new client and returns its event channel
func (h *Hub) Subscribe() chan Event {
	ch := make(chan Event, 16)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes a client and closes its channel
func (h *Hub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	if _, ok := h.clients[ch]; ok {
		delete(h.clients, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Broadcast sends an event to every connected client without blocking
func (h *Hub) Broadcast(name string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.clients {
		select {
		case ch <- Event{Name: name, Payload: payload}:
		default:
			log.Printf("[SSE] Dropping %s event for a slow client", name)
		}
	}
}

// ClientCount reports how many clients are connected
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
