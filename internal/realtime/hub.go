package realtime

import (
	"sync"
)

// Client represents a single websocket client connection.
// We keep it minimal here; the actual network conn is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Hub maintains active employee connections and broadcasts lifecycle
// events to them.
type Hub struct {
	mu           sync.RWMutex
	eidToClients map[uint]map[Client]struct{}
}

var hubInstance *Hub
var once sync.Once

// GetHub returns a singleton hub instance.
func GetHub() *Hub {
	once.Do(func() {
		hubInstance = &Hub{
			eidToClients: make(map[uint]map[Client]struct{}),
		}
	})
	return hubInstance
}

// Register adds a client under an employee id.
func (h *Hub) Register(eid uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.eidToClients[eid]; !ok {
		h.eidToClients[eid] = make(map[Client]struct{})
	}
	h.eidToClients[eid][client] = struct{}{}
}

// Unregister removes a client; if the employee has no more clients, cleans up map.
func (h *Hub) Unregister(eid uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.eidToClients[eid]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.eidToClients, eid)
		}
	}
}

// Broadcast sends a message to all clients of an employee.
func (h *Hub) Broadcast(eid uint, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	clients := h.eidToClients[eid]
	for c := range clients {
		// a failed write is cleaned up by the handler's reader loop
		_ = c.Send(message)
	}
}
