// Package ws tracks active voice sessions so each conversation has at most
// one live session at a time.
package ws

import (
	"sync"

	"github.com/nirmanlabs/apis-assistant/internal/core/live"
)

type Hub struct {
	mu       sync.Mutex
	sessions map[string]*live.Client
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[string]*live.Client)}
}

// Add registers a session under id. Returns false if one is already active.
func (h *Hub) Add(id string, c *live.Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[id]; ok {
		return false
	}
	h.sessions[id] = c
	return true
}

func (h *Hub) Get(id string) (*live.Client, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.sessions[id]
	return c, ok
}

func (h *Hub) Remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, id)
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// DisconnectAll tears down every active session. Used at shutdown.
func (h *Hub) DisconnectAll() {
	h.mu.Lock()
	clients := make([]*live.Client, 0, len(h.sessions))
	for id, c := range h.sessions {
		clients = append(clients, c)
		delete(h.sessions, id)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.Disconnect()
	}
}
