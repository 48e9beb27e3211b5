// Package events pushes bookmark change notifications to connected clients
// over websockets, so a second open tab or the extension popup can re-fetch
// instead of polling.
package events

import (
	"sync"
)

// Event describes one bookmark change.
type Event struct {
	Action     string `json:"action"` // "created" | "updated" | "deleted"
	BookmarkID uint   `json:"bookmark_id"`
}

// Hub fans events out to every connection a user has open. Connections are
// keyed by user, so one user's changes never reach another's sockets.
type Hub struct {
	mu    sync.RWMutex
	conns map[uint]map[*conn]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[uint]map[*conn]struct{})}
}

func (h *Hub) add(userID uint, c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[*conn]struct{})
	}
	h.conns[userID][c] = struct{}{}
}

func (h *Hub) remove(userID uint, c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.conns[userID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.conns, userID)
		}
	}
}

// NotifyBookmark broadcasts a change to all of the user's connections.
// Slow connections drop the event rather than blocking the request path.
func (h *Hub) NotifyBookmark(userID uint, action string, bookmarkID uint) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns[userID] {
		select {
		case c.send <- Event{Action: action, BookmarkID: bookmarkID}:
		default:
		}
	}
}

// ConnectionCount returns the number of open connections for a user.
func (h *Hub) ConnectionCount(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID])
}
