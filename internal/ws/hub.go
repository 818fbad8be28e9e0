// Package ws implements the in-process WebSocket hub used to push message
// notifications to connected users. Delivery is best-effort: a user with no
// open connection simply misses the push and sees the message on the next
// inbox fetch.
package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Event is the envelope pushed over a client connection.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Client is one open WebSocket connection for a user. A user may hold
// several clients at once (multiple tabs or devices).
type Client struct {
	UserID uint64
	Conn   *websocket.Conn
	Send   chan Event
	Done   chan struct{}
	once   sync.Once
}

// NewClient wraps an upgraded connection.
func NewClient(userID uint64, conn *websocket.Conn) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan Event, 16),
		Done:   make(chan struct{}),
	}
}

// Close shuts the client down exactly once.
func (c *Client) Close() {
	c.once.Do(func() {
		close(c.Done)
		_ = c.Conn.Close()
	})
}

// WritePump serializes queued events onto the connection until the client is
// closed or a write fails. It must run in its own goroutine.
func (c *Client) WritePump() {
	defer c.Close()
	for {
		select {
		case ev := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteJSON(ev); err != nil {
				return
			}
		case <-c.Done:
			return
		}
	}
}

// ReadPump drains inbound frames (the hub is push-only) so control frames
// are processed, and tears the client down when the peer goes away.
func (c *Client) ReadPump(h *Hub) {
	defer func() {
		h.Remove(c)
		c.Close()
	}()
	c.Conn.SetReadLimit(1 << 10)
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Hub tracks the open connections per user.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint64]map[*Client]struct{}
	log     zerolog.Logger
}

// NewHub creates an empty hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[uint64]map[*Client]struct{}),
		log:     log,
	}
}

// Add registers a client under its user ID.
func (h *Hub) Add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.UserID] = set
	}
	set[c] = struct{}{}
}

// Remove unregisters a client; the user's entry disappears with its last
// connection.
func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.UserID)
	}
}

// Notify queues an event for every open connection of the user and returns
// how many connections received it. A full send buffer drops the event for
// that connection rather than blocking the caller.
func (h *Hub) Notify(userID uint64, ev Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for c := range h.clients[userID] {
		select {
		case c.Send <- ev:
			delivered++
		default:
			h.log.Warn().Uint64("user_id", userID).Str("event", ev.Type).Msg("ws send buffer full, dropping event")
		}
	}
	return delivered
}
