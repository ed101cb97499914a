package transport

import (
	"sync"

	"github.com/decred/slog"
)

// Hub tracks every live connection, grouped by the room it currently
// subscribes to, and fans outbound frames out to a room's subscribers —
// the connection-registry/broadcast-by-group shape this stack's websocket
// hub uses, generalized from one game id per connection to reassignable
// room membership (join_room/rejoin_room/leave_room all move a client
// between groups after the connection already exists).
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	rooms   map[string]map[*Client]bool
	log     slog.Logger
}

// NewHub builds an empty Hub.
func NewHub(log slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		rooms:   make(map[string]map[*Client]bool),
		log:     log,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	if roomID := c.RoomID(); roomID != "" {
		h.removeFromRoomLocked(roomID, c)
	}
}

func (h *Hub) removeFromRoomLocked(roomID string, c *Client) {
	members := h.rooms[roomID]
	if members == nil {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, roomID)
	}
}

// Join moves c into roomID's subscriber group, leaving any prior room.
func (h *Hub) Join(c *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if prev := c.RoomID(); prev != "" && prev != roomID {
		h.removeFromRoomLocked(prev, c)
	}
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][c] = true
	c.setRoomID(roomID)
}

// Leave removes c from roomID's subscriber group without closing it.
func (h *Hub) Leave(c *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromRoomLocked(roomID, c)
	if c.RoomID() == roomID {
		c.setRoomID("")
	}
}

// Broadcast implements room.Broadcaster: every client currently joined to
// roomID receives the encoded {event, payload} frame.
func (h *Hub) Broadcast(roomID, event string, payload interface{}) {
	data, err := encode(event, payload)
	if err != nil {
		h.log.Errorf("broadcast %s/%s: %v", roomID, event, err)
		return
	}
	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[roomID]))
	for c := range h.rooms[roomID] {
		members = append(members, c)
	}
	h.mu.RUnlock()
	for _, c := range members {
		c.enqueue(data)
	}
}

// Send delivers an {event, payload} frame to one client only (acks and
// per-connection errors).
func (h *Hub) Send(c *Client, event string, payload interface{}) {
	data, err := encode(event, payload)
	if err != nil {
		h.log.Errorf("send %s to %s: %v", event, c.ID, err)
		return
	}
	c.enqueue(data)
}

// CloseRoom sends every subscriber of roomID a final frame
// (room_closed/kicked), then removes them all from the room and clears
// their room id, used when a host leaves or a room is torn down. The
// connections themselves stay open.
func (h *Hub) CloseRoom(roomID, event string, payload interface{}) {
	h.Broadcast(roomID, event, payload)
	h.mu.Lock()
	members := h.rooms[roomID]
	delete(h.rooms, roomID)
	h.mu.Unlock()
	for c := range members {
		c.setRoomID("")
	}
}
