package transport

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/decred/slog"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client is one upgraded websocket connection: a read pump decoding
// inbound frames into the Router, and a write pump draining outbound
// frames enqueued by the Hub — the ping/pong keepalive and single-writer
// goroutine split this stack's websocket client uses.
type Client struct {
	ID     string
	conn   *websocket.Conn
	hub    *Hub
	router *Router
	log    slog.Logger

	send chan []byte

	mu       sync.RWMutex
	playerID string
	roomID   string
}

func newClient(id string, conn *websocket.Conn, hub *Hub, router *Router, log slog.Logger) *Client {
	return &Client{
		ID:     id,
		conn:   conn,
		hub:    hub,
		router: router,
		log:    log,
		send:   make(chan []byte, sendBufferSize),
	}
}

// PlayerID returns the identity this connection last authenticated as
// (set on create_room/join_room/rejoin_room/start_solo_test).
func (c *Client) PlayerID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

func (c *Client) setPlayerID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = id
}

// RoomID returns the room this connection currently subscribes to, or ""
// if it has not joined one.
func (c *Client) RoomID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID
}

func (c *Client) setRoomID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = id
}

func (c *Client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		c.log.Warnf("client %s send buffer full, dropping connection", c.ID)
		c.conn.Close()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warnf("client %s closed unexpectedly: %v", c.ID, err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.hub.Send(c, "game_error", map[string]string{"message": "malformed frame"})
			continue
		}
		c.router.Dispatch(c, env)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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

// ServeWS upgrades r into a websocket connection and starts its pumps.
func ServeWS(hub *Hub, router *Router, log slog.Logger, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("websocket upgrade from %s: %v", r.RemoteAddr, err)
		return
	}

	c := newClient(newClientID(), conn, hub, router, log)
	hub.register(c)
	go c.writePump()
	go c.readPump()
}
