// Package websocket pushes fresh render state to connected admin sessions
// whenever the controller reconciles its collections.
package websocket

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"

	"closetshop/pkg/logger"
)

// Client is one connected live-view session.
type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		Conn: conn,
		Send: make(chan []byte, 8),
	}
}

// Hub fans the latest view model out to every connected client. Slow
// clients are dropped rather than allowed to stall the broadcast.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mutex      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 8),
	}
}

// Start runs the hub's main loop until the context is cancelled.
func (h *Hub) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-h.register:
				h.mutex.Lock()
				h.clients[client] = true
				h.mutex.Unlock()
				logger.Debug("Live view client connected (%d active)", h.clientCount())

			case client := <-h.unregister:
				h.mutex.Lock()
				if _, ok := h.clients[client]; ok {
					delete(h.clients, client)
					close(client.Send)
				}
				h.mutex.Unlock()

			case message := <-h.broadcast:
				h.mutex.Lock()
				for client := range h.clients {
					select {
					case client.Send <- message:
					default:
						delete(h.clients, client)
						close(client.Send)
					}
				}
				h.mutex.Unlock()

			case <-ctx.Done():
				return
			}
		}
	}()
}

func (h *Hub) clientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// Register attaches a client to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister detaches a client and closes its send channel.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast queues a message for every connected client. The caller may
// hold locks of its own, so a saturated queue drops the frame instead of
// blocking; the next reconciliation supersedes it anyway.
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		logger.Warn("Live view broadcast queue full; dropping frame")
	}
}

// ReadPump drains inbound frames until the connection drops; the live feed
// is one-way, so payloads are discarded.
func (c *Client) ReadPump(h *Hub) {
	defer func() {
		h.Unregister(c)
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("Live view client read error: %v", err)
			}
			return
		}
	}
}

// WritePump forwards queued messages to the connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}
