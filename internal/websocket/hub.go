package websocket

import (
	"encoding/json"
	"sync"

	"github.com/tastebase/tastebase-backend/pkg/logger"
)

// Client is a single WebSocket session for a user
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte
}

// Hub tracks connected clients and pushes notification events to them.
// A user may hold several sessions at once (multiple devices or tabs).
type Hub struct {
	clients map[uint][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

// NewHub creates a Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
	}
}

// Run processes register/unregister events. Call in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			sessions := len(h.clients[client.UserID])
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": sessions,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			removed := false
			if clientList, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c == client {
						removed = true
						continue
					}
					newList = append(newList, c)
				}

				if len(newList) == 0 {
					delete(h.clients, client.UserID)
				} else {
					h.clients[client.UserID] = newList
				}
			}
			// The same session can be unregistered twice (send-buffer
			// overflow plus the read pump's deferred unregister); only
			// the pass that removed it may close Send.
			if removed {
				close(client.Send)
			}
			remaining := len(h.clients[client.UserID])
			h.mu.Unlock()
			if removed {
				logger.Info("WebSocket client unregistered", map[string]interface{}{
					"user_id":            client.UserID,
					"remaining_sessions": remaining,
				})
			}
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// SendToUser pushes a payload to every session of a user. Sessions with a
// full send buffer are disconnected rather than blocking the caller.
func (h *Hub) SendToUser(userID uint, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal websocket payload", err, nil)
		return err
	}

	h.mu.RLock()
	clientList := h.clients[userID]
	h.mu.RUnlock()

	for _, client := range clientList {
		select {
		case client.Send <- data:
		default:
			go h.Unregister(client)
			logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
				"user_id": userID,
			})
		}
	}
	return nil
}

// IsUserOnline reports whether a user has at least one open session
func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}
