package walletws

import (
	"context"
	"encoding/json"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Hub fans wallet events out to every open console of a user.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	done       chan struct{}
	logger     *zap.Logger
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

type Message struct {
	Type      string `json:"type"`
	UserID    string `json:"user_id"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 64),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
	}
}

// Run serves the hub until ctx is done, then closes every open console.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.stop()
			return
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			set, ok := h.clients[client.userID]
			if !ok {
				continue
			}
			if _, exists := set[client]; exists {
				delete(set, client)
				close(client.send)
			}
			if len(set) == 0 {
				delete(h.clients, client.userID)
			}
		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

func (h *Hub) stop() {
	close(h.done)
	for userID, set := range h.clients {
		for client := range set {
			close(client.send)
		}
		delete(h.clients, userID)
	}
	h.logger.Info("wallet hub stopped")
}

// Register adds client to the hub. A stopped hub closes the client instead.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Notify queues an event for userID. It never blocks the caller: when the
// queue is full the event is dropped and the console picks the change up on
// its next load.
func (h *Hub) Notify(userID, kind, content string) {
	message := &Message{
		Type:      kind,
		UserID:    userID,
		Content:   content,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("wallet hub queue full, dropping event",
			zap.String("user_id", userID),
			zap.String("type", kind),
		)
	}
}

func (h *Hub) deliver(message *Message) {
	encoded, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("wallet hub encode message", zap.Error(err))
		return
	}

	set, ok := h.clients[message.UserID]
	if !ok {
		return
	}

	for client := range set {
		select {
		case client.send <- encoded:
		default:
			delete(set, client)
			close(client.send)
		}
	}
	if len(set) == 0 {
		delete(h.clients, message.UserID)
	}
}

// ReadPump only answers pings; consoles never push wallet state.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var incoming struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(payload, &incoming); err != nil || incoming.Type != "ping" {
			continue
		}
		pong, err := json.Marshal(Message{
			Type:      "pong",
			UserID:    c.userID,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			continue
		}
		select {
		case c.send <- pong:
		default:
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
