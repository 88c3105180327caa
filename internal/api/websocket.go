package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/virtualdeck/pass-play-be/internal/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now, customize this in production
	},
}

// Message represents a WebSocket message
type Message struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	PlayerID  string      `json:"playerId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
	playerID  string
	hub       *Hub
}

// Hub maintains the set of active clients and broadcasts messages to them.
// Clients subscribe to one session; updates are sanitized per viewer before
// they go out, so one player's device never receives another player's hand.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	sessions   map[string]map[*Client]bool
	log        zerolog.Logger
	mu         sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		sessions:   make(map[string]map[*Client]bool),
		log:        log,
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true

			if client.sessionID != "" {
				if _, exists := h.sessions[client.sessionID]; !exists {
					h.sessions[client.sessionID] = make(map[*Client]bool)
				}
				h.sessions[client.sessionID][client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)

				if client.sessionID != "" && h.sessions[client.sessionID] != nil {
					delete(h.sessions[client.sessionID], client)
					if len(h.sessions[client.sessionID]) == 0 {
						delete(h.sessions, client.sessionID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToSession sends a message to all clients watching a session.
func (h *Hub) BroadcastToSession(sessionID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		h.log.Error().Err(err).Msg("marshaling message")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if sessionClients, exists := h.sessions[sessionID]; exists {
		for client := range sessionClients {
			select {
			case client.send <- data:
			default:
				// If client buffer is full, we'll handle on next write
			}
		}
	}
}

// BroadcastSessionUpdate sends the session state to every connected client,
// each with a view sanitized for that client's player identity.
func (h *Hub) BroadcastSessionUpdate(sess *game.Session) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sessionClients, exists := h.sessions[sess.ID.String()]
	if !exists {
		return
	}

	for client := range sessionClients {
		viewerID := uuid.Nil
		if parsed, err := uuid.Parse(client.playerID); err == nil {
			viewerID = parsed
		}

		msg := Message{
			Type:      "sessionUpdate",
			SessionID: sess.ID.String(),
			Data:      sess.StateFor(viewerID),
		}

		data, err := json.Marshal(msg)
		if err != nil {
			h.log.Error().Err(err).Msg("marshaling session update")
			continue
		}

		select {
		case client.send <- data:
		default:
			// If client buffer is full, we'll handle on next write
		}
	}
}

// WebSocketHandler handles WebSocket connections
func (h *Hub) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("websocket upgrade")
		return
	}

	// Extract sessionID and playerID from query params
	sessionID := r.URL.Query().Get("sessionId")
	playerID := r.URL.Query().Get("playerId")

	client := &Client{
		conn:      conn,
		send:      make(chan []byte, 256),
		sessionID: sessionID,
		playerID:  playerID,
		hub:       h,
	}
	h.register <- client

	welcomeMsg := Message{
		Type:      "welcome",
		SessionID: sessionID,
		PlayerID:  playerID,
		Data: map[string]string{
			"message": "Connected to pass-and-play server",
		},
	}
	welcomeData, _ := json.Marshal(welcomeMsg)
	client.send <- welcomeData

	go client.readPump()
	go client.writePump()
}

// readPump pumps messages from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512 * 1024) // 512KB max message size
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Error().Err(err).Msg("websocket read")
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			c.hub.log.Error().Err(err).Msg("unmarshaling client message")
			continue
		}

		// Clients drive the game over the HTTP API; the socket is a
		// read-only state feed apart from pings.
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
