package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/mancala/game/engine"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Event names carried in Message.Event
const (
	EventStateUpdate = "state_update"
	EventGameEvents  = "events"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Any origin may connect
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message represents a WebSocket message
type Message struct {
	SessionID string            `json:"session_id"`
	GameState *engine.GameState `json:"game_state,omitempty"`
	Event     string            `json:"event,omitempty"`
	Data      any               `json:"data,omitempty"`
}

// Client represents a WebSocket client
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

type countRequest struct {
	sessionID string
	reply     chan int
}

// Hub maintains the set of active clients per session and fans messages out
// to them. All client bookkeeping happens on the Run goroutine.
type Hub struct {
	// Registered clients by session ID
	sessions map[string]map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	counts     chan countRequest
	done       chan struct{}
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, engine.WebSocketBufferSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		counts:     make(chan countRequest),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop and returns when ctx is cancelled. Every
// client connection is closed on the way out.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.sessions {
				for client := range clients {
					h.unregisterClient(client)
				}
			}
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case req := <-h.counts:
			req.reply <- len(h.sessions[req.sessionID])
		}
	}
}

// ServeWS upgrades the request and attaches the connection to a session
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, engine.WebSocketBufferSize),
		sessionID: sessionID,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// ClientCount reports how many clients watch a session. It returns 0 once
// the hub has stopped.
func (h *Hub) ClientCount(sessionID string) int {
	req := countRequest{sessionID: sessionID, reply: make(chan int, 1)}
	select {
	case h.counts <- req:
		return <-req.reply
	case <-h.done:
		return 0
	}
}

// BroadcastToSession sends a game state update to all clients in a session
func (h *Hub) BroadcastToSession(sessionID string, state *engine.GameState) {
	h.enqueue(&Message{
		SessionID: sessionID,
		GameState: state,
		Event:     EventStateUpdate,
	})
}

// BroadcastEvent sends a custom event to all clients in a session
func (h *Hub) BroadcastEvent(sessionID string, event string, data any) {
	h.enqueue(&Message{
		SessionID: sessionID,
		Event:     event,
		Data:      data,
	})
}

// enqueue hands a message to the hub without blocking the caller
func (h *Hub) enqueue(message *Message) {
	select {
	case h.broadcast <- message:
	default:
		log.Warn().Str("session", message.SessionID).Str("event", message.Event).Msg("websocket broadcast queue full, dropping message")
	}
}

// registerClient adds a client to a session
func (h *Hub) registerClient(client *Client) {
	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true

	log.Debug().Str("session", client.sessionID).Int("clients", len(h.sessions[client.sessionID])).Msg("websocket client registered")
}

// unregisterClient removes a client from a session
func (h *Hub) unregisterClient(client *Client) {
	clients, ok := h.sessions[client.sessionID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)

	if len(clients) == 0 {
		delete(h.sessions, client.sessionID)
	}

	log.Debug().Str("session", client.sessionID).Int("clients", len(clients)).Msg("websocket client unregistered")
}

// broadcastMessage sends a message to all clients in a session. Clients
// whose buffers are full are dropped.
func (h *Hub) broadcastMessage(message *Message) {
	clients, ok := h.sessions[message.SessionID]
	if !ok {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Error().Err(err).Str("session", message.SessionID).Msg("failed to marshal websocket message")
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			h.unregisterClient(client)
		}
	}
}

// readPump drains the connection so pongs and close frames are processed.
// Clients never send commands over the socket.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("session", c.sessionID).Msg("websocket read error")
			}
			return
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One JSON document per frame
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
