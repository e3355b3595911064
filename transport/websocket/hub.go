package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/wricardo/gecko-puzzle/game/engine"
	"github.com/wricardo/gecko-puzzle/game/service"
	"github.com/wricardo/gecko-puzzle/logger"
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

	// Outbound messages buffered per client and in the hub
	sendBuffer      = 256
	broadcastBuffer = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is pushed to clients of a session
type Message struct {
	SessionID string              `json:"session_id"`
	Event     string              `json:"event,omitempty"`
	State     *service.GameState  `json:"state,omitempty"`
	Frame     *engine.DisplayList `json:"frame,omitempty"`
	Value     int                 `json:"value,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// ClientMessage is a pointer sample sent by a client
type ClientMessage struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// InputHandler receives pointer input read from clients
type InputHandler interface {
	Pointer(ctx context.Context, sessionID string, ev service.PointerEvent) (*service.GameState, error)
}

// Client represents a WebSocket client
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	// Registered clients by session ID
	sessions map[string]map[*Client]bool

	// Outbound messages for a session's clients
	broadcast chan *Message

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Functions run on the hub goroutine
	queries chan func()

	// Closed when Run returns
	done chan struct{}

	input InputHandler
	log   *logrus.Entry
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		queries:    make(chan func()),
		done:       make(chan struct{}),
		log:        logger.Log.WithField("component", "websocket"),
	}
}

// SetInputHandler wires client pointer input; call before Run
func (h *Hub) SetInputHandler(input InputHandler) {
	h.input = input
}

// Run starts the hub's event loop and closes every client when ctx ends
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

		case fn := <-h.queries:
			fn()
		}
	}
}

// ServeWS handles WebSocket requests from clients. The client is registered
// when ServeWS returns.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
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

// Publish queues a session update without blocking; it implements service.Notifier
func (h *Hub) Publish(u service.Update) {
	message := &Message{
		SessionID: u.SessionID,
		Event:     u.Event,
		State:     u.State,
		Frame:     u.Frame,
		Value:     u.Value,
	}
	select {
	case h.broadcast <- message:
	default:
		h.log.WithFields(logrus.Fields{
			"session": u.SessionID,
			"event":   u.Event,
		}).Warn("broadcast queue full, dropping update")
	}
}

// ClientCount returns the number of clients attached to a session
func (h *Hub) ClientCount(sessionID string) int {
	result := make(chan int, 1)
	if !h.do(func() { result <- len(h.sessions[sessionID]) }) {
		return 0
	}
	return <-result
}

// do runs fn on the hub goroutine; it reports false once the hub has stopped
func (h *Hub) do(fn func()) bool {
	select {
	case h.queries <- fn:
		return true
	case <-h.done:
		return false
	}
}

// registerClient adds a client to a session
func (h *Hub) registerClient(client *Client) {
	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true

	h.log.WithFields(logrus.Fields{
		"session": client.sessionID,
		"clients": len(h.sessions[client.sessionID]),
	}).Info("client registered")
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

	// Clean up empty sessions
	if len(clients) == 0 {
		delete(h.sessions, client.sessionID)
	}

	h.log.WithFields(logrus.Fields{
		"session": client.sessionID,
		"clients": len(clients),
	}).Info("client unregistered")
}

// broadcastMessage sends a message to all clients in a session
func (h *Hub) broadcastMessage(message *Message) {
	clients, ok := h.sessions[message.SessionID]
	if !ok {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		h.log.WithError(err).Error("failed to marshal broadcast message")
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

// handleInput forwards one client message to the input handler
func (c *Client) handleInput(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.hub.log.WithError(err).WithField("session", c.sessionID).Debug("ignoring malformed client message")
		return
	}
	if c.hub.input == nil {
		return
	}

	ev := service.PointerEvent{Type: msg.Type, X: msg.X, Y: msg.Y}
	if _, err := c.hub.input.Pointer(context.Background(), c.sessionID, ev); err != nil {
		c.hub.log.WithError(err).WithField("session", c.sessionID).Debug("pointer input rejected")
		c.reply(&Message{SessionID: c.sessionID, Event: "error", Error: err.Error()})
	}
}

// reply queues a message for this client only, dropping it when the buffer is full
func (c *Client) reply(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		return
	}
	c.hub.do(func() {
		if !c.hub.sessions[c.sessionID][c] {
			return
		}
		select {
		case c.send <- data:
		default:
		}
	})
}

// readPump pumps pointer messages from the WebSocket connection to the input handler
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
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.WithError(err).WithField("session", c.sessionID).Warn("websocket read error")
			}
			break
		}
		c.handleInput(data)
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
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
