package voice

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/savoria/tavola/domain/repositories"
	"github.com/savoria/tavola/usecase"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512 * 1024 // 512KB for base64 audio payloads
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Hub maintains the set of active voice clients.
type Hub struct {
	// Registered clients keyed by client ID.
	clients map[string]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	mu sync.RWMutex

	assistant *usecase.AssistantService
	logger    *zap.Logger
}

// NewHub creates a new WebSocket hub
func NewHub(assistant *usecase.AssistantService, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		assistant:  assistant,
		logger:     logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.clientID] = client
			h.mu.Unlock()
			h.logger.Info("Voice client registered", zap.String("clientID", client.clientID))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.clientID]; ok {
				delete(h.clients, client.clientID)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("Voice client unregistered", zap.String("clientID", client.clientID))
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub *Hub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan []byte

	// Authenticated client ID for this connection.
	clientID string

	logger *zap.Logger
}

// HandleConnection upgrades the request and starts the client pumps for
// an already-authenticated client ID.
func HandleConnection(hub *Hub, c echo.Context, clientID string, logger *zap.Logger) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	client := &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 16),
		clientID: clientID,
		logger:   logger,
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()

	return nil
}

// readPump pumps messages from the websocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}
		c.processMessage(message)
	}
}

// writePump pumps messages from the hub to the websocket connection.
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
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
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

// processMessage dispatches an incoming JSON message by its type field.
func (c *Client) processMessage(message []byte) {
	var envelope struct {
		Type MessageType `json:"type"`
	}
	if err := json.Unmarshal(message, &envelope); err != nil {
		c.logger.Error("Failed to parse message", zap.Error(err))
		c.sendError("invalid message format")
		return
	}

	switch envelope.Type {
	case MessageTypeTextQuery:
		c.handleTextQuery(message)
	case MessageTypeAudioQuery:
		c.handleAudioQuery(message)
	default:
		c.logger.Warn("Unknown message type", zap.String("type", string(envelope.Type)))
		c.sendError("unknown message type")
	}
}

func (c *Client) handleTextQuery(message []byte) {
	var msg TextQueryMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.sendError("invalid text query")
		return
	}
	if msg.Query == "" {
		c.sendError("no query provided")
		return
	}

	response, err := c.hub.assistant.ResolveText(context.Background(), msg.Query)
	if err != nil {
		c.logger.Error("Failed to resolve text query",
			zap.String("clientID", c.clientID),
			zap.Error(err))
		c.sendError("no response generated")
		return
	}

	c.sendJSON(AssistantResponseMessage{
		Type:     MessageTypeAssistantResponse,
		Response: response,
	})
}

func (c *Client) handleAudioQuery(message []byte) {
	var msg AudioQueryMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.sendError("invalid audio query")
		return
	}

	audioData, err := base64.StdEncoding.DecodeString(msg.AudioData)
	if err != nil {
		c.sendError("invalid audio data")
		return
	}

	encoding := msg.Encoding
	if encoding == "" {
		encoding = "WEBM_OPUS"
	}
	sampleRate := msg.SampleRate
	if sampleRate == 0 {
		sampleRate = 48000
	}

	transcript, response, err := c.hub.assistant.ResolveAudio(context.Background(), audioData, repositories.AudioConfig{
		SampleRate: sampleRate,
		Encoding:   encoding,
		Language:   "en-US",
	})
	if err != nil {
		c.logger.Error("Failed to resolve audio query",
			zap.String("clientID", c.clientID),
			zap.Error(err))
		c.sendError("could not process audio")
		return
	}

	c.sendJSON(AssistantResponseMessage{
		Type:       MessageTypeAssistantResponse,
		Transcript: transcript,
		Response:   response,
	})
}

func (c *Client) sendError(message string) {
	c.sendJSON(ErrorMessage{
		Type:    MessageTypeError,
		Message: message,
	})
}

func (c *Client) sendJSON(v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		c.logger.Error("Failed to marshal message", zap.Error(err))
		return
	}
	select {
	case c.send <- payload:
	default:
		c.logger.Warn("Send buffer full, dropping message",
			zap.String("clientID", c.clientID))
	}
}
