package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// wsSearchWait is how long a websocket search waits for a free slot.
const wsSearchWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins - configure properly in production
	},
}

// WSMessage is a generic WebSocket message.
type WSMessage struct {
	Type    string          `json:"type"`    // Message type: "search", "best", "moves", "review", "analyze", "ping"
	ID      string          `json:"id"`      // Request ID for correlating responses
	Payload json.RawMessage `json:"payload"` // Type-specific payload
}

// WSResponse is a generic WebSocket response.
type WSResponse struct {
	Type    string      `json:"type"`              // Response type: "result", "error", "pong"
	ID      string      `json:"id,omitempty"`      // Request ID
	Payload interface{} `json:"payload,omitempty"` // Response data
	Error   string      `json:"error,omitempty"`   // Error message if any
	Code    string      `json:"code,omitempty"`    // Error code, same values as the HTTP API
}

// WSClient represents a connected WebSocket client.
type WSClient struct {
	conn     *websocket.Conn
	handlers *Handlers
	sendChan chan WSResponse
}

// WebSocket handles WebSocket connections for interactive analysis.
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	client := &WSClient{conn: conn, handlers: h, sendChan: make(chan WSResponse, 256)}
	go client.writePump()
	client.readPump()
}

func (c *WSClient) writePump() {
	defer c.conn.Close()
	for msg := range c.sendChan {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (c *WSClient) readPump() {
	defer func() { close(c.sendChan); c.conn.Close() }()
	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		c.handleMessage(msg)
	}
}

func (c *WSClient) sendError(id string, err *apiError) {
	c.sendChan <- WSResponse{Type: "error", ID: id, Error: err.msg, Code: err.code}
}

func (c *WSClient) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "search":
		c.handleSearch(msg)
	case "best":
		c.handleBest(msg)
	case "moves":
		c.handleMoves(msg)
	case "review":
		c.handleReview(msg)
	case "analyze":
		c.handleAnalyze(msg)
	case "ping":
		c.sendChan <- WSResponse{Type: "pong", ID: msg.ID}
	default:
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "unknown message type", Code: "UNKNOWN_TYPE"}
	}
}

// acquireSearch takes a slow slot for the duration of one message.
func (c *WSClient) acquireSearch(id string) bool {
	pool := c.handlers.pool
	if pool == nil {
		return true
	}
	if err := pool.AcquireSlowWithTimeout(wsSearchWait); err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: id, Error: "server busy", Code: "SERVER_BUSY"}
		return false
	}
	return true
}

func (c *WSClient) releaseSearch() {
	if c.handlers.pool != nil {
		c.handlers.pool.ReleaseSlow()
	}
}

func (c *WSClient) handleSearch(msg WSMessage) {
	var req SearchRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload", Code: "INVALID_JSON"}
		return
	}
	if !c.acquireSearch(msg.ID) {
		return
	}
	defer c.releaseSearch()

	resp, apiErr := c.handlers.search(req)
	if apiErr != nil {
		c.sendError(msg.ID, apiErr)
		return
	}
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: resp}
}

func (c *WSClient) handleBest(msg WSMessage) {
	var req BestRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload", Code: "INVALID_JSON"}
		return
	}
	if !c.acquireSearch(msg.ID) {
		return
	}
	defer c.releaseSearch()

	resp, apiErr := c.handlers.best(req)
	if apiErr != nil {
		c.sendError(msg.ID, apiErr)
		return
	}
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: resp}
}

func (c *WSClient) handleMoves(msg WSMessage) {
	var req MovesRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload", Code: "INVALID_JSON"}
		return
	}
	resp, apiErr := c.handlers.moves(req)
	if apiErr != nil {
		c.sendError(msg.ID, apiErr)
		return
	}
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: resp}
}

func (c *WSClient) handleReview(msg WSMessage) {
	var req ReviewRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload", Code: "INVALID_JSON"}
		return
	}
	if !c.acquireSearch(msg.ID) {
		return
	}
	defer c.releaseSearch()

	resp, apiErr := c.handlers.review(req)
	if apiErr != nil {
		c.sendError(msg.ID, apiErr)
		return
	}
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: resp}
}

func (c *WSClient) handleAnalyze(msg WSMessage) {
	var req AnalyzeRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload", Code: "INVALID_JSON"}
		return
	}
	if !c.acquireSearch(msg.ID) {
		return
	}
	defer c.releaseSearch()

	resp, apiErr := c.handlers.analyze(req)
	if apiErr != nil {
		c.sendError(msg.ID, apiErr)
		return
	}
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: resp}
}
