package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Admin message types
const (
	MsgCrisisAlert MessageType = "crisis_alert"
	MsgConnected   MessageType = "connected"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans realtime alerts out to connected admin dashboards
type Hub struct {
	conns map[string]*Connection // connection id -> conn

	mu sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *Message
	done       chan struct{}
	closeOnce  sync.Once

	logger *slog.Logger
}

// Connection represents a WebSocket connection
type Connection struct {
	ID      string
	AdminID string
	Send    chan []byte
	Hub     *Hub
}

// NewHub creates a new WebSocket hub
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Hub{
		conns:      make(map[string]*Connection),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *Message, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for id, conn := range h.conns {
				delete(h.conns, id)
				close(conn.Send)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.conns[conn.ID] = conn
			h.mu.Unlock()
			h.logger.Info("admin connected to alert feed", "admin_id", conn.AdminID, "conn_id", conn.ID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if existing, ok := h.conns[conn.ID]; ok && existing == conn {
				delete(h.conns, conn.ID)
				close(conn.Send)
				h.logger.Info("admin disconnected from alert feed", "admin_id", conn.AdminID, "conn_id", conn.ID)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg)
			if err != nil {
				h.logger.Error("failed to encode ws message", "type", msg.Type, "error", err)
				continue
			}
			h.mu.RLock()
			for _, conn := range h.conns {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
					h.logger.Warn("dropping ws message for slow client", "conn_id", conn.ID)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Close disconnects every client and stops the hub.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// ConnectionCount returns the number of connected admins.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// BroadcastToAdmins sends a message to every admin connection (implements
// service.Broadcaster). It never blocks the caller.
func (h *Hub) BroadcastToAdmins(msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode ws payload", "type", msgType, "error", err)
		return
	}
	msg := &Message{Type: MessageType(msgType), Payload: data}

	select {
	case h.broadcast <- msg:
	case <-h.done:
	default:
		h.logger.Warn("ws broadcast queue full, dropping message", "type", msgType)
	}
}
