// Package websocket handles real-time push between the assistant and its viewers.
// file: websocket/broadcast.go
package websocket

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"go-ref-assist/logger"
	"go-ref-assist/metrics"
)

// Hub tracks live connections and fans broadcast messages out to them.
type Hub struct {
	mu          sync.RWMutex
	connections map[*Connection]bool

	broadcast chan []byte
	done      chan struct{}
	closeOnce sync.Once

	handler  ActionHandler
	recorder metrics.Recorder
	upgrader websocket.Upgrader
}

// NewHub creates a hub. An empty allowedOrigins list accepts any origin.
func NewHub(handler ActionHandler, allowedOrigins []string, recorder metrics.Recorder) *Hub {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	h := &Hub{
		connections: make(map[*Connection]bool),
		broadcast:   make(chan []byte, sendBuffer),
		done:        make(chan struct{}),
		handler:     handler,
		recorder:    recorder,
	}
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			// non-browser clients send no origin
			return origin == "" || len(allowed) == 0 || allowed[origin]
		},
	}
	return h
}

// HandleMessages distributes queued broadcasts until the hub is closed.
func (h *Hub) HandleMessages() {
	for {
		select {
		case <-h.done:
			return
		case msg := <-h.broadcast:
			h.mu.RLock()
			for c := range h.connections {
				select {
				case c.send <- msg:
				default:
					logger.Warn.Printf("Dropping broadcast message for connection %v", c.conn.RemoteAddr())
				}
			}
			h.mu.RUnlock()
		}
	}
}

// SendBroadcastMessage queues raw bytes for every connection.
func (h *Hub) SendBroadcastMessage(data []byte) {
	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}

// sendTo delivers a message to a single connection.
func (h *Hub) sendTo(c *Connection, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.connections[c] {
		return
	}
	select {
	case c.send <- data:
	default:
		logger.Warn.Printf("Dropping direct message for connection %v", c.conn.RemoteAddr())
	}
}

func (h *Hub) register(c *Connection) {
	h.mu.Lock()
	h.connections[c] = true
	n := len(h.connections)
	h.mu.Unlock()
	h.recorder.Connections(n)
	logger.Info.Printf("[Hub.register] connection %s (operator=%t), %d connected", c.id, c.operator, n)
}

func (h *Hub) unregister(c *Connection) {
	h.mu.Lock()
	if !h.connections[c] {
		h.mu.Unlock()
		return
	}
	delete(h.connections, c)
	close(c.send)
	n := len(h.connections)
	h.mu.Unlock()
	h.recorder.Connections(n)
	logger.Info.Printf("[Hub.unregister] connection %s, %d connected", c.id, n)
}

// Count returns the number of live connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Close stops the broadcast loop and closes every connection.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
		h.mu.Lock()
		for c := range h.connections {
			delete(h.connections, c)
			close(c.send)
		}
		h.mu.Unlock()
		h.recorder.Connections(0)
	})
}
