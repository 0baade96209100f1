package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/ayusman/handcam/internal/app"
	"github.com/gorilla/websocket"
)

// ClientBufferSize is how many messages may queue for a slow client before
// new ones are dropped for it.
const ClientBufferSize = 32

const writeTimeout = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// IntentsHandler streams each interpreted frame's intents to WebSocket
// clients. Frames without intents are not sent.
type IntentsHandler struct {
	clients map[*websocket.Conn]chan []byte
	closed  bool
	mu      sync.RWMutex
}

// NewIntentsHandler creates an IntentsHandler with no clients.
func NewIntentsHandler() *IntentsHandler {
	return &IntentsHandler{clients: make(map[*websocket.Conn]chan []byte)}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *IntentsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan []byte, ClientBufferSize)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.clients[conn] = send
	h.mu.Unlock()

	defer h.remove(conn)

	go h.write(conn, send)

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *IntentsHandler) write(conn *websocket.Conn, send <-chan []byte) {
	for msg := range send {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			conn.Close()
			return
		}
	}
}

func (h *IntentsHandler) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if send, ok := h.clients[conn]; ok {
		close(send)
		delete(h.clients, conn)
	}
}

// Publish queues u for every client. It never blocks.
func (h *IntentsHandler) Publish(u app.Update) {
	if len(u.Intents) == 0 {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.clients) == 0 {
		return
	}

	msg, err := json.Marshal(u)
	if err != nil {
		log.Printf("Error encoding update: %v", err)
		return
	}
	for _, send := range h.clients {
		select {
		case send <- msg:
		default:
		}
	}
}

// Clients returns the number of connected clients.
func (h *IntentsHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *IntentsHandler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for conn := range h.clients {
		conn.Close()
	}
}
