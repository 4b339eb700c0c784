package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/app"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// IntentSource is the part of the application the intent stream consumes.
type IntentSource interface {
	AddIntentListener(fn func(app.IntentEvent))
}

// IntentsHandler broadcasts recognized intents to WebSocket clients as
// the pipeline publishes them.
type IntentsHandler struct {
	events  chan app.IntentEvent
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewIntentsHandler creates a new IntentsHandler subscribed to the given source.
func NewIntentsHandler(source IntentSource) *IntentsHandler {
	h := &IntentsHandler{
		events:  make(chan app.IntentEvent, 16),
		clients: make(map[*websocket.Conn]bool),
	}
	source.AddIntentListener(h.enqueue)
	go h.broadcast()
	return h
}

// enqueue hands an event to the broadcast goroutine. Events are dropped
// when the buffer is full so a slow client cannot stall the pipeline.
func (h *IntentsHandler) enqueue(ev app.IntentEvent) {
	select {
	case h.events <- ev:
	default:
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *IntentsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast fans intent events out to all connected clients. A failed
// write is left alone; the client's read loop notices the dead
// connection and removes it.
func (h *IntentsHandler) broadcast() {
	for ev := range h.events {
		msg, _ := json.Marshal(ev)

		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
