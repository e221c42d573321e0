// Package admin exposes the operator-facing HTTP API: knowledge
// management, personality updates, handoff rule reload, and a live
// websocket feed of pipeline events.
package admin

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/helpdeskhq/waverly/internal/pipeline"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans pipeline events out to connected websocket clients. It
// implements pipeline.EventSink; Publish never blocks the reply path, a
// slow client just misses events.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan pipeline.Event
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]chan pipeline.Event)}
}

// Publish delivers an event to every connected client without blocking.
func (h *Hub) Publish(ev pipeline.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.clients {
		select {
		case ch <- ev:
		default:
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) register(conn *websocket.Conn) chan pipeline.Event {
	ch := make(chan pipeline.Event, 32)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()
	return ch
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	if ch, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(ch)
	}
	h.mu.Unlock()
}

// HandleEvents upgrades the connection and streams pipeline events as
// JSON until the client disconnects.
func (h *Hub) HandleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("admin: websocket upgrade: %v", err)
		return
	}
	ch := h.register(conn)
	defer func() {
		h.unregister(conn)
		conn.Close()
	}()

	// Drain reads so close frames are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.unregister(conn)
				return
			}
		}
	}()

	for ev := range ch {
		if err := conn.WriteJSON(ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("admin: websocket write: %v", err)
			}
			return
		}
	}
}
