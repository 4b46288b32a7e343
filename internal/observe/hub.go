// Package observe implements a read-only admin feed: websocket clients
// subscribe and receive the routing-table/KV-store events the node reports
// as they happen; events for a subscriber whose buffer is full are dropped.
// It has no control-plane capability and never affects node state.
package observe

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Event is one notification broadcast to every connected observer.
type Event struct {
	Name   string                 `json:"event"`
	Fields map[string]interface{} `json:"fields,omitempty"`
}

// Hub fans out Notify calls to every subscribed websocket client.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*websocket.Conn]chan Event
}

// NewHub constructs an empty Hub.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]chan Event),
	}
}

// Notify satisfies node.Observer: it broadcasts event/fields to every
// connected client without blocking the caller.
func (h *Hub) Notify(event string, fields map[string]interface{}) {
	e := Event{Name: event, Fields: fields}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.clients {
		select {
		case ch <- e:
		default:
			// Slow subscriber; drop the event rather than block the node.
		}
	}
}

// ServeHTTP upgrades the request to a websocket and streams events to it
// until the client disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("observe: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ch := make(chan Event, 64)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		close(ch)
	}()

	for e := range ch {
		data, err := json.Marshal(e)
		if err != nil {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

// ListenAndServe binds addr and serves the admin feed until an error occurs.
func (h *Hub) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/observe", h)
	return http.ListenAndServe(addr, mux)
}
