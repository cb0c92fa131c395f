// Package notifications delivers public feed events to websocket
// subscribers in real time.
package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"lumina/internal/feed"
	"lumina/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const (
	// Max total connections
	maxTotalConns = 10000
)

// Hub fans feed events out to every connected subscriber. It implements
// feed.EventSink.
type Hub struct {
	mu       sync.RWMutex
	conns    map[*Client]struct{}
	shutdown chan struct{}
	done     chan struct{}
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		conns:    make(map[*Client]struct{}),
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Register adds a connection. Returns the Client or an error if the server
// connection limit is reached.
func (h *Hub) Register(conn *websocket.Conn, viewer string) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.conns) >= maxTotalConns {
		return nil, errors.New("server connection limit reached")
	}

	client := NewClient(h, conn, viewer)
	h.conns[client] = struct{}{}
	observability.WebSocketConnectionsTotal.Inc()
	return client, nil
}

// UnregisterClient removes a connection registered through Register.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[client]; ok {
		delete(h.conns, client)
		observability.WebSocketConnectionsTotal.Dec()
	}
}

// Publish implements feed.EventSink: the event is serialized once and
// broadcast to every subscriber. Slow subscribers drop events rather than
// blocking the feed mutation that produced them.
func (h *Hub) Publish(event feed.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal feed event %q: %v", event.Type, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns {
		c.TrySend(data)
	}
}

// SubscriberCount reports the number of active subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Shutdown gracefully closes all websocket connections
func (h *Hub) Shutdown(_ context.Context) error {
	close(h.shutdown)

	h.mu.Lock()
	for client := range h.conns {
		if client.Conn == nil {
			continue
		}
		if err := client.Conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down")); err != nil {
			log.Printf("failed to write close message for viewer %q: %v", client.Viewer, err)
		}
		if err := client.Conn.Close(); err != nil {
			log.Printf("failed to close websocket for viewer %q: %v", client.Viewer, err)
		}
	}
	h.conns = make(map[*Client]struct{})
	h.mu.Unlock()

	close(h.done)
	return nil
}
