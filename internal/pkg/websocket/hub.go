package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// broadcastBuffer bounds the events waiting for the hub loop
const broadcastBuffer = 64

// Hub maintains the set of active clients and broadcasts events to them
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Events waiting to be sent to every client
	broadcast chan Event

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	mu     sync.RWMutex
	logger zerolog.Logger
}

// Event is one message pushed to the dashboard clients
type Event struct {
	// Type of event, for example "collection.status"
	Type string `json:"type"`

	Data interface{} `json:"data"`

	Timestamp time.Time `json:"timestamp"`
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Event, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.With().Str("component", "websocket").Logger(),
	}
}

// Run handles client registrations and broadcasts until ctx is done, then
// disconnects every client
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// Publish queues event for every connected client. It never blocks: when
// the queue is full or the hub has stopped the event is dropped.
func (h *Hub) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case <-h.done:
	case h.broadcast <- event:
	default:
		h.logger.Warn().Str("type", event.Type).Msg("Broadcast queue full, event dropped")
	}
}

// ClientsCount returns the number of connected clients
func (h *Hub) ClientsCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// join registers client unless the hub has stopped
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// leave unregisters client unless the hub has stopped
func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	h.logger.Info().
		Str("addr", client.conn.RemoteAddr().String()).
		Int("clients", len(h.clients)).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)

	h.logger.Info().
		Str("addr", client.conn.RemoteAddr().String()).
		Int("clients", len(h.clients)).
		Msg("Client unregistered")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		h.removeLocked(client)
	}
}

// broadcastEvent sends event to every client. Clients whose buffer is full
// are disconnected.
func (h *Hub) broadcastEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("type", event.Type).Msg("Failed to marshal event for broadcast")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			h.removeLocked(client)
		}
	}

	h.logger.Debug().
		Str("type", event.Type).
		Int("clientCount", len(h.clients)).
		Msg("Event broadcasted")
}
