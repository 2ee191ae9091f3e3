package websocket

import (
	"context"
	"log/slog"
	"sync"

	"github.com/princekumarofficial/media-service/internal/types"
)

// Hub tracks connected uploaders and fans events out to them. Only the Run
// goroutine mutates the client set or closes a client's send channel.
type Hub struct {
	// Connections per user ID; one user may have several tabs open.
	clients map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan *BroadcastMessage
	done       chan struct{}

	// Guards clients for the read-only accessors.
	mu sync.RWMutex
}

// BroadcastMessage represents a message to be broadcast to specific users
type BroadcastMessage struct {
	UserIDs []string
	Event   *types.Event
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *BroadcastMessage, 256),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until ctx is done, then
// disconnects every client. Run must be called once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for userID, conns := range h.clients {
				for c := range conns {
					close(c.send)
				}
				delete(h.clients, userID)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			conns, ok := h.clients[client.userID]
			if !ok {
				conns = make(map[*Client]struct{})
				h.clients[client.userID] = conns
			}
			conns[client] = struct{}{}
			h.mu.Unlock()
			slog.Info("WebSocket client connected", slog.String("user_id", client.userID))

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			h.deliver(message)
			h.mu.Unlock()
		}
	}
}

// remove drops client and closes its send channel. Caller holds mu.
func (h *Hub) remove(client *Client) {
	conns, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}

	delete(conns, client)
	if len(conns) == 0 {
		delete(h.clients, client.userID)
	}
	close(client.send)
	slog.Info("WebSocket client disconnected", slog.String("user_id", client.userID))
}

// deliver queues the event on every matching connection. Clients whose
// buffer is full are disconnected. Caller holds mu.
func (h *Hub) deliver(message *BroadcastMessage) {
	data, err := message.Event.Marshal()
	if err != nil {
		slog.Error("Failed to encode event", slog.String("error", err.Error()))
		return
	}

	for _, userID := range message.UserIDs {
		for client := range h.clients[userID] {
			if !client.enqueue(data) {
				slog.Warn("WebSocket client too slow, disconnecting", slog.String("user_id", userID))
				h.remove(client)
			}
		}
	}
}

// RegisterClient reports false when the hub has stopped.
func (h *Hub) RegisterClient(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastToUsers queues an event for the given users. It never blocks;
// the event is dropped when the hub is saturated.
func (h *Hub) BroadcastToUsers(userIDs []string, event *types.Event) {
	select {
	case h.broadcast <- &BroadcastMessage{UserIDs: userIDs, Event: event}:
	default:
		slog.Warn("Broadcast channel is full, dropping message", slog.String("type", string(event.Type)))
	}
}

func (h *Hub) BroadcastToUser(userID string, event *types.Event) {
	h.BroadcastToUsers([]string{userID}, event)
}

func (h *Hub) IsUserConnected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[userID]) > 0
}

// GetClientCount returns the number of open connections
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, conns := range h.clients {
		n += len(conns)
	}
	return n
}
