package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/gigboard/internal/services/lifecycle"
)

type Client struct {
	ID     string
	UserID uuid.UUID
	Conn   *WebSocketConn
	Send   chan []byte
}

// Frame tells a subscriber that a collection changed and should be refetched.
// It never carries row data.
type Frame struct {
	Type       string               `json:"type"`
	Collection lifecycle.Collection `json:"collection"`
	Op         lifecycle.Op         `json:"op"`
	ID         uuid.UUID            `json:"id,omitempty"`
	JobID      uuid.UUID            `json:"job_id,omitempty"`
	At         time.Time            `json:"at"`
}

func FrameFor(change lifecycle.Change) Frame {
	return Frame{
		Type:       "invalidate",
		Collection: change.Collection,
		Op:         change.Op,
		ID:         change.ID,
		JobID:      change.JobID,
		At:         change.At,
	}
}

type Hub struct {
	clients    map[string]*Client
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	stopped    chan struct{}
	mu         sync.RWMutex
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stopped:    make(chan struct{}),
		logger:     logger,
	}
}

// RegisterClient closes client.Send right away if the hub has stopped.
func (h *Hub) RegisterClient(client *Client) {
	select {
	case h.register <- client:
	case <-h.stopped:
		close(client.Send)
	}
}

func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stopped:
	}
}

// Publish queues an invalidate frame for every connected client.
func (h *Hub) Publish(change lifecycle.Change) {
	b, err := json.Marshal(FrameFor(change))
	if err != nil {
		h.logger.Error("marshal frame", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- b:
	case <-h.stopped:
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Run owns the client set until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.stopped)
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.Send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.logger.Debug("client registered", zap.String("client_id", client.ID), zap.String("user_id", client.UserID.String()))

		case client := <-h.unregister:
			h.mu.Lock()
			if old, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(old.Send)
				h.logger.Debug("client unregistered", zap.String("client_id", client.ID))
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for id, client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// slow consumer; it refetches on reconnect
					close(client.Send)
					delete(h.clients, id)
				}
			}
			h.mu.Unlock()
		}
	}
}
