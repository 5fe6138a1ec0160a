package realtime

import (
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// WebSocketConn keeps the websocket type out of the hub.
type WebSocketConn struct {
	Conn *websocket.Conn
}

func NewWebSocketConn(c *websocket.Conn) *WebSocketConn {
	return &WebSocketConn{Conn: c}
}

func (w *WebSocketConn) write(messageType int, data []byte) error {
	_ = w.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.Conn.WriteMessage(messageType, data)
}

func (w *WebSocketConn) WriteText(data []byte) error {
	return w.write(websocket.TextMessage, data)
}

func (w *WebSocketConn) Ping() error {
	return w.write(websocket.PingMessage, nil)
}

func (w *WebSocketConn) SendClose() error {
	return w.write(websocket.CloseMessage, []byte{})
}

// Drain reads and discards until the peer goes away.
func (w *WebSocketConn) Drain() {
	for {
		if _, _, err := w.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (w *WebSocketConn) Close() error {
	return w.Conn.Close()
}

// writePump forwards hub frames to the socket until Send is closed or a write fails.
func (c *Client) writePump(logger *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.Send:
			if !ok {
				_ = c.Conn.SendClose()
				return
			}
			if err := c.Conn.WriteText(msg); err != nil {
				logger.Debug("websocket write", zap.String("client_id", c.ID), zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := c.Conn.Ping(); err != nil {
				return
			}
		}
	}
}

// Serve registers the connection with the hub and blocks until the peer goes away.
// Clients only listen; anything they send is read and dropped.
func Serve(h *Hub, conn *websocket.Conn, userID uuid.UUID, logger *zap.Logger) {
	client := &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		Conn:   NewWebSocketConn(conn),
		Send:   make(chan []byte, 64),
	}
	h.RegisterClient(client)

	done := make(chan struct{})
	go func() {
		defer close(done)
		client.writePump(logger)
	}()

	client.Conn.Drain()
	h.UnregisterClient(client)
	_ = client.Conn.Close()
	<-done
}
