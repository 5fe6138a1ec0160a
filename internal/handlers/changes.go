package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/gigboard/internal/realtime"
)

type ChangesHandler struct {
	Hub    *realtime.Hub
	Logger *zap.Logger
}

// Upgrade rejects plain HTTP requests; the auth middleware runs before it.
func (h *ChangesHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

func (h *ChangesHandler) Stream() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		uid, _ := conn.Locals("userId").(uuid.UUID)
		realtime.Serve(h.Hub, conn, uid, h.Logger)
	})
}
