package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/gigboard/internal/middleware"
	"github.com/Windi-Fikriyansyah/gigboard/internal/services/lifecycle"
)

func session(c *fiber.Ctx) lifecycle.Session {
	return middleware.SessionFrom(c)
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, badID(name)
	}
	return id, nil
}

func ok(c *fiber.Ctx, status int, message string, data interface{}) error {
	body := fiber.Map{"success": true, "data": data}
	if message != "" {
		body["message"] = message
	}
	return c.Status(status).JSON(body)
}
