package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/gigboard/internal/services/lifecycle"
	"github.com/Windi-Fikriyansyah/gigboard/internal/utils"
)

type SessionResolver interface {
	Session(ctx context.Context, userID uuid.UUID) (lifecycle.Session, error)
}

// AttachSession turns verified claims into a lifecycle.Session. The role is
// resolved on every request, never read from the token.
func AttachSession(resolver SessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*utils.Claims)
		if !ok || claims == nil {
			return fiber.ErrUnauthorized
		}
		uid, err := uuid.Parse(strings.TrimSpace(claims.UserID))
		if err != nil {
			return fiber.ErrUnauthorized
		}

		sess, err := resolver.Session(c.UserContext(), uid)
		if err != nil {
			return err
		}
		c.Locals("userId", uid)
		c.Locals("session", sess)
		return c.Next()
	}
}

// SessionFrom returns the zero Session when the request is anonymous.
func SessionFrom(c *fiber.Ctx) lifecycle.Session {
	sess, _ := c.Locals("session").(lifecycle.Session)
	return sess
}
