package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigboard/internal/models"
)

// RequireRoles gates a route on the session role. Handlers still go through
// the lifecycle service, which repeats the check against current data.
func RequireRoles(allowed ...models.Role) fiber.Handler {
	allowedSet := map[models.Role]bool{}
	for _, r := range allowed {
		allowedSet[r] = true
	}

	return func(c *fiber.Ctx) error {
		sess := SessionFrom(c)
		if !sess.Authenticated() {
			return fiber.ErrUnauthorized
		}
		if !allowedSet[sess.Role] {
			return fiber.NewError(fiber.StatusForbidden, "forbidden: insufficient role")
		}
		return c.Next()
	}
}
