package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigboard/internal/utils"
)

const CookieName = "jm_token"

func tokenFrom(c *fiber.Ctx) string {
	if t := c.Cookies(CookieName); t != "" {
		return t
	}
	if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	// browsers cannot set headers on a websocket upgrade
	return c.Query("token")
}

// JWTFromCookie verifies the session token and stores its claims under "claims".
func JWTFromCookie(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := tokenFrom(c)
		if tokenStr == "" {
			return fiber.ErrUnauthorized
		}
		claims, err := utils.ParseJWT(secret, tokenStr)
		if err != nil {
			return fiber.ErrUnauthorized
		}
		c.Locals("claims", claims)
		return c.Next()
	}
}
