package middleware

import (
	"github.com/gofiber/fiber/v2"

	"medrag/app/api"
)

// RequireAPIKey guards a route group with a static key. When no key is
// configured the guard is open (dev mode); otherwise X-API-Key must match.
func RequireAPIKey(apiKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if apiKey == "" {
			return c.Next()
		}
		if c.Get("X-API-Key") != apiKey {
			return api.ErrUnAuthorized("Invalid or missing API key")
		}
		return c.Next()
	}
}
