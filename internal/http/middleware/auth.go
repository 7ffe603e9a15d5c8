package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
)

// RequireAuth gates admin API routes behind a valid session. Unlike a
// login-page redirect, API clients get a 401 JSON body.
func RequireAuth(sessionMgr *cartridge.SessionManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := sessionMgr.GetUserID(c); !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthenticated",
			})
		}
		return c.Next()
	}
}
