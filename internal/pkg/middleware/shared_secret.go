package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RequireSharedSecret guards the scheduled/sync endpoints. The secret can
// arrive as an X-API-Key header or an Authorization bearer token. An empty
// configured secret rejects every caller rather than opening the endpoint.
func RequireSharedSecret(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		presented := strings.TrimSpace(c.Get("X-API-Key"))
		if presented == "" {
			auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
			if strings.HasPrefix(auth, "Bearer ") {
				presented = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		if secret == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}
		return c.Next()
	}
}
