package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/utils"
)

// AttachJWTLocals resolves the token claims into plain locals:
// userId (uuid.UUID) dan role (string lowercase).
func AttachJWTLocals() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Locals("user")
		if raw == nil {
			return fiber.ErrUnauthorized
		}

		token, ok := raw.(*jwt.Token)
		if !ok || token == nil {
			return fiber.ErrUnauthorized
		}

		claims, ok := token.Claims.(*utils.Claims)
		if !ok {
			return fiber.ErrUnauthorized
		}

		uid, err := uuid.Parse(strings.TrimSpace(claims.UserID))
		if err != nil {
			return fiber.ErrUnauthorized
		}
		role := strings.ToLower(strings.TrimSpace(claims.Role))

		c.Locals("userId", uid)
		c.Locals("role", role)

		return c.Next()
	}
}

// CallerID reads the resolved caller out of locals. Second return false
// berarti middleware chain belum jalan (request tidak terautentikasi).
func CallerID(c *fiber.Ctx) (uuid.UUID, bool) {
	uid, ok := c.Locals("userId").(uuid.UUID)
	return uid, ok
}
