package middleware

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/models"
)

// RequireActive blocks suspended accounts. Token bisa saja masih valid
// setelah admin suspend, jadi status dicek ke DB per request.
func RequireActive(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, ok := CallerID(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		var u models.User
		if err := db.Select("id", "status", "is_active").First(&u, "id = ?", uid).Error; err != nil {
			return fiber.ErrUnauthorized
		}

		if u.IsSuspended() || !u.IsActive {
			return fiber.NewError(fiber.StatusForbidden, "forbidden: account suspended")
		}

		return c.Next()
	}
}
