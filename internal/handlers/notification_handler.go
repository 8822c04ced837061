package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/models"
)

type NotificationHandler struct {
	DB *gorm.DB
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{DB: db}
}

// List returns the caller's notifications, newest first, max 50
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	uid, ok := middleware.CallerID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var notifications []models.Notification
	if err := h.DB.
		Where("user_id = ?", uid).
		Order("created_at DESC").
		Limit(50).
		Find(&notifications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch notifications",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    notifications,
	})
}

// MarkRead handles PATCH /notifications/:id/read. Idempotent: notifikasi
// yang sudah read tetap sukses.
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	uid, ok := middleware.CallerID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid notification ID",
		})
	}

	var notification models.Notification
	if err := h.DB.First(&notification, "id = ? AND user_id = ?", id, uid).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Notification not found",
			"error":   "not_found",
		})
	}

	if !notification.IsRead {
		if err := h.DB.Model(&notification).Update("is_read", true).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to update notification",
			})
		}
		notification.IsRead = true
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    notification,
	})
}

// MarkAllRead handles PATCH /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	uid, ok := middleware.CallerID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	if err := h.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", uid, false).
		Update("is_read", true).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update notifications",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "All notifications marked as read",
	})
}

// UnreadCount handles GET /notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	uid, ok := middleware.CallerID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var count int64
	if err := h.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", uid, false).
		Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to count notifications",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"count": count},
	})
}
