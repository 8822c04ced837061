package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/models"
)

type AdminHandler struct {
	DB *gorm.DB
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{DB: db}
}

// Users lists all users, newest first
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	var users []models.User
	if err := h.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch users",
		})
	}

	out := make([]UserProfileResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserProfileResponse(&users[i]))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    out,
	})
}

// Projects lists all projects, newest first
func (h *AdminHandler) Projects(c *fiber.Ctx) error {
	var projects []models.Project
	if err := h.DB.Order("created_at DESC").Find(&projects).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch projects",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    projects,
	})
}

// Suspend handles POST /admin/users/:id/suspend. User tidak pernah dihapus,
// hanya statusnya jadi suspended.
func (h *AdminHandler) Suspend(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid user ID",
		})
	}

	var u models.User
	if err := h.DB.First(&u, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
			"error":   "not_found",
		})
	}

	if err := h.DB.Model(&u).Update("status", models.UserStatusSuspended).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to suspend user",
		})
	}
	u.Status = models.UserStatusSuspended

	return c.JSON(fiber.Map{
		"success": true,
		"data":    toUserProfileResponse(&u),
	})
}
