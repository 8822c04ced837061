package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/models"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/services/lifecycle"
)

type TimeHandler struct {
	DB        *gorm.DB
	Lifecycle *lifecycle.Service
}

func NewTimeHandler(db *gorm.DB, lc *lifecycle.Service) *TimeHandler {
	return &TimeHandler{DB: db, Lifecycle: lc}
}

type StartTimerReq struct {
	ProjectID   string `json:"project_id"`
	Description string `json:"description"`
}

// Start handles POST /time/start
func (h *TimeHandler) Start(c *fiber.Ctx) error {
	uid, ok := middleware.CallerID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var req StartTimerReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		errs := FieldErrors{}
		errs.Add("project_id", "Project ID is required")
		return validationFail(c, errs)
	}

	entry, err := h.Lifecycle.StartTimer(uid, projectID, req.Description)
	if err != nil {
		return svcError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    entry,
	})
}

type StopTimerReq struct {
	TimeEntryID string `json:"time_entry_id"`
}

// Stop handles POST /time/stop
func (h *TimeHandler) Stop(c *fiber.Ctx) error {
	uid, ok := middleware.CallerID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var req StopTimerReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	entryID, err := uuid.Parse(req.TimeEntryID)
	if err != nil {
		errs := FieldErrors{}
		errs.Add("time_entry_id", "Time entry ID is required")
		return validationFail(c, errs)
	}

	entry, err := h.Lifecycle.StopTimer(uid, entryID)
	if err != nil {
		return svcError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    entry,
	})
}

// List handles GET /time?projectId= (caller's entries, newest first)
func (h *TimeHandler) List(c *fiber.Ctx) error {
	uid, ok := middleware.CallerID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	tx := h.DB.Where("freelancer_id = ?", uid)
	if pid := c.Query("projectId"); pid != "" {
		projectID, err := uuid.Parse(pid)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid project ID",
			})
		}
		tx = tx.Where("project_id = ?", projectID)
	}

	var entries []models.TimeEntry
	if err := tx.Order("created_at DESC").Find(&entries).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch time entries",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    entries,
	})
}
