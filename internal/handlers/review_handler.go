package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/models"
)

type ReviewHandler struct {
	DB *gorm.DB
}

func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{DB: db}
}

type CreateReviewReq struct {
	ProjectID  string `json:"project_id"`
	RevieweeID string `json:"reviewee_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
	ReviewType string `json:"review_type"`
}

// Create handles POST /reviews. Kombinasi (project, reviewer, reviewee)
// hanya boleh direview sekali; duplikat dijawab 409.
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	uid, ok := middleware.CallerID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var req CreateReviewReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	errs := FieldErrors{}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		errs.Add("project_id", "Project ID is required")
	}
	revieweeID, err := uuid.Parse(req.RevieweeID)
	if err != nil {
		errs.Add("reviewee_id", "Reviewee ID is required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		errs.Add("rating", "Rating must be between 1 and 5")
	}
	if len(req.Comment) > 1000 {
		errs.Add("comment", "Comment must be at most 1000 characters")
	}
	reviewType := models.ReviewType(strings.TrimSpace(req.ReviewType))
	if reviewType != models.ReviewClientToFreelancer && reviewType != models.ReviewFreelancerToClient {
		errs.Add("review_type", "Review type must be client-to-freelancer or freelancer-to-client")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	var project models.Project
	if err := h.DB.First(&project, "id = ?", projectID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Project not found",
			"error":   "not_found",
		})
	}

	review := models.Review{
		ProjectID:  projectID,
		ReviewerID: uid,
		RevieweeID: revieweeID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		ReviewType: reviewType,
	}

	if err := h.DB.Create(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"message": "You have already reviewed this user for this project",
				"error":   "conflict",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create review",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    review,
	})
}

// List handles GET /reviews?projectId=&userId= (userId = reviewee)
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	tx := h.DB.Model(&models.Review{})

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
	if uidq := c.Query("userId"); uidq != "" {
		userID, err := uuid.Parse(uidq)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid user ID",
			})
		}
		tx = tx.Where("reviewee_id = ?", userID)
	}

	var reviews []models.Review
	if err := tx.Preload("Reviewer").Order("created_at DESC").Find(&reviews).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch reviews",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    reviews,
	})
}
