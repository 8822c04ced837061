package handlers

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/models"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/services/lifecycle"
)

type ProjectHandler struct {
	DB        *gorm.DB
	Lifecycle *lifecycle.Service
}

func NewProjectHandler(db *gorm.DB, lc *lifecycle.Service) *ProjectHandler {
	return &ProjectHandler{DB: db, Lifecycle: lc}
}

type CreateProjectReq struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Budget       float64  `json:"budget"`
	Timeline     string   `json:"timeline"`
	Requirements []string `json:"requirements"`
}

// Create posts a new open project owned by the calling client
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	uid, ok := middleware.CallerID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var req CreateProjectReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	errs := FieldErrors{}
	if strings.TrimSpace(req.Title) == "" {
		errs.Add("title", "Title is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		errs.Add("description", "Description is required")
	}
	if req.Budget <= 0 {
		errs.Add("budget", "Budget must be positive")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	if req.Requirements == nil {
		req.Requirements = []string{}
	}
	reqJSON, _ := json.Marshal(req.Requirements)

	project := models.Project{
		ClientID:     uid,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Category:     strings.TrimSpace(req.Category),
		Budget:       req.Budget,
		Timeline:     strings.TrimSpace(req.Timeline),
		Status:       models.ProjectStatusOpen,
		Requirements: datatypes.JSON(reqJSON),
	}

	if err := h.DB.Create(&project).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create project",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    project,
	})
}

// List searches projects: q, category, minBudget/maxBudget, status, skills,
// sortBy/sortOrder, page/limit. Default hanya project open.
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	status := c.Query("status")
	q := strings.TrimSpace(c.Query("q"))
	category := c.Query("category")

	tx := h.DB.Model(&models.Project{})

	if status != "" && status != "all" {
		tx = tx.Where("status = ?", status)
	} else if status == "" {
		tx = tx.Where("status = ?", models.ProjectStatusOpen)
	}

	if q != "" {
		like := "%" + q + "%"
		tx = tx.Where("title ILIKE ? OR description ILIKE ? OR requirements::text ILIKE ?", like, like, like)
	}
	if category != "" && category != "all" {
		tx = tx.Where("category = ?", category)
	}
	if v := c.Query("minBudget"); v != "" {
		if b, err := strconv.ParseFloat(v, 64); err == nil {
			tx = tx.Where("budget >= ?", b)
		}
	}
	if v := c.Query("maxBudget"); v != "" {
		if b, err := strconv.ParseFloat(v, 64); err == nil {
			tx = tx.Where("budget <= ?", b)
		}
	}
	if skills := c.Query("skills"); skills != "" {
		for _, skill := range strings.Split(skills, ",") {
			skill = strings.TrimSpace(skill)
			if skill != "" {
				tx = tx.Where("requirements::text ILIKE ?", "%"+skill+"%")
			}
		}
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	sortBy := c.Query("sortBy", "created_at")
	switch sortBy {
	case "created_at", "budget", "title":
	default:
		sortBy = "created_at"
	}
	sortOrder := "DESC"
	if c.Query("sortOrder") == "asc" {
		sortOrder = "ASC"
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch projects",
		})
	}

	var projects []models.Project
	if err := tx.
		Preload("Client").
		Order(sortBy + " " + sortOrder).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&projects).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch projects",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"projects": projects,
			"pagination": fiber.Map{
				"page":  page,
				"limit": limit,
				"total": total,
				"pages": int(math.Ceil(float64(total) / float64(limit))),
			},
		},
	})
}

// My lists projects where the calling freelancer is assigned.
// Default: in-progress dan completed (bukan open).
func (h *ProjectHandler) My(c *fiber.Ctx) error {
	uid, ok := middleware.CallerID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	tx := h.DB.Where("selected_freelancer = ?", uid)

	status := c.Query("status")
	if status != "" && status != "all" {
		tx = tx.Where("status = ?", status)
	} else {
		tx = tx.Where("status IN ?", []models.ProjectStatus{
			models.ProjectStatusInProgress,
			models.ProjectStatusCompleted,
		})
	}

	var projects []models.Project
	if err := tx.Preload("Client").Order("updated_at DESC").Find(&projects).Error; err != nil {
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

// GetDetail returns one project with client and assigned freelancer preloaded
func (h *ProjectHandler) GetDetail(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid project ID",
		})
	}

	var project models.Project
	if err := h.DB.
		Preload("Client").
		Preload("Freelancer").
		First(&project, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Project not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    project,
	})
}

type UpdateProjectStatusReq struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /projects/:id. Satu-satunya transisi yang sah:
// freelancer yang ditugaskan menandai in-progress -> completed.
func (h *ProjectHandler) UpdateStatus(c *fiber.Ctx) error {
	uid, ok := middleware.CallerID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid project ID",
		})
	}

	var req UpdateProjectStatusReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	if req.Status != string(models.ProjectStatusCompleted) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Only the completed status can be set here",
			"error":   "invalid_input",
		})
	}

	project, err := h.Lifecycle.CompleteProject(uid, id)
	if err != nil {
		return svcError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    project,
	})
}
