package handlers

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/models"
)

type ProfileHandler struct {
	DB *gorm.DB
}

func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{DB: db}
}

// UserProfileResponse is the public user DTO (tanpa password)
type UserProfileResponse struct {
	ID         string   `json:"id"`
	Email      string   `json:"email"`
	FirstName  string   `json:"first_name"`
	LastName   string   `json:"last_name"`
	Role       string   `json:"role"`
	Status     string   `json:"status"`
	Bio        string   `json:"bio"`
	Skills     []string `json:"skills"`
	Experience string   `json:"experience"`
	Portfolio  []string `json:"portfolio"`
	Rating     float64  `json:"rating"`
	Location   string   `json:"location"`
}

func toUserProfileResponse(u *models.User) UserProfileResponse {
	resp := UserProfileResponse{
		ID:         u.ID.String(),
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       string(u.Role),
		Status:     string(u.Status),
		Bio:        u.Bio,
		Experience: u.Experience,
		Rating:     u.Rating,
		Location:   u.Location,
		Skills:     []string{},
		Portfolio:  []string{},
	}
	if len(u.Skills) > 0 {
		_ = json.Unmarshal(u.Skills, &resp.Skills)
	}
	if len(u.Portfolio) > 0 {
		_ = json.Unmarshal(u.Portfolio, &resp.Portfolio)
	}
	return resp
}

type UpdateProfileReq struct {
	FirstName  string   `json:"first_name"`
	LastName   string   `json:"last_name"`
	Bio        string   `json:"bio"`
	Skills     []string `json:"skills"`
	Experience string   `json:"experience"`
	Portfolio  []string `json:"portfolio"`
	Location   string   `json:"location"`
}

// Update saves the caller's own profile fields. Role dan email tidak bisa
// diubah lewat sini.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	uid, ok := middleware.CallerID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var req UpdateProfileReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	if req.Skills == nil {
		req.Skills = []string{}
	}
	if req.Portfolio == nil {
		req.Portfolio = []string{}
	}
	skills, _ := json.Marshal(req.Skills)
	portfolio, _ := json.Marshal(req.Portfolio)

	updates := map[string]interface{}{
		"bio":        strings.TrimSpace(req.Bio),
		"skills":     datatypes.JSON(skills),
		"experience": strings.TrimSpace(req.Experience),
		"portfolio":  datatypes.JSON(portfolio),
		"location":   strings.TrimSpace(req.Location),
	}
	if strings.TrimSpace(req.FirstName) != "" {
		updates["first_name"] = strings.TrimSpace(req.FirstName)
	}
	if strings.TrimSpace(req.LastName) != "" {
		updates["last_name"] = strings.TrimSpace(req.LastName)
	}

	if err := h.DB.Model(&models.User{}).Where("id = ?", uid).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to save profile",
		})
	}

	var u models.User
	if err := h.DB.First(&u, "id = ?", uid).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    toUserProfileResponse(&u),
	})
}

// Me returns the caller's own profile
func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	uid, ok := middleware.CallerID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var u models.User
	if err := h.DB.First(&u, "id = ?", uid).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    toUserProfileResponse(&u),
	})
}

// GetUser returns a public profile by id
func (h *ProfileHandler) GetUser(c *fiber.Ctx) error {
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
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    toUserProfileResponse(&u),
	})
}

// SearchFreelancers lists active freelancers with q/skills/location/minRating
// filters, rating tertinggi dulu, max 50.
func (h *ProfileHandler) SearchFreelancers(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	skills := strings.TrimSpace(c.Query("skills"))
	location := strings.TrimSpace(c.Query("location"))
	minRating := strings.TrimSpace(c.Query("minRating"))

	tx := h.DB.Model(&models.User{}).
		Where("role = ? AND status = ?", models.RoleFreelancer, models.UserStatusActive)

	if q != "" {
		like := "%" + q + "%"
		tx = tx.Where("first_name ILIKE ? OR last_name ILIKE ? OR bio ILIKE ? OR experience ILIKE ?",
			like, like, like, like)
	}
	if skills != "" {
		for _, skill := range strings.Split(skills, ",") {
			skill = strings.TrimSpace(skill)
			if skill != "" {
				tx = tx.Where("skills::text ILIKE ?", "%"+skill+"%")
			}
		}
	}
	if location != "" {
		tx = tx.Where("location ILIKE ?", "%"+location+"%")
	}
	if minRating != "" {
		if r, err := strconv.ParseFloat(minRating, 64); err == nil {
			tx = tx.Where("rating >= ?", r)
		}
	}

	var users []models.User
	if err := tx.Order("rating DESC, created_at DESC").Limit(50).Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to search freelancers",
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
