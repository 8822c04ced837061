package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/models"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/services/payments"
)

type PaymentHandler struct {
	DB       *gorm.DB
	Payments *payments.Service
}

func NewPaymentHandler(db *gorm.DB, p *payments.Service) *PaymentHandler {
	return &PaymentHandler{DB: db, Payments: p}
}

type CreateIntentReq struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
}

// CreateIntent handles POST /payments/intent (Stripe test mode)
func (h *PaymentHandler) CreateIntent(c *fiber.Ctx) error {
	var req CreateIntentReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	if req.Amount <= 0 {
		errs := FieldErrors{}
		errs.Add("amount", "Amount must be positive")
		return validationFail(c, errs)
	}

	secret, err := h.Payments.CreateIntent(req.Amount, req.Currency, req.Description)
	if err != nil {
		if errors.Is(err, payments.ErrNotConfigured) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"success": false,
				"message": "Stripe not configured",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create payment intent",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"client_secret": secret},
	})
}

type RecordPaymentReq struct {
	ProjectID string  `json:"project_id"`
	Amount    float64 `json:"amount"`
}

// Record handles POST /payments/record: client konfirmasi pembayaran sukses,
// freelancer yang ditugaskan dapat notifikasi payment_received.
func (h *PaymentHandler) Record(c *fiber.Ctx) error {
	uid, ok := middleware.CallerID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var req RecordPaymentReq
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
	if req.Amount <= 0 {
		errs := FieldErrors{}
		errs.Add("amount", "Amount must be positive")
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

	if project.ClientID != uid {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Only the project owner can record payments",
			"error":   "forbidden",
		})
	}
	if project.SelectedFreelancer == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "Project has no assigned freelancer",
			"error":   "invalid_state",
		})
	}

	h.Payments.RecordPayment(*project.SelectedFreelancer, project.ID, project.Title, req.Amount)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Payment recorded",
	})
}
