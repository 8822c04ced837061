package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/models"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/services/lifecycle"
)

type ProposalHandler struct {
	DB        *gorm.DB
	Lifecycle *lifecycle.Service
}

func NewProposalHandler(db *gorm.DB, lc *lifecycle.Service) *ProposalHandler {
	return &ProposalHandler{DB: db, Lifecycle: lc}
}

type SubmitProposalReq struct {
	CoverLetter    string  `json:"cover_letter"`
	ProposedBudget float64 `json:"proposed_budget"`
	Timeline       string  `json:"timeline"`
}

// Submit handles POST /projects/:id/proposals (freelancer)
func (h *ProposalHandler) Submit(c *fiber.Ctx) error {
	uid, ok := middleware.CallerID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid project ID",
		})
	}

	var req SubmitProposalReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	proposal, err := h.Lifecycle.SubmitProposal(uid, projectID, lifecycle.SubmitProposalInput{
		CoverLetter:    req.CoverLetter,
		ProposedBudget: req.ProposedBudget,
		Timeline:       req.Timeline,
	})
	if err != nil {
		return svcError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    proposal,
	})
}

// ListByProject handles GET /projects/:id/proposals (client reviews bids)
func (h *ProposalHandler) ListByProject(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid project ID",
		})
	}

	var proposals []models.Proposal
	if err := h.DB.
		Preload("Freelancer").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&proposals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch proposals",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    proposals,
	})
}

// My handles GET /proposals/my (freelancer dashboard)
func (h *ProposalHandler) My(c *fiber.Ctx) error {
	uid, ok := middleware.CallerID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var proposals []models.Proposal
	if err := h.DB.
		Preload("Project").
		Where("freelancer_id = ?", uid).
		Order("created_at DESC").
		Find(&proposals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch proposals",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    proposals,
	})
}

// Accept handles POST /proposals/:id/accept (project owner only)
func (h *ProposalHandler) Accept(c *fiber.Ctx) error {
	uid, ok := middleware.CallerID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	proposalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid proposal ID",
		})
	}

	proposal, err := h.Lifecycle.AcceptProposal(uid, proposalID)
	if err != nil {
		return svcError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    proposal,
	})
}

// Reject handles POST /proposals/:id/reject (project owner only)
func (h *ProposalHandler) Reject(c *fiber.Ctx) error {
	uid, ok := middleware.CallerID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	proposalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid proposal ID",
		})
	}

	proposal, err := h.Lifecycle.RejectProposal(uid, proposalID)
	if err != nil {
		return svcError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    proposal,
	})
}
