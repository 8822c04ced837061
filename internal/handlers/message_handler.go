package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/models"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/services/notify"
)

type MessageHandler struct {
	DB     *gorm.DB
	Notify *notify.Service
}

func NewMessageHandler(db *gorm.DB, n *notify.Service) *MessageHandler {
	return &MessageHandler{DB: db, Notify: n}
}

type SendMessageReq struct {
	ReceiverID  string   `json:"receiver_id"`
	Content     string   `json:"content"`
	Attachments []string `json:"attachments"`
	ProjectID   string   `json:"project_id"`
}

// Send handles POST /messages
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	uid, ok := middleware.CallerID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var req SendMessageReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		errs := FieldErrors{}
		errs.Add("receiver_id", "Receiver ID is required")
		return validationFail(c, errs)
	}

	var sender models.User
	if err := h.DB.First(&sender, "id = ?", uid).Error; err != nil {
		return fiber.ErrUnauthorized
	}

	var receiver models.User
	if err := h.DB.First(&receiver, "id = ?", receiverID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Receiver not found",
			"error":   "not_found",
		})
	}

	if req.Attachments == nil {
		req.Attachments = []string{}
	}
	attachments, _ := json.Marshal(req.Attachments)

	msg := models.Message{
		SenderID:    uid,
		ReceiverID:  receiverID,
		Content:     req.Content,
		Attachments: datatypes.JSON(attachments),
	}

	if req.ProjectID != "" {
		projectID, err := uuid.Parse(req.ProjectID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid project ID",
			})
		}
		msg.ProjectID = &projectID
	}

	if err := h.DB.Create(&msg).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to send message",
		})
	}

	relID := msg.ID
	h.Notify.Emit(notify.Notice{
		UserID:    receiverID,
		Title:     "New Message",
		Message:   fmt.Sprintf("%s %s sent you a message.", sender.FirstName, sender.LastName),
		Type:      models.NotifMessageReceived,
		RelatedID: &relID,
		ActionURL: "/messages?withUserId=" + uid.String(),
	})

	h.DB.Preload("Sender").Preload("Receiver").First(&msg, "id = ?", msg.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    msg,
	})
}

// List handles GET /messages?withUserId=&projectId=. Tanpa withUserId,
// semua pesan milik caller (untuk daftar percakapan).
func (h *MessageHandler) List(c *fiber.Ctx) error {
	uid, ok := middleware.CallerID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	tx := h.DB.Model(&models.Message{})

	if with := c.Query("withUserId"); with != "" {
		withID, err := uuid.Parse(with)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid user ID",
			})
		}
		tx = tx.Where(
			"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			uid, withID, withID, uid,
		)
	} else {
		tx = tx.Where("sender_id = ? OR receiver_id = ?", uid, uid)
	}

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

	var msgs []models.Message
	if err := tx.Preload("Sender").Preload("Receiver").Order("created_at ASC").Find(&msgs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch messages",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    msgs,
	})
}
