package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/models"
)

// Pusher delivers realtime payloads to connected users (realtime.Hub).
type Pusher interface {
	SendToUser(userID uuid.UUID, data interface{})
}

// Service is the notification outbox. Writes are best-effort by design:
// a failed notification must never fail the transition that triggered it,
// so Emit logs errors instead of returning them.
type Service struct {
	DB  *gorm.DB
	Hub Pusher        // optional
	RDB *redis.Client // optional, fan-out antar instance
}

func New(db *gorm.DB, hub Pusher, rdb *redis.Client) *Service {
	return &Service{DB: db, Hub: hub, RDB: rdb}
}

type Notice struct {
	UserID    uuid.UUID
	Title     string
	Message   string
	Type      models.NotificationType
	RelatedID *uuid.UUID
	ActionURL string
}

// Emit appends one notification and pushes it to the recipient.
func (s *Service) Emit(n Notice) {
	rec := models.Notification{
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		RelatedID: n.RelatedID,
		ActionURL: n.ActionURL,
	}

	if err := s.DB.Create(&rec).Error; err != nil {
		log.Printf("notify: failed to create %s notification for user %s: %v", n.Type, n.UserID, err)
		return
	}

	if s.Hub != nil {
		s.Hub.SendToUser(rec.UserID, map[string]interface{}{
			"type":         "notification",
			"notification": rec,
		})
	}

	if s.RDB != nil {
		payload, err := json.Marshal(rec)
		if err != nil {
			log.Printf("notify: marshal error: %v", err)
			return
		}
		if err := s.RDB.Publish(context.Background(), "notifications:"+rec.UserID.String(), payload).Err(); err != nil {
			log.Printf("notify: redis publish error: %v", err)
		}
	}
}
