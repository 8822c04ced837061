package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotifProposalReceived NotificationType = "proposal_received"
	NotifProposalAccepted NotificationType = "proposal_accepted"
	NotifProposalRejected NotificationType = "proposal_rejected"
	NotifPaymentReceived  NotificationType = "payment_received"
	NotifProjectCompleted NotificationType = "project_completed"
	NotifMessageReceived  NotificationType = "message_received"
	NotifAdminNotice      NotificationType = "admin_notice"
)

// Notification itu append-only; satu-satunya mutasi adalah isRead.
type Notification struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_notif_user_created;index:idx_notif_user_read" json:"user_id"`

	Title   string           `gorm:"not null" json:"title"`
	Message string           `gorm:"type:text;not null" json:"message"`
	Type    NotificationType `gorm:"type:varchar(30);not null" json:"type"`

	// ID entity pemicu (proposal, project, message, dll)
	RelatedID *uuid.UUID `gorm:"type:uuid" json:"related_id,omitempty"`

	IsRead    bool   `gorm:"default:false;index:idx_notif_user_read" json:"is_read"`
	ActionURL string `gorm:"type:text" json:"action_url,omitempty"`

	CreatedAt time.Time `gorm:"index:idx_notif_user_created" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}
