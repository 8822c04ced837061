package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Role string

const (
	RoleClient     Role = "client"
	RoleFreelancer Role = "freelancer"
	RoleAdmin      Role = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// internal/models/user.go
type User struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email string    `gorm:"uniqueIndex;not null" json:"email"`

	Password string `gorm:"not null" json:"-"`

	FirstName string `gorm:"type:varchar(80);not null" json:"first_name"`
	LastName  string `gorm:"type:varchar(80);not null" json:"last_name"`

	Role   Role       `gorm:"type:varchar(20);not null;index" json:"role"`
	Status UserStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`

	IsActive   bool `gorm:"default:true" json:"is_active"`
	IsVerified bool `gorm:"default:false" json:"is_verified"`

	// Profile fields
	Bio        string         `gorm:"type:text" json:"bio"`
	Skills     datatypes.JSON `json:"skills"`    // ["go", "react", ...]
	Experience string         `gorm:"type:text" json:"experience"`
	Portfolio  datatypes.JSON `json:"portfolio"` // list of URLs
	Rating     float64        `gorm:"default:0" json:"rating"`
	Location   string         `gorm:"type:varchar(120)" json:"location"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// user suspended tetap punya record, hanya tidak boleh akses
func (u *User) IsSuspended() bool {
	return u.Status == UserStatusSuspended
}
