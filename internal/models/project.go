package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectStatusOpen       ProjectStatus = "open"
	ProjectStatusInProgress ProjectStatus = "in-progress"
	ProjectStatusCompleted  ProjectStatus = "completed" // terminal
)

type Project struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID uuid.UUID `gorm:"type:uuid;index;not null" json:"client_id"`

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	Category    string `gorm:"type:varchar(80);index" json:"category"`
	Budget      float64 `gorm:"not null" json:"budget"`
	Timeline    string  `gorm:"type:varchar(120)" json:"timeline"`

	Status       ProjectStatus  `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	Requirements datatypes.JSON `json:"requirements"` // list of skill strings

	// terisi hanya saat status in-progress / completed
	SelectedFreelancer *uuid.UUID `gorm:"type:uuid;index" json:"selected_freelancer,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Client     *User `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Freelancer *User `gorm:"foreignKey:SelectedFreelancer" json:"freelancer,omitempty"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
