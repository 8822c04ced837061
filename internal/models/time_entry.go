package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TimeEntry struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FreelancerID uuid.UUID `gorm:"type:uuid;index;not null" json:"freelancer_id"`
	ProjectID    uuid.UUID `gorm:"type:uuid;index;not null" json:"project_id"`

	StartTime time.Time  `gorm:"not null" json:"start_time"`
	EndTime   *time.Time `json:"end_time"` // null = timer masih jalan

	Description string `gorm:"type:text" json:"description"`

	// menit, dibulatkan ke bawah; diisi saat stop
	DurationMinutes int `json:"duration_minutes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

func (t *TimeEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

// DurationBetween hitung menit kerja dari start sampai end (floor).
func DurationBetween(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}
