package models

import (
	"time"

	"github.com/google/uuid"
)

type Module struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FormationID uuid.UUID `gorm:"type:uuid;not null" json:"formation_id"`
	Formation   Formation `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	SortOrder   int       `gorm:"column:sort_order;default:1" json:"sort_order"`
	// Snapshot in whole hours, rounded up from the chapters' minutes.
	DurationHours int       `gorm:"default:0" json:"duration_hours"`
	IsActive      bool      `gorm:"default:true;not null" json:"is_active"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Chapters []Chapter `gorm:"foreignKey:ModuleID" json:"chapters"`
}
