package models

import (
	"time"

	"github.com/google/uuid"
)

type Formation struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Slug        string    `gorm:"size:255;uniqueIndex" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	// Snapshot of the aggregated duration, written only by the propagation engine.
	DurationHours int       `gorm:"default:0" json:"duration_hours"`
	IsActive      bool      `gorm:"default:true;not null" json:"is_active"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Modules []Module `gorm:"foreignKey:FormationID" json:"modules"`
}
