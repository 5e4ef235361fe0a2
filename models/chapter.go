package models

import (
	"time"

	"github.com/google/uuid"
)

type Chapter struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ModuleID  uuid.UUID `gorm:"type:uuid;not null" json:"module_id"`
	Module    Module    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	SortOrder int       `gorm:"column:sort_order;default:1" json:"sort_order"`
	// Snapshot in minutes, sum of the active courses' calculated durations.
	DurationMinutes int       `gorm:"default:0" json:"duration_minutes"`
	IsActive        bool      `gorm:"default:true;not null" json:"is_active"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Courses []Course `gorm:"foreignKey:ChapterID" json:"courses"`
}
