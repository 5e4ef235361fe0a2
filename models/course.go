package models

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ChapterID uuid.UUID `gorm:"type:uuid" json:"chapter_id"`
	Chapter   Chapter   `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	SortOrder int       `gorm:"column:sort_order;default:1" json:"sort_order"`
	// BaseDurationMinutes is the trainer-entered duration of the course body
	// itself, before exercises and QCMs are added on top.
	BaseDurationMinutes int `gorm:"default:0" json:"base_duration_minutes"`
	// DurationMinutes is the snapshot of base + active exercises + active QCMs,
	// written only by the propagation engine.
	DurationMinutes int       `gorm:"default:0" json:"duration_minutes"`
	IsActive        bool      `gorm:"default:true;not null" json:"is_active"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Exercises []Exercise `gorm:"foreignKey:CourseID" json:"exercises"`
	QCMs      []QCM      `gorm:"foreignKey:CourseID" json:"qcms"`
}
