package models

import (
	"time"

	"github.com/google/uuid"
)

type Exercise struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CourseID  uuid.UUID `gorm:"type:uuid" json:"course_id"`
	Course    Course    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Statement string    `gorm:"type:text" json:"statement"`
	// Nil counts as 0 in the duration aggregates.
	EstimatedDurationMinutes *int      `json:"estimated_duration_minutes"`
	IsActive                 bool      `gorm:"default:true;not null" json:"is_active"`
	CreatedAt                time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
