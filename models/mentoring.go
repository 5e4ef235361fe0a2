package models

import (
	"time"

	"github.com/google/uuid"
)

// Mentor assignment statuses.
const (
	AssignmentStatusActive = "active"
	AssignmentStatusClosed = "closed"
)

type Mentor struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FullName   string    `gorm:"size:255;not null" json:"full_name"`
	Email      string    `gorm:"size:255;not null;unique" json:"email"`
	Speciality string    `gorm:"size:255" json:"speciality"`
	IsActive   bool      `gorm:"default:true;not null" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Student struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FullName  string    `gorm:"size:255;not null" json:"full_name"`
	Email     string    `gorm:"size:255;not null;unique" json:"email"`
	Company   string    `gorm:"size:255" json:"company"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type MentorAssignment struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	MentorID    uuid.UUID  `gorm:"type:uuid;not null" json:"mentor_id"`
	Mentor      Mentor     `gorm:"constraint:OnDelete:CASCADE;" json:"mentor"`
	StudentID   uuid.UUID  `gorm:"type:uuid;not null" json:"student_id"`
	Student     Student    `gorm:"constraint:OnDelete:CASCADE;" json:"student"`
	FormationID *uuid.UUID `gorm:"type:uuid" json:"formation_id"`
	Formation   *Formation `gorm:"constraint:OnDelete:SET NULL;" json:"-"`
	Status      string     `gorm:"size:20;default:'active'" json:"status"`
	Notes       string     `gorm:"type:text" json:"notes"`
	StartedAt   time.Time  `gorm:"autoCreateTime" json:"started_at"`
	ClosedAt    *time.Time `json:"closed_at"`
}
