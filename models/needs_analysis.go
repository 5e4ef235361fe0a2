package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Needs-analysis workflow statuses.
const (
	NeedsStatusDraft        = "draft"
	NeedsStatusSubmitted    = "submitted"
	NeedsStatusInReview     = "in_review"
	NeedsStatusProposalSent = "proposal_sent"
	NeedsStatusConverted    = "converted"
	NeedsStatusClosed       = "closed"
)

type NeedsAnalysisRequest struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Company      string    `gorm:"size:255;not null" json:"company"`
	ContactName  string    `gorm:"size:255;not null" json:"contact_name"`
	ContactEmail string    `gorm:"size:255;not null" json:"contact_email"`
	Phone        string    `gorm:"size:50" json:"phone"`
	Headcount    int       `gorm:"default:0" json:"headcount"`
	Objectives   string    `gorm:"type:text" json:"objectives"`
	// Free-form intake answers (budget, constraints, preferred dates...).
	Details     datatypes.JSON `json:"details"`
	Status      string         `gorm:"size:30;default:'draft'" json:"status"`
	ReviewNotes string         `gorm:"type:text" json:"review_notes"`
	FormationID *uuid.UUID     `gorm:"type:uuid" json:"formation_id"` // set on conversion
	Formation   *Formation     `gorm:"constraint:OnDelete:SET NULL;" json:"-"`
	SubmittedAt *time.Time     `json:"submitted_at"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}
