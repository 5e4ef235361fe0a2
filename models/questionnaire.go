package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Question kinds supported by questionnaires.
const (
	QuestionKindScale  = "scale" // 1..5, feeds the response score
	QuestionKindText   = "text"
	QuestionKindChoice = "choice"
)

type Questionnaire struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FormationID *uuid.UUID `gorm:"type:uuid" json:"formation_id"`
	Formation   *Formation `gorm:"constraint:OnDelete:SET NULL;" json:"-"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	IsActive    bool       `gorm:"default:true;not null" json:"is_active"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Questions []QuestionnaireQuestion `gorm:"foreignKey:QuestionnaireID" json:"questions"`
}

type QuestionnaireQuestion struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuestionnaireID uuid.UUID      `gorm:"type:uuid;not null" json:"questionnaire_id"`
	Questionnaire   Questionnaire  `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Label           string         `gorm:"type:text;not null" json:"label"`
	Kind            string         `gorm:"size:20;default:'scale'" json:"kind"`
	SortOrder       int            `gorm:"column:sort_order;default:1" json:"sort_order"`
	Choices         datatypes.JSON `json:"choices"` // for kind=choice
}

type QuestionnaireResponse struct {
	ID              uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuestionnaireID uuid.UUID     `gorm:"type:uuid;not null" json:"questionnaire_id"`
	Questionnaire   Questionnaire `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	RespondentEmail string        `gorm:"size:255" json:"respondent_email"`
	// Raw answers keyed by question id. Scale answers feed Score.
	Answers     datatypes.JSON `json:"answers"`
	Score       float64        `gorm:"type:numeric(5,2)" json:"score"`
	SubmittedAt time.Time      `gorm:"autoCreateTime" json:"submitted_at"`
}
