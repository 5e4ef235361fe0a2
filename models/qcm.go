package models

import (
	"time"

	"github.com/google/uuid"
)

type QCM struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CourseID    uuid.UUID `gorm:"type:uuid" json:"course_id"`
	Course      Course    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	// Nil counts as 0 in the duration aggregates.
	TimeLimitMinutes *int      `json:"time_limit_minutes"`
	IsActive         bool      `gorm:"default:true;not null" json:"is_active"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Questions []QCMQuestion `gorm:"foreignKey:QCMID" json:"questions"`
}

type QCMQuestion struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QCMID      uuid.UUID `gorm:"type:uuid;not null" json:"qcm_id"`
	QCM        QCM       `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Question   string    `gorm:"type:text;not null" json:"question"`
	Difficulty string    `gorm:"size:20;default:'easy'" json:"difficulty"`
	Hint       string    `gorm:"type:text" json:"hint"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	Options []QCMOption `gorm:"foreignKey:QuestionID" json:"options"`
}

type QCMOption struct {
	ID         uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuestionID uuid.UUID   `gorm:"type:uuid;not null" json:"question_id"`
	Question   QCMQuestion `gorm:"foreignKey:QuestionID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	OptionText string      `gorm:"type:text;not null" json:"option_text"`
	IsCorrect  bool        `gorm:"default:false" json:"is_correct"`
}

type QCMAttempt struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QCMID          uuid.UUID `gorm:"type:uuid;not null" json:"qcm_id"`
	QCM            QCM       `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	StudentID      uuid.UUID `gorm:"type:uuid;not null" json:"student_id"`
	Student        Student   `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Score          float64   `gorm:"type:numeric(5,2)" json:"score"`
	CorrectCount   int       `json:"correct_count"`
	IncorrectCount int       `json:"incorrect_count"`
	DurationSec    int       `json:"duration_sec"`
	TakenAt        time.Time `gorm:"autoCreateTime" json:"taken_at"`
}
