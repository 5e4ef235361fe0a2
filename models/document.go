package models

import (
	"time"

	"github.com/google/uuid"
)

type DocumentCategory struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null;unique" json:"name"`
	Slug      string    `gorm:"size:255;uniqueIndex" json:"slug"`
	IsActive  bool      `gorm:"default:true;not null" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Templates []DocumentTemplate `gorm:"foreignKey:CategoryID" json:"templates"`
}

type DocumentTemplate struct {
	ID           uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CategoryID   *uuid.UUID        `gorm:"type:uuid" json:"category_id"`
	Category     *DocumentCategory `gorm:"constraint:OnDelete:SET NULL;" json:"-"`
	Name         string            `gorm:"size:255;not null" json:"name"`
	OriginalName string            `gorm:"size:255;not null" json:"original_name"`
	FilePath     string            `gorm:"type:text;not null" json:"file_path"`
	FileType     string            `gorm:"size:50" json:"file_type"`
	FileSize     int64             `json:"file_size"` // bytes
	// Text pulled out of pdf/docx/txt uploads, used for search and QCM generation.
	ExtractedText string    `gorm:"type:text" json:"extracted_text"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
