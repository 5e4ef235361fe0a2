package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tlemaire/formation-backend/models"
)

// DurationStore is the durable-store boundary of the duration engine. Loaders
// return the entity with its active children preloaded deep enough for the
// calculation service to walk; savers rewrite only the duration snapshot.
type DurationStore interface {
	Formation(id uuid.UUID) (*models.Formation, error)
	Module(id uuid.UUID) (*models.Module, error)
	Chapter(id uuid.UUID) (*models.Chapter, error)
	Course(id uuid.UUID) (*models.Course, error)
	Exercise(id uuid.UUID) (*models.Exercise, error)
	QCM(id uuid.UUID) (*models.QCM, error)

	SaveFormationDuration(id uuid.UUID, hours int) error
	SaveModuleDuration(id uuid.UUID, hours int) error
	SaveChapterDuration(id uuid.UUID, minutes int) error
	SaveCourseDuration(id uuid.UUID, minutes int) error

	// Transaction runs fn against a store whose writes commit together or
	// not at all.
	Transaction(fn func(DurationStore) error) error
}

// GormDurationStore backs DurationStore with the application database.
type GormDurationStore struct {
	db *gorm.DB
}

func NewGormDurationStore(db *gorm.DB) *GormDurationStore {
	return &GormDurationStore{db: db}
}

func activeOnly(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

func (s *GormDurationStore) Formation(id uuid.UUID) (*models.Formation, error) {
	var f models.Formation
	err := s.db.
		Preload("Modules", activeOnly).
		Preload("Modules.Chapters", activeOnly).
		Preload("Modules.Chapters.Courses", activeOnly).
		Preload("Modules.Chapters.Courses.Exercises", activeOnly).
		Preload("Modules.Chapters.Courses.QCMs", activeOnly).
		First(&f, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *GormDurationStore) Module(id uuid.UUID) (*models.Module, error) {
	var m models.Module
	err := s.db.
		Preload("Chapters", activeOnly).
		Preload("Chapters.Courses", activeOnly).
		Preload("Chapters.Courses.Exercises", activeOnly).
		Preload("Chapters.Courses.QCMs", activeOnly).
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *GormDurationStore) Chapter(id uuid.UUID) (*models.Chapter, error) {
	var c models.Chapter
	err := s.db.
		Preload("Courses", activeOnly).
		Preload("Courses.Exercises", activeOnly).
		Preload("Courses.QCMs", activeOnly).
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *GormDurationStore) Course(id uuid.UUID) (*models.Course, error) {
	var c models.Course
	err := s.db.
		Preload("Exercises", activeOnly).
		Preload("QCMs", activeOnly).
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *GormDurationStore) Exercise(id uuid.UUID) (*models.Exercise, error) {
	var e models.Exercise
	if err := s.db.First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *GormDurationStore) QCM(id uuid.UUID) (*models.QCM, error) {
	var q models.QCM
	if err := s.db.First(&q, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *GormDurationStore) SaveFormationDuration(id uuid.UUID, hours int) error {
	return s.db.Model(&models.Formation{}).Where("id = ?", id).
		Update("duration_hours", hours).Error
}

func (s *GormDurationStore) SaveModuleDuration(id uuid.UUID, hours int) error {
	return s.db.Model(&models.Module{}).Where("id = ?", id).
		Update("duration_hours", hours).Error
}

func (s *GormDurationStore) SaveChapterDuration(id uuid.UUID, minutes int) error {
	return s.db.Model(&models.Chapter{}).Where("id = ?", id).
		Update("duration_minutes", minutes).Error
}

func (s *GormDurationStore) SaveCourseDuration(id uuid.UUID, minutes int) error {
	return s.db.Model(&models.Course{}).Where("id = ?", id).
		Update("duration_minutes", minutes).Error
}

func (s *GormDurationStore) Transaction(fn func(DurationStore) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormDurationStore{db: tx})
	})
}
