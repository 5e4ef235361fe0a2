package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/tlemaire/formation-backend/models"
)

// EntityKind is the closed set of duration-tree node types. Formation owns
// modules, modules own chapters, chapters own courses, and exercises/QCMs are
// the leaves hanging off a course.
type EntityKind string

const (
	KindFormation EntityKind = "formation"
	KindModule    EntityKind = "module"
	KindChapter   EntityKind = "chapter"
	KindCourse    EntityKind = "course"
	KindExercise  EntityKind = "exercise"
	KindQCM       EntityKind = "qcm"
)

// DurationCalculationService computes the true duration of any node in the
// formation tree from its loaded children, independent of the stored
// snapshot. All computations are pure; the cache only short-circuits repeated
// walks of the same subtree.
type DurationCalculationService struct {
	cache DurationCache
	ttl   time.Duration
}

func NewDurationCalculationService(cache DurationCache) *DurationCalculationService {
	return &DurationCalculationService{cache: cache, ttl: DurationCacheTTL}
}

// CourseDuration returns the course's base minutes plus the minutes of its
// active exercises and QCMs. Nil leaf durations count as 0.
func (s *DurationCalculationService) CourseDuration(course *models.Course) int {
	// Unsaved entities must never populate a cache keyed by an id they
	// don't have yet.
	if course.ID == uuid.Nil {
		return s.computeCourse(course)
	}
	return s.cache.Fetch(DurationCacheKey(KindCourse, course.ID), s.ttl, func() int {
		return s.computeCourse(course)
	})
}

func (s *DurationCalculationService) computeCourse(course *models.Course) int {
	total := course.BaseDurationMinutes
	for _, ex := range course.Exercises {
		if !ex.IsActive || ex.EstimatedDurationMinutes == nil {
			continue
		}
		total += *ex.EstimatedDurationMinutes
	}
	for _, q := range course.QCMs {
		if !q.IsActive || q.TimeLimitMinutes == nil {
			continue
		}
		total += *q.TimeLimitMinutes
	}
	return total
}

// ChapterDuration returns the sum of the active courses' calculated
// durations, in minutes.
func (s *DurationCalculationService) ChapterDuration(chapter *models.Chapter) int {
	if chapter.ID == uuid.Nil {
		return s.computeChapter(chapter)
	}
	return s.cache.Fetch(DurationCacheKey(KindChapter, chapter.ID), s.ttl, func() int {
		return s.computeChapter(chapter)
	})
}

func (s *DurationCalculationService) computeChapter(chapter *models.Chapter) int {
	total := 0
	for i := range chapter.Courses {
		if !chapter.Courses[i].IsActive {
			continue
		}
		total += s.CourseDuration(&chapter.Courses[i])
	}
	return total
}

// ModuleDuration returns the active chapters' minutes converted to whole
// hours. The conversion always rounds up so a module is never reported
// shorter than its real minute content.
func (s *DurationCalculationService) ModuleDuration(module *models.Module) int {
	if module.ID == uuid.Nil {
		return s.computeModule(module)
	}
	return s.cache.Fetch(DurationCacheKey(KindModule, module.ID), s.ttl, func() int {
		return s.computeModule(module)
	})
}

func (s *DurationCalculationService) computeModule(module *models.Module) int {
	minutes := 0
	for i := range module.Chapters {
		if !module.Chapters[i].IsActive {
			continue
		}
		minutes += s.ChapterDuration(&module.Chapters[i])
	}
	return (minutes + 59) / 60 // ceiling division
}

// FormationDuration returns the sum of the active modules' hours. Module
// durations are already whole hours, so no further rounding happens here.
func (s *DurationCalculationService) FormationDuration(formation *models.Formation) int {
	if formation.ID == uuid.Nil {
		return s.computeFormation(formation)
	}
	return s.cache.Fetch(DurationCacheKey(KindFormation, formation.ID), s.ttl, func() int {
		return s.computeFormation(formation)
	})
}

func (s *DurationCalculationService) computeFormation(formation *models.Formation) int {
	total := 0
	for i := range formation.Modules {
		if !formation.Modules[i].IsActive {
			continue
		}
		total += s.ModuleDuration(&formation.Modules[i])
	}
	return total
}
