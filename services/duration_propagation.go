package services

import (
	"fmt"
	"log"

	"github.com/google/uuid"
)

// CourseToleranceMinutes is the drift allowed between a course's stored
// duration and its recomputed value before the snapshot is rewritten. Courses
// carry a trainer-entered base alongside the computed total, so a small drift
// is normal; the levels above are pure aggregates and get zero tolerance.
const CourseToleranceMinutes = 5

// EntityRef identifies one node of the duration tree.
type EntityRef struct {
	Kind EntityKind `json:"kind"`
	ID   uuid.UUID  `json:"id"`
}

// DurationPropagationService keeps the stored duration snapshots consistent
// with the calculation service's output, cascading each change up to the
// formation root.
type DurationPropagationService struct {
	store     DurationStore
	calc      *DurationCalculationService
	cache     DurationCache
	tolerance int
}

func NewDurationPropagationService(store DurationStore, calc *DurationCalculationService, cache DurationCache) *DurationPropagationService {
	return &DurationPropagationService{
		store:     store,
		calc:      calc,
		cache:     cache,
		tolerance: CourseToleranceMinutes,
	}
}

// Propagate recomputes the entity's duration, persists it when it diverges
// from the stored value, and recurses to the parent. It returns the id of the
// formation root the walk reached, or uuid.Nil when the walk stopped at an
// orphan. Errors bubble to the caller; nothing is swallowed here.
func (s *DurationPropagationService) Propagate(kind EntityKind, id uuid.UUID) (uuid.UUID, error) {
	return s.propagate(s.store, kind, id)
}

// PropagateAll processes the refs sequentially inside one transaction: either
// every resulting write commits or none does.
func (s *DurationPropagationService) PropagateAll(refs []EntityRef) error {
	return s.store.Transaction(func(tx DurationStore) error {
		for _, ref := range refs {
			if _, err := s.propagate(tx, ref.Kind, ref.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *DurationPropagationService) propagate(store DurationStore, kind EntityKind, id uuid.UUID) (uuid.UUID, error) {
	switch kind {
	case KindExercise:
		ex, err := store.Exercise(id)
		if err != nil {
			return uuid.Nil, err
		}
		if ex.CourseID == uuid.Nil {
			// Orphan leaf, nothing above to update.
			log.Printf("duration: exercise %s has no course, propagation stops", id)
			return uuid.Nil, nil
		}
		return s.propagate(store, KindCourse, ex.CourseID)

	case KindQCM:
		q, err := store.QCM(id)
		if err != nil {
			return uuid.Nil, err
		}
		if q.CourseID == uuid.Nil {
			log.Printf("duration: qcm %s has no course, propagation stops", id)
			return uuid.Nil, nil
		}
		return s.propagate(store, KindCourse, q.CourseID)

	case KindCourse:
		// Invalidate first so the recompute below never reads a stale
		// self entry.
		s.cache.Invalidate(DurationCacheKey(KindCourse, id))
		course, err := store.Course(id)
		if err != nil {
			return uuid.Nil, err
		}
		computed := s.calc.CourseDuration(course)
		if diff := abs(course.DurationMinutes - computed); diff > s.tolerance {
			if err := store.SaveCourseDuration(id, computed); err != nil {
				return uuid.Nil, err
			}
			log.Printf("duration: course=%s stored=%d computed=%d rewritten=true", id, course.DurationMinutes, computed)
		} else {
			log.Printf("duration: course=%s stored=%d computed=%d rewritten=false", id, course.DurationMinutes, computed)
		}
		if course.ChapterID == uuid.Nil {
			return uuid.Nil, nil
		}
		return s.propagate(store, KindChapter, course.ChapterID)

	case KindChapter:
		s.cache.Invalidate(DurationCacheKey(KindChapter, id))
		chapter, err := store.Chapter(id)
		if err != nil {
			return uuid.Nil, err
		}
		computed := s.calc.ChapterDuration(chapter)
		if err := store.SaveChapterDuration(id, computed); err != nil {
			return uuid.Nil, err
		}
		log.Printf("duration: chapter=%s stored=%d computed=%d courses=%d", id, chapter.DurationMinutes, computed, len(chapter.Courses))
		if chapter.ModuleID == uuid.Nil {
			return uuid.Nil, nil
		}
		return s.propagate(store, KindModule, chapter.ModuleID)

	case KindModule:
		s.cache.Invalidate(DurationCacheKey(KindModule, id))
		module, err := store.Module(id)
		if err != nil {
			return uuid.Nil, err
		}
		computed := s.calc.ModuleDuration(module)
		if err := store.SaveModuleDuration(id, computed); err != nil {
			return uuid.Nil, err
		}
		log.Printf("duration: module=%s stored=%d computed=%d chapters=%d", id, module.DurationHours, computed, len(module.Chapters))
		if module.FormationID == uuid.Nil {
			return uuid.Nil, nil
		}
		return s.propagate(store, KindFormation, module.FormationID)

	case KindFormation:
		s.cache.Invalidate(DurationCacheKey(KindFormation, id))
		formation, err := store.Formation(id)
		if err != nil {
			return uuid.Nil, err
		}
		computed := s.calc.FormationDuration(formation)
		if err := store.SaveFormationDuration(id, computed); err != nil {
			return uuid.Nil, err
		}
		log.Printf("duration: formation=%s stored=%d computed=%d modules=%d", id, formation.DurationHours, computed, len(formation.Modules))
		// Root of the tree, nothing further.
		return id, nil

	default:
		return uuid.Nil, fmt.Errorf("duration: unknown entity kind %q", kind)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
