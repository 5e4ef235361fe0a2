package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/tlemaire/formation-backend/models"
)

func TestCourseDurationSumsActiveLeaves(t *testing.T) {
	calc := NewDurationCalculationService(newFakeCache())

	course := &models.Course{
		ID:                  uuid.New(),
		BaseDurationMinutes: 30,
		Exercises: []models.Exercise{
			{EstimatedDurationMinutes: intPtr(15), IsActive: true},
			{EstimatedDurationMinutes: intPtr(45), IsActive: false}, // inactive, ignored
			{EstimatedDurationMinutes: nil, IsActive: true},         // nil counts as 0
		},
		QCMs: []models.QCM{
			{TimeLimitMinutes: intPtr(20), IsActive: true},
			{TimeLimitMinutes: intPtr(10), IsActive: false},
		},
	}

	assert.Equal(t, 65, calc.CourseDuration(course))
}

func TestChapterDurationSkipsInactiveCourses(t *testing.T) {
	calc := NewDurationCalculationService(newFakeCache())

	chapter := &models.Chapter{
		ID: uuid.New(),
		Courses: []models.Course{
			{ID: uuid.New(), BaseDurationMinutes: 40, IsActive: true},
			{ID: uuid.New(), BaseDurationMinutes: 40, IsActive: false},
			{ID: uuid.New(), BaseDurationMinutes: 25, IsActive: true},
		},
	}

	assert.Equal(t, 65, calc.ChapterDuration(chapter))
}

func TestModuleDurationRoundsMinutesUpToHours(t *testing.T) {
	calc := NewDurationCalculationService(newFakeCache())

	cases := []struct {
		minutes int
		hours   int
	}{
		{0, 0},
		{1, 1},
		{59, 1},
		{60, 1},
		{61, 2},
		{125, 3},
	}
	for _, tc := range cases {
		module := &models.Module{
			ID: uuid.New(),
			Chapters: []models.Chapter{
				{ID: uuid.New(), IsActive: true, Courses: []models.Course{
					{ID: uuid.New(), BaseDurationMinutes: tc.minutes, IsActive: true},
				}},
			},
		}
		assert.Equal(t, tc.hours, calc.ModuleDuration(module), "%d minutes", tc.minutes)
	}
}

func TestFormationDurationSumsActiveModuleHours(t *testing.T) {
	calc := NewDurationCalculationService(newFakeCache())

	chapterOf := func(minutes int) []models.Chapter {
		return []models.Chapter{
			{ID: uuid.New(), IsActive: true, Courses: []models.Course{
				{ID: uuid.New(), BaseDurationMinutes: minutes, IsActive: true},
			}},
		}
	}
	formation := &models.Formation{
		ID: uuid.New(),
		Modules: []models.Module{
			{ID: uuid.New(), IsActive: true, Chapters: chapterOf(90)},  // 2h
			{ID: uuid.New(), IsActive: true, Chapters: chapterOf(60)},  // 1h
			{ID: uuid.New(), IsActive: false, Chapters: chapterOf(600)}, // ignored
		},
	}

	assert.Equal(t, 3, calc.FormationDuration(formation))
}

func TestCalculationCachesByEntityKey(t *testing.T) {
	cache := newFakeCache()
	calc := NewDurationCalculationService(cache)

	course := &models.Course{ID: uuid.New(), BaseDurationMinutes: 30}

	assert.Equal(t, 30, calc.CourseDuration(course))
	assert.Equal(t, 1, cache.computes)
	assert.Contains(t, cache.entries, DurationCacheKey(KindCourse, course.ID))

	// The second read never recomputes, even if the loaded struct changed.
	course.BaseDurationMinutes = 500
	assert.Equal(t, 30, calc.CourseDuration(course))
	assert.Equal(t, 1, cache.computes)
}

func TestUnsavedEntitiesBypassTheCache(t *testing.T) {
	cache := newFakeCache()
	calc := NewDurationCalculationService(cache)

	course := &models.Course{BaseDurationMinutes: 30} // ID is uuid.Nil

	assert.Equal(t, 30, calc.CourseDuration(course))
	course.BaseDurationMinutes = 45
	assert.Equal(t, 45, calc.CourseDuration(course))
	assert.Empty(t, cache.entries)
	assert.Zero(t, cache.computes)
}

func TestFullTreeAggregation(t *testing.T) {
	f := newFixture()
	calc := NewDurationCalculationService(newFakeCache())

	// course 30 + exercise 15 + qcm 20 = 65 min; one chapter of 65 min;
	// module ceils to 2h; formation is that single module.
	assert.Equal(t, 65, calc.CourseDuration(f.course))
	assert.Equal(t, 65, calc.ChapterDuration(f.chapter))
	assert.Equal(t, 2, calc.ModuleDuration(f.module))
	assert.Equal(t, 2, calc.FormationDuration(f.formation))
}
