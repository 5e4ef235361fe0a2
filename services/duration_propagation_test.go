package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPropagation(store DurationStore) (*DurationPropagationService, *fakeCache) {
	cache := newFakeCache()
	calc := NewDurationCalculationService(cache)
	return NewDurationPropagationService(store, calc, cache), cache
}

func TestPropagateCourseWithinToleranceKeepsSnapshot(t *testing.T) {
	f := newFixture()
	svc, _ := newPropagation(f.store)

	// Computed is 65; a stored value 5 minutes off stays as is.
	f.course.DurationMinutes = 60
	f.course.ChapterID = uuid.Nil // isolate the course level

	_, err := svc.Propagate(KindCourse, f.course.ID)
	require.NoError(t, err)
	assert.Empty(t, f.store.saves)
	assert.Equal(t, 60, f.course.DurationMinutes)
}

func TestPropagateCourseBeyondToleranceRewrites(t *testing.T) {
	f := newFixture()
	svc, _ := newPropagation(f.store)

	f.course.DurationMinutes = 59 // 6 minutes off
	f.course.ChapterID = uuid.Nil

	_, err := svc.Propagate(KindCourse, f.course.ID)
	require.NoError(t, err)
	require.Len(t, f.store.saves, 1)
	assert.Equal(t, savedWrite{kind: KindCourse, id: f.course.ID, value: 65}, f.store.saves[0])
}

func TestPropagateChapterAlwaysRewrites(t *testing.T) {
	f := newFixture()
	svc, _ := newPropagation(f.store)

	// A 3-minute drift at course level is tolerated, but the chapter
	// aggregate above it is rewritten unconditionally.
	f.chapter.DurationMinutes = 62
	f.chapter.ModuleID = uuid.Nil

	_, err := svc.Propagate(KindChapter, f.chapter.ID)
	require.NoError(t, err)
	require.Len(t, f.store.saves, 1)
	assert.Equal(t, savedWrite{kind: KindChapter, id: f.chapter.ID, value: 65}, f.store.saves[0])
}

func TestPropagateFromLeafWalksUpToFormation(t *testing.T) {
	f := newFixture()
	svc, _ := newPropagation(f.store)

	f.course.DurationMinutes = 0 // well beyond tolerance

	formationID, err := svc.Propagate(KindExercise, f.exercise.ID)
	require.NoError(t, err)
	assert.Equal(t, f.formation.ID, formationID, "walk reported the root it reached")

	require.Len(t, f.store.saves, 4)
	assert.Equal(t, KindCourse, f.store.saves[0].kind)
	assert.Equal(t, KindChapter, f.store.saves[1].kind)
	assert.Equal(t, KindModule, f.store.saves[2].kind)
	assert.Equal(t, KindFormation, f.store.saves[3].kind)

	assert.Equal(t, 65, f.course.DurationMinutes)
	assert.Equal(t, 65, f.chapter.DurationMinutes)
	assert.Equal(t, 2, f.module.DurationHours)
	assert.Equal(t, 2, f.formation.DurationHours)
}

func TestPropagateInvalidatesBeforeRecomputing(t *testing.T) {
	f := newFixture()
	svc, cache := newPropagation(f.store)

	// Poison the cache with a stale aggregate, then propagate.
	key := DurationCacheKey(KindCourse, f.course.ID)
	cache.entries[key] = 999
	f.course.ChapterID = uuid.Nil

	_, err := svc.Propagate(KindCourse, f.course.ID)
	require.NoError(t, err)
	assert.Contains(t, cache.invalidated, key)
	assert.Equal(t, 65, cache.entries[key], "recompute repopulated the entry")
}

func TestPropagateOrphanLeafStopsSilently(t *testing.T) {
	f := newFixture()
	svc, _ := newPropagation(f.store)

	f.exercise.CourseID = uuid.Nil

	formationID, err := svc.Propagate(KindExercise, f.exercise.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, formationID)
	assert.Empty(t, f.store.saves)
}

func TestPropagateUnknownKindErrors(t *testing.T) {
	f := newFixture()
	svc, _ := newPropagation(f.store)

	_, err := svc.Propagate(EntityKind("playlist"), uuid.New())
	assert.Error(t, err)
}

func TestPropagateAllRunsInOneTransaction(t *testing.T) {
	f := newFixture()
	svc, _ := newPropagation(f.store)

	f.course.DurationMinutes = 0

	refs := []EntityRef{
		{Kind: KindCourse, ID: f.course.ID},
		{Kind: KindModule, ID: f.module.ID},
	}
	require.NoError(t, svc.PropagateAll(refs))
	assert.Equal(t, 1, f.store.transactions)
	assert.NotEmpty(t, f.store.saves)
}

func TestPropagateAllAbortsOnFirstFailure(t *testing.T) {
	f := newFixture()
	svc, _ := newPropagation(f.store)

	f.course.DurationMinutes = 0
	f.chapter.DurationMinutes = 10
	f.module.DurationHours = 1
	f.formation.DurationHours = 9
	f.store.failOn = KindModule

	refs := []EntityRef{
		{Kind: KindCourse, ID: f.course.ID},
		{Kind: KindFormation, ID: f.formation.ID},
	}
	err := svc.PropagateAll(refs)
	require.Error(t, err)

	// The walk stopped at the failing module write; the formation ref was
	// never processed.
	for _, s := range f.store.saves {
		assert.NotEqual(t, KindFormation, s.kind)
	}

	// The transaction rolled back, so the course and chapter writes that
	// succeeded before the module failure are gone too: every snapshot
	// still holds its pre-batch value.
	assert.Equal(t, 0, f.course.DurationMinutes)
	assert.Equal(t, 10, f.chapter.DurationMinutes)
	assert.Equal(t, 1, f.module.DurationHours)
	assert.Equal(t, 9, f.formation.DurationHours)
}
