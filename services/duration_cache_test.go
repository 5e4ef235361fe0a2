package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDurationCacheKey(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	assert.Equal(t, "duration_course_6ba7b810-9dad-11d1-80b4-00c04fd430c8", DurationCacheKey(KindCourse, id))
	assert.Equal(t, "duration_formation_6ba7b810-9dad-11d1-80b4-00c04fd430c8", DurationCacheKey(KindFormation, id))
}

func TestMemoryDurationCacheFetchComputesOnce(t *testing.T) {
	cache := NewMemoryDurationCache()

	computes := 0
	compute := func() int {
		computes++
		return 42
	}

	assert.Equal(t, 42, cache.Fetch("duration_course_x", time.Minute, compute))
	assert.Equal(t, 42, cache.Fetch("duration_course_x", time.Minute, compute))
	assert.Equal(t, 1, computes)
}

func TestMemoryDurationCacheInvalidateForcesRecompute(t *testing.T) {
	cache := NewMemoryDurationCache()

	value := 10
	compute := func() int { return value }

	assert.Equal(t, 10, cache.Fetch("duration_module_y", time.Minute, compute))

	value = 99
	assert.Equal(t, 10, cache.Fetch("duration_module_y", time.Minute, compute), "stale entry served until invalidated")

	cache.Invalidate("duration_module_y")
	assert.Equal(t, 99, cache.Fetch("duration_module_y", time.Minute, compute))
}
