package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// DurationCacheTTL bounds how long a cached aggregate may be served without a
// recompute. Writers invalidate explicitly; the TTL only covers mutations that
// bypass the dispatcher.
const DurationCacheTTL = time.Hour

// DurationCache is the keyed cache wrapping the aggregation engine's
// recursive reads. It is injected everywhere so tests can substitute a plain
// map without timing concerns.
type DurationCache interface {
	// Fetch returns the cached value for key, or runs compute, stores the
	// result for ttl and returns it.
	Fetch(key string, ttl time.Duration, compute func() int) int
	// Invalidate removes the entry unconditionally.
	Invalidate(key string)
}

// DurationCacheKey builds the canonical cache key for an entity.
func DurationCacheKey(kind EntityKind, id uuid.UUID) string {
	return fmt.Sprintf("duration_%s_%s", kind, id)
}

// MemoryDurationCache is the default in-process backend.
type MemoryDurationCache struct {
	c *gocache.Cache
}

func NewMemoryDurationCache() *MemoryDurationCache {
	return &MemoryDurationCache{c: gocache.New(DurationCacheTTL, 10*time.Minute)}
}

func (m *MemoryDurationCache) Fetch(key string, ttl time.Duration, compute func() int) int {
	if v, ok := m.c.Get(key); ok {
		if n, ok := v.(int); ok {
			return n
		}
	}
	n := compute()
	m.c.Set(key, n, ttl)
	return n
}

func (m *MemoryDurationCache) Invalidate(key string) {
	m.c.Delete(key)
}
