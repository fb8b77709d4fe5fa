package shapes

import (
	"image"
	"sort"
	"sync"
	"time"
)

// DefaultCacheLimit is the maximum number of distinct masks a cache keeps
// resident before evicting the least recently accessed ones.
const DefaultCacheLimit = 50

type cacheKey struct {
	kind   Kind
	width  int
	height int
}

// Cache is a bounded mask cache keyed by (kind, width, height). Masks are
// immutable once created and handed out by shared reference, so one cache
// instance is meant to be shared by every consumer in the process. All
// access is serialized internally.
type Cache struct {
	mu         sync.Mutex
	limit      int
	masks      map[cacheKey]*image.Alpha
	lastAccess map[cacheKey]time.Time
	now        func() time.Time
}

// NewCache returns a cache evicting down to limit entries. A limit below 1
// falls back to DefaultCacheLimit.
func NewCache(limit int) *Cache {
	if limit < 1 {
		limit = DefaultCacheLimit
	}
	return &Cache{
		limit:      limit,
		masks:      make(map[cacheKey]*image.Alpha),
		lastAccess: make(map[cacheKey]time.Time),
		now:        time.Now,
	}
}

// Get returns the cached mask for the key, rasterizing and inserting it on a
// miss. Every hit and every insert records the access time; after an insert
// the oldest entries are evicted until the cache is back at its limit.
// The returned mask must not be modified.
func (c *Cache) Get(kind Kind, width, height int) (*image.Alpha, error) {
	key := cacheKey{kind: kind, width: width, height: height}

	c.mu.Lock()
	defer c.mu.Unlock()

	if mask, ok := c.masks[key]; ok {
		c.lastAccess[key] = c.now()
		return mask, nil
	}

	mask, err := Mask(kind, width, height)
	if err != nil {
		return nil, err
	}
	c.masks[key] = mask
	c.lastAccess[key] = c.now()
	c.evictOldest()
	return mask, nil
}

// Len returns the number of resident masks.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.masks)
}

// Contains reports whether a mask for the key is currently resident, without
// touching its access time.
func (c *Cache) Contains(kind Kind, width, height int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.masks[cacheKey{kind: kind, width: width, height: height}]
	return ok
}

// evictOldest removes entries, oldest last access first, until the cache is
// back at its limit. Caller must hold c.mu.
func (c *Cache) evictOldest() {
	if len(c.masks) <= c.limit {
		return
	}
	keys := make([]cacheKey, 0, len(c.lastAccess))
	for key := range c.lastAccess {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return c.lastAccess[keys[i]].Before(c.lastAccess[keys[j]])
	})
	for _, key := range keys[:len(keys)-c.limit] {
		delete(c.masks, key)
		delete(c.lastAccess, key)
	}
}
