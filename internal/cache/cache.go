package cache

import "sync"

// Cache is a generic LRU cache with a soft limit and generation-based
// invalidation. Every entry records the generation it was stored in;
// Invalidate bumps the cache generation, which turns all older entries into
// misses without walking the map. Stale entries are dropped lazily.
//
// Cache is safe for concurrent use.
// Cache must not be copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu        sync.Mutex
	entries   map[K]*cacheEntry[V]
	softLimit int
	tick      int64 // Monotonic access counter
	gen       uint64

	hits   uint64
	misses uint64
	stale  uint64
}

// cacheEntry holds a cached value with its access time and generation.
type cacheEntry[V any] struct {
	value V
	atime int64
	gen   uint64
}

// New creates a new cache with the given soft limit.
// A softLimit of 0 means unlimited.
func New[K comparable, V any](softLimit int) *Cache[K, V] {
	return &Cache[K, V]{
		entries:   make(map[K]*cacheEntry[V]),
		softLimit: softLimit,
	}
}

// lookup returns the live entry for key. Caller must hold c.mu.
func (c *Cache[K, V]) lookup(key K) (*cacheEntry[V], bool) {
	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if entry.gen != c.gen {
		delete(c.entries, key)
		c.stale++
		c.misses++
		return nil, false
	}
	c.hits++
	c.tick++
	entry.atime = c.tick
	return entry, true
}

// store inserts value under key. Caller must hold c.mu.
func (c *Cache[K, V]) store(key K, value V) {
	c.tick++
	c.entries[key] = &cacheEntry[V]{value: value, atime: c.tick, gen: c.gen}
	if c.softLimit > 0 && len(c.entries) > c.softLimit {
		c.evictOldest()
	}
}

// Get retrieves a value from the cache.
// Returns (value, true) if a current-generation entry exists.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.lookup(key)
	if !ok {
		var zero V
		return zero, false
	}
	return entry.value, true
}

// Set stores a value in the current generation.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store(key, value)
}

// GetOrCreate returns the cached value or creates it.
// create is called under lock to prevent duplicate creation.
func (c *Cache[K, V]) GetOrCreate(key K, create func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.lookup(key); ok {
		return entry.value
	}
	value := create()
	c.store(key, value)
	return value
}

// Delete removes an entry from the cache.
// Returns true if the entry was found and removed.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		return true
	}
	return false
}

// Invalidate starts a new generation. Entries stored before the call are
// treated as missing from now on.
func (c *Cache[K, V]) Invalidate() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	return c.gen
}

// Generation returns the current generation.
func (c *Cache[K, V]) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.gen
}

// Clear removes all entries from the cache and resets statistics.
// The generation keeps counting.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*cacheEntry[V])
	c.tick = 0
	c.hits, c.misses, c.stale = 0, 0, 0
}

// Len returns the number of stored entries, stale ones included.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Len:        len(c.entries),
		Capacity:   c.softLimit,
		Generation: c.gen,
		Hits:       c.hits,
		Misses:     c.misses,
		Stale:      c.stale,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

// evictOldest removes stale entries first, then the least recently used
// ones until the cache is at 3/4 of its soft limit.
// Caller must hold c.mu.
func (c *Cache[K, V]) evictOldest() {
	for key, e := range c.entries {
		if e.gen != c.gen {
			delete(c.entries, key)
		}
	}

	targetSize := max(c.softLimit*3/4, 1)
	toEvict := len(c.entries) - targetSize
	if toEvict <= 0 {
		return
	}

	type entry struct {
		key   K
		atime int64
	}
	entries := make([]entry, 0, len(c.entries))
	for key, e := range c.entries {
		entries = append(entries, entry{key: key, atime: e.atime})
	}

	// Selection sort is enough for small batches.
	for i := 0; i < toEvict && i < len(entries); i++ {
		minIdx := i
		for j := i + 1; j < len(entries); j++ {
			if entries[j].atime < entries[minIdx].atime {
				minIdx = j
			}
		}
		if minIdx != i {
			entries[i], entries[minIdx] = entries[minIdx], entries[i]
		}
		delete(c.entries, entries[i].key)
	}
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Capacity is the soft limit, 0 when unlimited.
	Capacity int
	// Generation is the current generation.
	Generation uint64
	// Hits is the number of lookups served from the cache.
	Hits uint64
	// Misses is the number of lookups that found no live entry.
	Misses uint64
	// Stale is the number of misses caused by an outdated generation.
	Stale uint64
	// HitRate is Hits / (Hits + Misses), 0 when nothing was looked up.
	HitRate float64
}
