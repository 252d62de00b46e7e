// Package cache provides a generic LRU cache with generation-based
// invalidation.
//
//	c := cache.New[string, int](100)
//	c.Set("key", 42)
//	value, ok := c.Get("key")
//
//	c.Invalidate() // every entry stored so far now misses
//
// Invalidation is O(1): the cache generation is bumped and outdated entries
// are discarded when they are next looked up or during eviction.
package cache
