package cache

import (
	"sync"
	"testing"
)

func TestCache_GetSet(t *testing.T) {
	c := New[string, int](0)
	if _, ok := c.Get("a"); ok {
		t.Fatal("Get on empty cache returned ok")
	}
	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}
	if !c.Delete("a") || c.Delete("a") {
		t.Error("Delete should report true once")
	}
}

func TestCache_Invalidate(t *testing.T) {
	c := New[string, int](0)
	c.Set("a", 1)
	c.Set("b", 2)

	if gen := c.Invalidate(); gen != 1 {
		t.Errorf("Invalidate() = %d, want 1", gen)
	}
	if _, ok := c.Get("a"); ok {
		t.Error("entry from old generation should miss")
	}

	c.Set("a", 10)
	if v, ok := c.Get("a"); !ok || v != 10 {
		t.Errorf("Get(a) = %d, %v; want 10, true", v, ok)
	}

	s := c.Stats()
	if s.Stale != 1 {
		t.Errorf("Stale = %d, want 1", s.Stale)
	}
	if s.Generation != 1 || c.Generation() != 1 {
		t.Errorf("Generation = %d, want 1", s.Generation)
	}
}

func TestCache_GetOrCreate(t *testing.T) {
	c := New[int, string](0)
	calls := 0
	create := func() string {
		calls++
		return "v"
	}

	for range 3 {
		if got := c.GetOrCreate(1, create); got != "v" {
			t.Errorf("GetOrCreate() = %q, want v", got)
		}
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}

	c.Invalidate()
	c.GetOrCreate(1, create)
	if calls != 2 {
		t.Errorf("create called %d times after Invalidate, want 2", calls)
	}

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 2 {
		t.Errorf("Hits = %d, Misses = %d; want 2 and 2", s.Hits, s.Misses)
	}
	if s.HitRate != 0.5 {
		t.Errorf("HitRate = %v, want 0.5", s.HitRate)
	}
}

func TestCache_Eviction(t *testing.T) {
	c := New[int, int](8)
	for i := range 8 {
		c.Set(i, i)
	}
	// Touch the first entry so it survives.
	c.Get(0)
	c.Set(100, 100)

	if c.Len() > 8 {
		t.Errorf("Len() = %d, want at most 8", c.Len())
	}
	if _, ok := c.Get(0); !ok {
		t.Error("recently used entry was evicted")
	}
	if _, ok := c.Get(1); ok {
		t.Error("least recently used entry survived eviction")
	}
}

func TestCache_EvictionDropsStale(t *testing.T) {
	c := New[int, int](4)
	for i := range 4 {
		c.Set(i, i)
	}
	c.Invalidate()
	c.Set(10, 10)

	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after stale entries are evicted", c.Len())
	}
}

func TestCache_Clear(t *testing.T) {
	c := New[int, int](0)
	c.Set(1, 1)
	c.Get(1)
	c.Invalidate()
	c.Clear()

	s := c.Stats()
	if s.Len != 0 || s.Hits != 0 {
		t.Errorf("Stats after Clear = %+v", s)
	}
	if s.Generation != 1 {
		t.Errorf("Generation = %d after Clear, want 1", s.Generation)
	}
}

func TestCache_Concurrent(t *testing.T) {
	c := New[int, int](64)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				c.GetOrCreate((g*200+i)%100, func() int { return i })
				if i%50 == 0 {
					c.Invalidate()
				}
			}
		}()
	}
	wg.Wait()
	if c.Len() > 64 {
		t.Errorf("Len() = %d, want at most 64", c.Len())
	}
}
