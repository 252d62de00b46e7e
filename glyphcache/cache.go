package glyphcache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/paratext/atlas"
	"github.com/gogpu/paratext/fonts"
	"github.com/gogpu/paratext/internal/logging"
	"github.com/gogpu/paratext/raster"
)

// Rasterizer renders one glyph of a font instance at a pixel size.
type Rasterizer interface {
	Rasterize(inst *fonts.Instance, glyph uint32, size float64) (raster.Bitmap, error)
}

// entry is a cache slot. bitmap is kept only while the glyph is unplaced
// so that placement can be retried without rasterizing again.
type entry struct {
	glyph       CachedGlyph
	bitmap      *raster.Bitmap
	failedEpoch uint64
}

// Stats reports cache activity.
type Stats struct {
	Entries           int
	Hits              uint64
	Misses            uint64
	Rasterized        uint64
	PlacementFailures uint64
}

// Cache maps glyph identities to atlas placements. Misses are rasterized
// and placed in the page pool. There is no eviction: entries live until
// Clear or until their page is invalidated.
//
// Cache is not safe for concurrent use.
type Cache struct {
	pool    *atlas.Pool
	raster  Rasterizer
	entries map[Identity]*entry
	stats   Stats

	// epoch counts page resets. Unplaced glyphs retry placement once per epoch.
	epoch  uint64
	logger *slog.Logger
}

// New creates a cache placing glyphs in pool. A nil logger disables logging.
func New(pool *atlas.Pool, r Rasterizer, logger *slog.Logger) *Cache {
	return &Cache{
		pool:    pool,
		raster:  r,
		entries: make(map[Identity]*entry),
		logger:  logging.OrNop(logger),
	}
}

// Pool returns the page pool backing the cache.
func (c *Cache) Pool() *atlas.Pool { return c.pool }

// GetOrRasterize returns the cached glyph, rasterizing and placing it on a
// miss. Placement failures are not errors: the glyph is returned unplaced
// with valid metrics. Only rasterizer failures are returned as errors.
func (c *Cache) GetOrRasterize(inst *fonts.Instance, glyph uint32, size float64) (CachedGlyph, error) {
	id := IdentityOf(inst, glyph, size)
	if e, ok := c.entries[id]; ok {
		c.stats.Hits++
		if e.bitmap != nil && e.failedEpoch != c.epoch {
			c.place(e)
		}
		return e.glyph, nil
	}
	c.stats.Misses++

	bm, err := c.raster.Rasterize(inst, glyph, size)
	if err != nil {
		return CachedGlyph{}, fmt.Errorf("glyphcache: rasterize %v: %w", id, err)
	}
	c.stats.Rasterized++
	c.logger.Debug("glyph rasterized", slog.String("identity", id.String()))

	e := &entry{glyph: CachedGlyph{
		Identity: id,
		Width:    bm.Width,
		Height:   bm.Height,
		BearingX: bm.BearingX,
		BearingY: bm.BearingY,
		AdvanceX: bm.AdvanceX,
		PageID:   -1,
	}}
	c.entries[id] = e
	if !bm.Empty() {
		e.bitmap = &bm
		c.place(e)
	}
	return e.glyph, nil
}

// place reserves atlas space for an unplaced entry and copies its bitmap.
func (c *Cache) place(e *entry) {
	bm := e.bitmap
	pageID, pos, err := c.pool.Reserve(bm.Width, bm.Height, bm.Format)
	if err != nil {
		e.failedEpoch = c.epoch
		c.stats.PlacementFailures++
		level := slog.LevelDebug
		if errors.Is(err, atlas.ErrPoolExhausted) {
			level = slog.LevelWarn
		}
		c.logger.Log(context.Background(), level, "glyph left unplaced",
			slog.String("identity", e.glyph.Identity.String()),
			slog.Int("width", bm.Width),
			slog.Int("height", bm.Height),
			slog.String("error", err.Error()))
		return
	}

	page := c.pool.Page(pageID)
	page.Write(pos, bm.Width, bm.Height, bm.Pix, bm.Pitch)

	w, h := float32(page.Width()), float32(page.Height())
	g := &e.glyph
	g.PageID = pageID
	g.X, g.Y = pos.X, pos.Y
	g.UV = UV{
		MinU: float32(pos.X) / w,
		MinV: float32(pos.Y) / h,
		MaxU: float32(pos.X+bm.Width) / w,
		MaxV: float32(pos.Y+bm.Height) / h,
	}
	e.bitmap = nil
}

// Lookup returns the cached glyph without rasterizing.
func (c *Cache) Lookup(id Identity) (CachedGlyph, bool) {
	e, ok := c.entries[id]
	if !ok {
		return CachedGlyph{}, false
	}
	return e.glyph, true
}

// Len returns the number of cached glyphs.
func (c *Cache) Len() int { return len(c.entries) }

// Unplaced returns the number of glyphs waiting for atlas space.
func (c *Cache) Unplaced() int {
	n := 0
	for _, e := range c.entries {
		if e.bitmap != nil {
			n++
		}
	}
	return n
}

// InvalidatePage resets one atlas page and drops every glyph placed on
// it. It reports false for an unknown page.
func (c *Cache) InvalidatePage(pageID int) bool {
	if !c.pool.ResetPage(pageID) {
		return false
	}
	for id, e := range c.entries {
		if e.glyph.PageID == pageID {
			delete(c.entries, id)
		}
	}
	c.epoch++
	return true
}

// Clear drops every glyph and resets all pages.
func (c *Cache) Clear() {
	c.entries = make(map[Identity]*entry)
	c.pool.Reset()
	c.epoch++
}

// Stats returns cache statistics.
func (c *Cache) Stats() Stats {
	s := c.stats
	s.Entries = len(c.entries)
	return s
}
