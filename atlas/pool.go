package atlas

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/paratext/internal/logging"
)

// DefaultMaxPages is the page limit used by NewPool when maxPages is not positive.
const DefaultMaxPages = 4

// Pool is an ordered set of pages sharing one configuration. Pages are
// opened on demand when every existing page is full for a glyph.
//
// Pool is not safe for concurrent use.
type Pool struct {
	cfg      Config
	maxPages int
	pages    []*Page
	logger   *slog.Logger
}

// NewPool creates an empty pool. No page is allocated until the first
// reservation.
func NewPool(cfg Config, maxPages int) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Pool{
		cfg:      cfg,
		maxPages: maxPages,
		logger:   logging.OrNop(cfg.Logger),
	}, nil
}

// Config returns the page configuration of the pool.
func (p *Pool) Config() Config { return p.cfg }

// MaxPages returns the page limit.
func (p *Pool) MaxPages() int { return p.maxPages }

// Reserve places a w x h glyph on the first page with room, opening a new
// page when all pages are full. It returns the page id and the glyph origin.
//
// Errors other than a full page (too tall, incompatible format) are
// returned immediately since no other page could do better.
func (p *Pool) Reserve(w, h int, f GlyphFormat) (int, image.Point, error) {
	var lastErr error
	for _, page := range p.pages {
		pos, err := page.Reserve(w, h, f)
		if err == nil {
			return page.id, pos, nil
		}
		if !isPageFull(err) {
			return -1, image.Point{}, err
		}
		lastErr = err
	}

	if len(p.pages) >= p.maxPages {
		if lastErr == nil {
			lastErr = ErrNoFit
		}
		return -1, image.Point{}, fmt.Errorf("%w: %w", ErrPoolExhausted, lastErr)
	}

	page, err := p.open()
	if err != nil {
		return -1, image.Point{}, err
	}
	pos, err := page.Reserve(w, h, f)
	if err != nil {
		return -1, image.Point{}, err
	}
	return page.id, pos, nil
}

func isPageFull(err error) bool {
	var pe *PlacementError
	return errors.As(err, &pe) && pe.Reason == ReasonPageFull
}

func (p *Pool) open() (*Page, error) {
	page, err := NewPage(len(p.pages), p.cfg)
	if err != nil {
		return nil, err
	}
	p.pages = append(p.pages, page)
	return page, nil
}

// Page returns the page with the given id, or nil.
func (p *Pool) Page(id int) *Page {
	if id < 0 || id >= len(p.pages) {
		return nil
	}
	return p.pages[id]
}

// Pages returns the open pages in creation order.
func (p *Pool) Pages() []*Page { return p.pages }

// Len returns the number of open pages.
func (p *Pool) Len() int { return len(p.pages) }

// FreeMemory returns the free bytes over all open pages plus the capacity
// of the pages that may still be opened.
func (p *Pool) FreeMemory() int {
	total := 0
	for _, page := range p.pages {
		total += page.FreeMemory()
	}
	unopened := p.maxPages - len(p.pages)
	total += unopened * (p.cfg.Width - border) * (p.cfg.Height - border) * p.cfg.Format.BytesPerPixel()
	return total
}

// Uploads collects the pending uploads of every dirty page and marks the
// pages clean.
func (p *Pool) Uploads() []UploadRequest {
	var reqs []UploadRequest
	for _, page := range p.pages {
		if req, ok := page.TakeUpload(); ok {
			reqs = append(reqs, req)
		}
	}
	return reqs
}

// ResetPage resets a single page. It reports false for an unknown id.
func (p *Pool) ResetPage(id int) bool {
	page := p.Page(id)
	if page == nil {
		return false
	}
	page.Reset()
	return true
}

// Reset resets every open page. Pages stay allocated.
func (p *Pool) Reset() {
	for _, page := range p.pages {
		page.Reset()
	}
}
