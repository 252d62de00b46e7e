package atlas

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/paratext/internal/logging"
)

const (
	// border is the transparent gap kept around every glyph so that linear
	// sampling never bleeds a neighbor into the glyph edge.
	border = 1

	// rounding is the column width granularity. Glyph widths are rounded up
	// to a multiple of it so near-equal widths share columns.
	rounding = 4
)

// Page is one fixed-size glyph texture together with its free-space index.
//
// Free space is a list of blocks: columns that already hold glyphs, plus a
// remainder block covering everything right of the last column. Glyphs
// never move once placed.
//
// Page is not safe for concurrent use.
type Page struct {
	id     int
	width  int
	height int
	format PixelFormat
	pix    []byte

	blocks blockList
	dirty  image.Rectangle
	glyphs int

	logger *slog.Logger
}

// NewPage creates an empty page. The config is validated first.
func NewPage(id int, cfg Config) (*Page, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Page{
		id:     id,
		width:  cfg.Width,
		height: cfg.Height,
		format: cfg.Format,
		pix:    make([]byte, cfg.Width*cfg.Height*cfg.Format.BytesPerPixel()),
		blocks: newBlockList(),
		logger: logging.OrNop(cfg.Logger),
	}
	p.initBlocks()
	p.logger.Debug("atlas page created",
		slog.Int("page", id),
		slog.String("format", cfg.Format.String()),
		slog.Int("width", cfg.Width),
		slog.Int("height", cfg.Height))
	return p, nil
}

func (p *Page) initBlocks() {
	p.blocks.reset()
	idx := p.blocks.alloc(block{
		x:         border,
		y:         border,
		width:     p.width - border,
		height:    p.height - border,
		remainder: true,
	})
	p.blocks.insert(idx)
}

// ID returns the page identifier.
func (p *Page) ID() int { return p.id }

// Width returns the page width in pixels.
func (p *Page) Width() int { return p.width }

// Height returns the page height in pixels.
func (p *Page) Height() int { return p.height }

// Format returns the page pixel format.
func (p *Page) Format() PixelFormat { return p.format }

// Stride returns the number of bytes per pixel row.
func (p *Page) Stride() int { return p.width * p.format.BytesPerPixel() }

// Pix returns the CPU-side pixel buffer. The slice aliases page storage.
func (p *Page) Pix() []byte { return p.pix }

// GlyphCount returns the number of glyphs placed since the last reset.
func (p *Page) GlyphCount() int { return p.glyphs }

// BlockCount returns the number of free blocks.
func (p *Page) BlockCount() int { return p.blocks.count }

// Reserve finds room for a w x h glyph in format f and returns the top-left
// pixel of the glyph area. The surrounding border pixels are reserved too.
//
// A failed reservation returns a *PlacementError matching ErrNoFit. The
// page is left unchanged in that case.
func (p *Page) Reserve(w, h int, f GlyphFormat) (image.Point, error) {
	if w <= 0 || h <= 0 {
		return image.Point{}, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	if !f.CompatibleWith(p.format) {
		return image.Point{}, p.placementError(w, h, ReasonIncompatibleFormat)
	}
	if h+2*border > p.height {
		return image.Point{}, p.placementError(w, h, ReasonTooTall)
	}

	glyphW := w + border
	glyphH := h + border
	roundedUpW := (glyphW + rounding - 1) &^ (rounding - 1)

	found := nilBlock
	p.blocks.each(func(idx int, b *block) bool {
		if roundedUpW > b.width || glyphH > b.height {
			return true
		}
		if !b.remainder && b.width-roundedUpW >= rounding {
			return true
		}
		// Not enough height left for a second glyph: take only what
		// this one needs.
		if b.height-glyphH < glyphH {
			roundedUpW = glyphW
		}
		found = idx
		return false
	})
	if found == nilBlock {
		return image.Point{}, p.placementError(w, h, ReasonPageFull)
	}

	b := &p.blocks.nodes[found]
	pos := image.Pt(b.x, b.y)

	if b.remainder {
		oldX := b.x
		b.x += roundedUpW
		b.width -= roundedUpW
		if p.height-glyphH >= glyphH {
			col := p.blocks.alloc(block{
				x:      oldX,
				y:      glyphH + border,
				width:  roundedUpW,
				height: p.height - glyphH - border,
			})
			// alloc may grow the arena; b is stale from here on.
			p.blocks.insert(col)
		}
	} else {
		b.y += glyphH
		b.height -= glyphH
	}

	if nb := &p.blocks.nodes[found]; nb.height < min(glyphH, glyphW) {
		p.blocks.unlink(found)
	}

	p.dirty = p.dirty.Union(image.Rect(pos.X-border, pos.Y-border, pos.X+glyphW, pos.Y+glyphH))
	p.glyphs++
	return pos, nil
}

func (p *Page) placementError(w, h int, reason PlacementReason) error {
	err := &PlacementError{PageID: p.id, Width: w, Height: h, Reason: reason}
	p.logger.Warn("glyph placement failed",
		slog.Int("page", p.id),
		slog.Int("width", w),
		slog.Int("height", h),
		slog.String("reason", reason.String()))
	return err
}

// Write copies a glyph bitmap to pos and clears the one pixel border around
// it. src holds h rows of pitch bytes; only the first w pixels of each row
// are copied. The region must come from a successful Reserve.
func (p *Page) Write(pos image.Point, w, h int, src []byte, pitch int) {
	bpp := p.format.BytesPerPixel()
	stride := p.Stride()
	rowBytes := w * bpp

	for row := 0; row < h; row++ {
		off := (pos.Y+row)*stride + pos.X*bpp
		copy(p.pix[off:off+rowBytes], src[row*pitch:row*pitch+rowBytes])
	}

	// Top and bottom border rows, corners included.
	left := (pos.X - border) * bpp
	span := (w + 2*border) * bpp
	for _, y := range [2]int{pos.Y - border, pos.Y + h} {
		off := y*stride + left
		clear(p.pix[off : off+span])
	}
	// Left and right border columns.
	for row := 0; row < h; row++ {
		off := (pos.Y + row) * stride
		l := off + (pos.X-border)*bpp
		r := off + (pos.X+w)*bpp
		clear(p.pix[l : l+bpp])
		clear(p.pix[r : r+bpp])
	}

	p.dirty = p.dirty.Union(image.Rect(pos.X-border, pos.Y-border, pos.X+w+border, pos.Y+h+border))
}

// FreeMemory returns the free area of the page in bytes.
func (p *Page) FreeMemory() int {
	bpp := p.format.BytesPerPixel()
	total := 0
	p.blocks.each(func(_ int, b *block) bool {
		total += bpp * b.width * b.height
		return true
	})
	return total
}

// Dirty returns the region modified since the last upload.
func (p *Page) Dirty() image.Rectangle { return p.dirty }

// IsDirty reports whether the page has pending changes.
func (p *Page) IsDirty() bool { return !p.dirty.Empty() }

// TakeUpload returns the pending upload for the dirty region and marks the
// page clean. ok is false when nothing changed.
func (p *Page) TakeUpload() (req UploadRequest, ok bool) {
	r := p.dirty.Intersect(image.Rect(0, 0, p.width, p.height))
	p.dirty = image.Rectangle{}
	if r.Empty() {
		return UploadRequest{}, false
	}
	return newUploadRequest(p, r), true
}

// Reset frees every block and clears the pixels. All placements made on the
// page become invalid. The cleared page is uploaded in full.
func (p *Page) Reset() {
	clear(p.pix)
	p.initBlocks()
	p.glyphs = 0
	p.dirty = image.Rect(0, 0, p.width, p.height)
	p.logger.Debug("atlas page reset", slog.Int("page", p.id))
}
