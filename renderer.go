package paratext

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"sync"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/paratext/atlas"
	"github.com/gogpu/paratext/fonts"
	"github.com/gogpu/paratext/glyphcache"
	"github.com/gogpu/paratext/paragraph"
	"github.com/gogpu/paratext/raster"
	"github.com/gogpu/paratext/shape"
	"github.com/gogpu/paratext/textseg"
)

// ErrNoTexture is returned by Flush when a dirty page has no texture that
// accepts uploads.
var ErrNoTexture = errors.New("paratext: page has no updatable texture")

// DrawBatch is a run of glyph quads that share one atlas page, font and
// color, ready to be drawn with a single call.
type DrawBatch struct {
	PageID int
	Font   *fonts.Instance
	Style  paragraph.TextStyle

	// Vertices holds four corners per glyph: bottom-left, bottom-right,
	// top-right, top-left.
	Vertices []glyphcache.Vertex

	// Indices holds two triangles per glyph.
	Indices []uint32
}

// Glyphs returns the number of glyph quads in the batch.
func (b *DrawBatch) Glyphs() int { return len(b.Vertices) / 4 }

func (b *DrawBatch) addQuad(q [4]glyphcache.Vertex) {
	base := uint32(len(b.Vertices)) //nolint:gosec // bounded by glyph count
	b.Vertices = append(b.Vertices, q[:]...)
	b.Indices = append(b.Indices, base, base+1, base+2, base, base+2, base+3)
}

type batchKey struct {
	page  int
	font  uint32
	color color.RGBA
}

// Stats reports the renderer's atlas and cache state.
type Stats struct {
	Pages      int
	MaxPages   int
	FreeMemory int
	Cache      glyphcache.Stats
	Unplaced   int
}

// Renderer turns laid out paragraphs into draw batches. It owns the font
// collection, the glyph cache and its atlas pages.
//
// Renderer is safe for concurrent use. Paragraphs it creates are not.
type Renderer struct {
	mu sync.Mutex

	collection *fonts.Collection
	shaper     paragraph.Shaper
	unicode    paragraph.UnicodeServices
	pool       *atlas.Pool
	cache      *glyphcache.Cache
	logger     *slog.Logger
}

// NewRenderer creates a renderer. Atlas pages are allocated lazily.
func NewRenderer(opts ...Option) (*Renderer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = Logger()
	}
	if o.collection == nil {
		o.collection = fonts.NewCollection(logger)
	}
	for i, data := range o.fontData {
		if _, err := o.collection.Load(data); err != nil {
			return nil, fmt.Errorf("paratext: load font %d: %w", i, err)
		}
	}
	if o.shaper == nil {
		o.shaper = shape.NewHarfBuzz()
	}
	if o.rasterizer == nil {
		o.rasterizer = raster.NewVector()
	}
	if o.unicode == nil {
		o.unicode = textseg.NewServices()
	}

	cfg := o.pageConfig
	if cfg.Logger == nil {
		cfg.Logger = logger
	}
	pool, err := atlas.NewPool(cfg, o.maxPages)
	if err != nil {
		return nil, fmt.Errorf("paratext: %w", err)
	}

	return &Renderer{
		collection: o.collection,
		shaper:     o.shaper,
		unicode:    o.unicode,
		pool:       pool,
		cache:      glyphcache.New(pool, o.rasterizer, logger),
		logger:     logger,
	}, nil
}

// Fonts returns the renderer's font collection.
func (r *Renderer) Fonts() *fonts.Collection { return r.collection }

// Collaborators returns the services paragraphs of this renderer lay out
// with.
func (r *Renderer) Collaborators() paragraph.Collaborators {
	return paragraph.Collaborators{
		Fonts:   r.collection,
		Shaper:  r.shaper,
		Unicode: r.unicode,
		Logger:  r.logger,
	}
}

// NewBuilder starts a multi-style paragraph.
func (r *Renderer) NewBuilder(style paragraph.ParagraphStyle) *paragraph.Builder {
	return paragraph.NewBuilder(style, r.Collaborators())
}

// NewParagraph creates a paragraph with a single style run.
func (r *Renderer) NewParagraph(text string, style paragraph.ParagraphStyle) (*paragraph.Paragraph, error) {
	b := r.NewBuilder(style)
	b.AddText(text)
	return b.Build()
}

// Draw rasterizes the glyphs of a laid out paragraph and returns their
// quads with the paragraph's top-left corner at (x, y). Batches come in
// paint order, one per atlas page, font and color.
//
// Glyphs without ink and glyphs that found no atlas space are skipped.
// Rasterizer failures skip the glyph too and are returned joined together
// with the batches that could be built.
func (r *Renderer) Draw(p *paragraph.Paragraph, x, y float64) ([]DrawBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		batches []DrawBatch
		index   = make(map[batchKey]int)
		errs    []error
		skipped int
	)
	for _, rec := range p.PaintRecords() {
		if rec.Ghost || rec.Font == nil {
			continue
		}
		for _, g := range rec.Glyphs {
			cg, err := r.cache.GetOrRasterize(rec.Font, g.ID, rec.Size)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if cg.Empty() {
				continue
			}
			if !cg.Placed() {
				skipped++
				continue
			}

			key := batchKey{page: cg.PageID, font: rec.Font.ID(), color: rec.Style.Color}
			bi, ok := index[key]
			if !ok {
				bi = len(batches)
				index[key] = bi
				batches = append(batches, DrawBatch{PageID: cg.PageID, Font: rec.Font, Style: rec.Style})
			}
			batches[bi].addQuad(cg.Quad(x+rec.X+g.X, y+rec.Y+g.Y))
		}
	}

	if skipped > 0 {
		r.logger.Warn("glyphs skipped without atlas space",
			slog.Int("glyphs", skipped),
			slog.Int("pages", r.pool.Len()))
	}
	if len(errs) > 0 {
		r.logger.Warn("glyph rasterization failed",
			slog.Int("glyphs", len(errs)),
			slog.String("error", errs[0].Error()))
	}
	return batches, errors.Join(errs...)
}

// Uploads returns the pending texture uploads of every dirty page and marks
// the pages clean.
func (r *Renderer) Uploads() []atlas.UploadRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pool.Uploads()
}

// Flush sends the pending uploads to the page textures returned by
// texture. A texture implementing gpucontext.TextureRegionUpdater receives
// only the dirty region; a gpucontext.TextureUpdater receives the whole
// page.
func (r *Renderer) Flush(texture func(pageID int) any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, req := range r.pool.Uploads() {
		t := texture(req.PageID)
		var err error
		switch u := t.(type) {
		case gpucontext.TextureRegionUpdater:
			err = u.UpdateRegion(req.Origin.X, req.Origin.Y, int(req.Size.Width), int(req.Size.Height), req.Data)
		case gpucontext.TextureUpdater:
			err = u.UpdateData(r.pool.Page(req.PageID).Pix())
		default:
			err = ErrNoTexture
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("paratext: upload page %d: %w", req.PageID, err))
		}
	}
	return errors.Join(errs...)
}

// DumpPages writes every open atlas page as a PNG into dir and returns the
// file paths.
func (r *Renderer) DumpPages(dir string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var paths []string
	for _, page := range r.pool.Pages() {
		path, err := page.SavePNG(dir)
		if err != nil {
			return paths, err
		}
		r.logger.Debug("atlas page dumped", slog.Int("page", page.ID()), slog.String("path", path))
		paths = append(paths, path)
	}
	return paths, nil
}

// FreeMemory returns the free atlas bytes, counting pages not opened yet.
func (r *Renderer) FreeMemory() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pool.FreeMemory()
}

// Reset drops every cached glyph and clears all atlas pages. Batches
// returned before are invalid afterwards.
func (r *Renderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Clear()
}

// Stats returns a snapshot of the atlas and cache state.
func (r *Renderer) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Stats{
		Pages:      r.pool.Len(),
		MaxPages:   r.pool.MaxPages(),
		FreeMemory: r.pool.FreeMemory(),
		Cache:      r.cache.Stats(),
		Unplaced:   r.cache.Unplaced(),
	}
}
