package paratext

import (
	"bytes"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/paratext/atlas"
	"github.com/gogpu/paratext/fonts"
	"github.com/gogpu/paratext/paragraph"
	"github.com/gogpu/paratext/raster"
	"github.com/gogpu/paratext/shape"
)

// boxRasterizer returns solid 6x8 boxes for every glyph except spaces.
type boxRasterizer struct {
	err   error
	calls int
}

func (b *boxRasterizer) Rasterize(_ *fonts.Instance, glyph uint32, _ float64) (raster.Bitmap, error) {
	b.calls++
	if b.err != nil {
		return raster.Bitmap{}, b.err
	}
	bm := raster.Bitmap{Format: atlas.GlyphAlpha, AdvanceX: 10}
	if glyph == ' ' {
		return bm, nil
	}
	bm.Width, bm.Height, bm.Pitch = 6, 8, 6
	bm.Pix = bytes.Repeat([]byte{0xff}, 6*8)
	bm.BearingX, bm.BearingY = 1, 7
	return bm, nil
}

func newTestRendererWith(t *testing.T, opts ...Option) *Renderer {
	t.Helper()
	c := fonts.NewCollection(nil)
	c.Add(fonts.NewSynthetic(0, "Mono", fonts.NormalStyle()))
	base := []Option{
		WithFontCollection(c),
		WithShaper(shape.Monospace{Advance: 1, Ascent: 0.8, Descent: 0.2}),
		WithRasterizer(&boxRasterizer{}),
	}
	r, err := NewRenderer(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	return newTestRendererWith(t)
}

func testStyle() paragraph.ParagraphStyle {
	ps := paragraph.DefaultParagraphStyle()
	ps.TextStyle.FontFamilies = []string{"Mono"}
	ps.TextStyle.FontSize = 10
	return ps
}

func newTestParagraph(t *testing.T, r *Renderer, text string) *paragraph.Paragraph {
	t.Helper()
	p, err := r.NewParagraph(text, testStyle())
	if err != nil {
		t.Fatalf("NewParagraph: %v", err)
	}
	return p
}

func drawLaidOut(t *testing.T, r *Renderer, p *paragraph.Paragraph, x, y float64) []DrawBatch {
	t.Helper()
	if err := p.Layout(100); err != nil {
		t.Fatalf("Layout: %v", err)
	}
	batches, err := r.Draw(p, x, y)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	return batches
}

func TestRenderer_DrawQuads(t *testing.T) {
	r := newTestRenderer(t)
	p := newTestParagraph(t, r, "ab")
	batches := drawLaidOut(t, r, p, 5, 3)

	if len(batches) != 1 {
		t.Fatalf("got %d batches, want 1", len(batches))
	}
	b := batches[0]
	if b.PageID != 0 || b.Glyphs() != 2 {
		t.Fatalf("batch page %d with %d glyphs, want page 0 with 2", b.PageID, b.Glyphs())
	}
	if len(b.Indices) != 12 {
		t.Errorf("got %d indices, want 12", len(b.Indices))
	}
	if b.Indices[6] != 4 {
		t.Errorf("second quad starts at index %d, want 4", b.Indices[6])
	}

	// Baseline at y + 8, pen at x + 0 and x + 10, bearing (1, 7).
	tests := []struct {
		glyph        int
		left, bottom float32
	}{
		{0, 6, 12},
		{1, 16, 12},
	}
	for _, tt := range tests {
		v := b.Vertices[tt.glyph*4]
		if v.X != tt.left || v.Y != tt.bottom {
			t.Errorf("glyph %d bottom-left = (%v, %v), want (%v, %v)", tt.glyph, v.X, v.Y, tt.left, tt.bottom)
		}
		top := b.Vertices[tt.glyph*4+3]
		if top.Y != tt.bottom-8 {
			t.Errorf("glyph %d top = %v, want %v", tt.glyph, top.Y, tt.bottom-8)
		}
	}
}

func TestRenderer_SkipsBlankAndGhostGlyphs(t *testing.T) {
	r := newTestRenderer(t)
	ps := testStyle()
	ps.Align = paragraph.AlignCenter
	p, err := r.NewParagraph("a b  ", ps)
	if err != nil {
		t.Fatal(err)
	}
	batches := drawLaidOut(t, r, p, 0, 0)
	if len(batches) != 1 || batches[0].Glyphs() != 2 {
		t.Fatalf("batches = %+v, want one batch of 2 glyphs", batches)
	}
}

func TestRenderer_BatchesByColor(t *testing.T) {
	r := newTestRenderer(t)
	red := testStyle().TextStyle
	red.Color = color.RGBA{R: 0xff, A: 0xff}

	b := r.NewBuilder(testStyle())
	b.AddText("ab")
	b.PushStyle(red)
	b.AddText("cd")
	b.Pop()
	b.AddText("e")
	p, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	batches := drawLaidOut(t, r, p, 0, 0)

	if len(batches) != 2 {
		t.Fatalf("got %d batches, want 2", len(batches))
	}
	if got := batches[0].Glyphs(); got != 3 {
		t.Errorf("default color batch has %d glyphs, want 3", got)
	}
	if got := batches[1].Style.Color; got != red.Color {
		t.Errorf("second batch color = %v, want %v", got, red.Color)
	}
	if got := batches[1].Glyphs(); got != 2 {
		t.Errorf("red batch has %d glyphs, want 2", got)
	}
}

func TestRenderer_CachesGlyphs(t *testing.T) {
	ras := &boxRasterizer{}
	r := newTestRendererWith(t, WithRasterizer(ras))
	p := newTestParagraph(t, r, "abab")
	drawLaidOut(t, r, p, 0, 0)
	drawLaidOut(t, r, p, 0, 0)

	if ras.calls != 2 {
		t.Errorf("rasterizer called %d times, want 2", ras.calls)
	}
	st := r.Stats()
	if st.Cache.Entries != 2 || st.Cache.Hits != 6 {
		t.Errorf("cache stats = %+v, want 2 entries and 6 hits", st.Cache)
	}
	if st.Pages != 1 {
		t.Errorf("pages = %d, want 1", st.Pages)
	}
}

func TestRenderer_PoolExhausted(t *testing.T) {
	cfg := atlas.Config{Width: 16, Height: 16, Format: atlas.FormatR8}
	r := newTestRendererWith(t, WithPageConfig(cfg), WithMaxPages(1))
	// Two boxes share the only column; the third finds a 1px remainder.
	p := newTestParagraph(t, r, "abc")
	batches := drawLaidOut(t, r, p, 0, 0)

	if len(batches) != 1 || batches[0].Glyphs() != 2 {
		t.Fatalf("batches = %+v, want two glyphs drawn", batches)
	}
	if got := r.Stats().Unplaced; got != 1 {
		t.Errorf("Unplaced = %d, want 1", got)
	}
}

func TestRenderer_RasterizerError(t *testing.T) {
	errBroken := errors.New("broken rasterizer")
	r := newTestRendererWith(t, WithRasterizer(&boxRasterizer{err: errBroken}))
	p := newTestParagraph(t, r, "ab")
	if err := p.Layout(100); err != nil {
		t.Fatal(err)
	}
	batches, err := r.Draw(p, 0, 0)
	if !errors.Is(err, errBroken) {
		t.Errorf("Draw error = %v, want %v", err, errBroken)
	}
	if len(batches) != 0 {
		t.Errorf("got %d batches, want none", len(batches))
	}
}

type regionTexture struct {
	x, y, w, h int
	data       []byte
}

func (rt *regionTexture) UpdateRegion(x, y, w, h int, data []byte) error {
	rt.x, rt.y, rt.w, rt.h = x, y, w, h
	rt.data = data
	return nil
}

type fullTexture struct {
	data []byte
}

func (ft *fullTexture) UpdateData(data []byte) error {
	ft.data = data
	return nil
}

func TestRenderer_FlushRegion(t *testing.T) {
	r := newTestRenderer(t)
	drawLaidOut(t, r, newTestParagraph(t, r, "a"), 0, 0)

	tex := &regionTexture{}
	if err := r.Flush(func(int) any { return tex }); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	// 6x8 glyph at (1,1) with its one pixel border.
	if tex.x != 0 || tex.y != 0 || tex.w != 8 || tex.h != 10 {
		t.Errorf("region = (%d,%d %dx%d), want (0,0 8x10)", tex.x, tex.y, tex.w, tex.h)
	}
	if len(tex.data) != tex.w*tex.h {
		t.Errorf("got %d bytes, want %d", len(tex.data), tex.w*tex.h)
	}
	if ups := r.Uploads(); len(ups) != 0 {
		t.Errorf("got %d pending uploads after Flush, want none", len(ups))
	}
}

func TestRenderer_FlushFullAndMissing(t *testing.T) {
	r := newTestRenderer(t)
	drawLaidOut(t, r, newTestParagraph(t, r, "a"), 0, 0)

	tex := &fullTexture{}
	if err := r.Flush(func(int) any { return tex }); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	cfg := atlas.DefaultConfig()
	if len(tex.data) != cfg.Width*cfg.Height {
		t.Errorf("full upload has %d bytes, want %d", len(tex.data), cfg.Width*cfg.Height)
	}

	drawLaidOut(t, r, newTestParagraph(t, r, "b"), 0, 0)
	if err := r.Flush(func(int) any { return nil }); !errors.Is(err, ErrNoTexture) {
		t.Errorf("Flush without texture = %v, want ErrNoTexture", err)
	}
}

func TestRenderer_DumpPages(t *testing.T) {
	r := newTestRenderer(t)
	drawLaidOut(t, r, newTestParagraph(t, r, "a"), 0, 0)

	dir := t.TempDir()
	paths, err := r.DumpPages(dir)
	if err != nil {
		t.Fatalf("DumpPages: %v", err)
	}
	want := filepath.Join(dir, "FontTexture_0_R8.png")
	if len(paths) != 1 || paths[0] != want {
		t.Fatalf("paths = %v, want [%s]", paths, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("dump file: %v", err)
	}
}

func TestRenderer_FreeMemoryAndReset(t *testing.T) {
	r := newTestRenderer(t)
	before := r.FreeMemory()
	drawLaidOut(t, r, newTestParagraph(t, r, "abc"), 0, 0)
	after := r.FreeMemory()
	if after >= before {
		t.Errorf("FreeMemory after drawing = %d, want < %d", after, before)
	}

	r.Reset()
	if got := r.Stats().Cache.Entries; got != 0 {
		t.Errorf("entries after Reset = %d, want 0", got)
	}
	if got := r.FreeMemory(); got != before {
		t.Errorf("FreeMemory after Reset = %d, want %d", got, before)
	}
}

func TestNewRenderer_InvalidPageConfig(t *testing.T) {
	_, err := NewRenderer(WithPageConfig(atlas.Config{Width: 4, Height: 512}))
	var ce *atlas.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *atlas.ConfigError", err)
	}
	if ce.Field != "Width" {
		t.Errorf("Field = %q, want Width", ce.Field)
	}
}

func TestNewRenderer_GoFonts(t *testing.T) {
	r, err := NewRenderer(WithGoFonts())
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	if got := r.Fonts().Len(); got != 4 {
		t.Errorf("collection has %d fonts, want 4", got)
	}

	ps := paragraph.DefaultParagraphStyle()
	ps.TextStyle.FontSize = 16
	p, err := r.NewParagraph("Hello", ps)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Layout(400); err != nil {
		t.Fatal(err)
	}
	batches, err := r.Draw(p, 0, 0)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	glyphs := 0
	for i := range batches {
		glyphs += batches[i].Glyphs()
	}
	if glyphs != 5 {
		t.Errorf("drew %d glyphs, want 5", glyphs)
	}
}
