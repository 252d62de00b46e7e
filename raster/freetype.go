package raster

import (
	"fmt"
	"image"
	"sync"

	ftraster "github.com/golang/freetype/raster"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/paratext/atlas"
	"github.com/gogpu/paratext/fonts"
)

// Freetype rasterizes TrueType outlines with the golang/freetype scanline
// rasterizer. Parsed fonts are cached per instance.
//
// Freetype is safe for concurrent use.
type Freetype struct {
	mu    sync.Mutex
	fonts map[*fonts.Instance]*truetype.Font
}

// NewFreetype returns a freetype rasterizer.
func NewFreetype() *Freetype {
	return &Freetype{fonts: make(map[*fonts.Instance]*truetype.Font)}
}

func (r *Freetype) font(inst *fonts.Instance) (*truetype.Font, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.fonts[inst]; ok {
		return f, nil
	}
	if inst.Data() == nil {
		return nil, ErrNoOutlines
	}
	f, err := truetype.Parse(inst.Data())
	if err != nil {
		return nil, fmt.Errorf("raster: parse truetype: %w", err)
	}
	r.fonts[inst] = f
	return f, nil
}

// Rasterize renders glyph of inst at size pixels per em into a coverage mask.
func (r *Freetype) Rasterize(inst *fonts.Instance, glyph uint32, size float64) (Bitmap, error) {
	f, err := r.font(inst)
	if err != nil {
		return Bitmap{}, err
	}

	var gb truetype.GlyphBuf
	if err := gb.Load(f, toFixed(size), truetype.Index(glyph), font.HintingNone); err != nil { //nolint:gosec // glyph ids fit uint16
		return Bitmap{}, fmt.Errorf("raster: load glyph %d: %w", glyph, err)
	}

	bm := Bitmap{Format: atlas.GlyphAlpha, AdvanceX: fromFixed(gb.AdvanceWidth)}

	// Glyph points are y-up; pixel bounds are y-down.
	xmin := int(gb.Bounds.Min.X) >> 6
	ymin := int(-gb.Bounds.Max.Y) >> 6
	xmax := int(gb.Bounds.Max.X+0x3f) >> 6
	ymax := int(-gb.Bounds.Min.Y+0x3f) >> 6
	w, h := xmax-xmin, ymax-ymin
	if len(gb.Points) == 0 || w <= 0 || h <= 0 {
		return bm, nil
	}

	dx := fixed.Int26_6(-xmin << 6)
	dy := fixed.Int26_6(-ymin << 6)
	rast := ftraster.NewRasterizer(w, h)
	e0 := 0
	for _, e1 := range gb.Ends {
		drawContour(rast, gb.Points[e0:e1], dx, dy)
		e0 = e1
	}

	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	rast.Rasterize(ftraster.NewAlphaSrcPainter(dst))

	bm.Pix = dst.Pix
	bm.Width = w
	bm.Height = h
	bm.Pitch = dst.Stride
	bm.BearingX = xmin
	bm.BearingY = -ymin
	return bm, nil
}

// drawContour feeds one closed quadratic contour to the rasterizer. Two
// consecutive off-curve points imply an on-curve point halfway between.
func drawContour(r *ftraster.Rasterizer, ps []truetype.Point, dx, dy fixed.Int26_6) {
	if len(ps) == 0 {
		return
	}
	onCurve := func(p truetype.Point) bool { return p.Flags&0x01 != 0 }
	toPt := func(p truetype.Point) fixed.Point26_6 {
		return fixed.Point26_6{X: dx + p.X, Y: dy - p.Y}
	}

	start := toPt(ps[0])
	var others []truetype.Point
	switch last := ps[len(ps)-1]; {
	case onCurve(ps[0]):
		others = ps[1:]
	case onCurve(last):
		start = toPt(last)
		others = ps[:len(ps)-1]
	default:
		l := toPt(last)
		start = fixed.Point26_6{X: (start.X + l.X) / 2, Y: (start.Y + l.Y) / 2}
		others = ps
	}

	r.Start(start)
	q0, on0 := start, true
	for _, p := range others {
		q := toPt(p)
		on := onCurve(p)
		switch {
		case on && on0:
			r.Add1(q)
		case on:
			r.Add2(q0, q)
		case !on0:
			mid := fixed.Point26_6{X: (q0.X + q.X) / 2, Y: (q0.Y + q.Y) / 2}
			r.Add2(q0, mid)
		}
		q0, on0 = q, on
	}
	if on0 {
		r.Add1(start)
	} else {
		r.Add2(q0, start)
	}
}
