package raster

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/paratext/atlas"
	"github.com/gogpu/paratext/fonts"
)

// Vector rasterizes glyph outlines with golang.org/x/image/vector.
// It handles TrueType and CFF outlines. The zero value is ready to use and
// safe for concurrent use.
type Vector struct{}

// NewVector returns a vector rasterizer.
func NewVector() *Vector { return &Vector{} }

// Rasterize renders glyph of inst at size pixels per em into a coverage mask.
func (v *Vector) Rasterize(inst *fonts.Instance, glyph uint32, size float64) (Bitmap, error) {
	sf := inst.SFNT()
	if sf == nil {
		return Bitmap{}, ErrNoOutlines
	}

	var buf sfnt.Buffer
	ppem := toFixed(size)
	idx := sfnt.GlyphIndex(glyph) //nolint:gosec // glyph ids fit uint16

	advance, err := sf.GlyphAdvance(&buf, idx, ppem, font.HintingNone)
	if err != nil {
		return Bitmap{}, fmt.Errorf("raster: advance of glyph %d: %w", glyph, err)
	}
	segs, err := sf.LoadGlyph(&buf, idx, ppem, nil)
	if err != nil {
		return Bitmap{}, fmt.Errorf("raster: load glyph %d: %w", glyph, err)
	}

	bm := Bitmap{Format: atlas.GlyphAlpha, AdvanceX: fromFixed(advance)}
	if len(segs) == 0 {
		return bm, nil
	}

	// Segment coordinates are y-down relative to the pen position.
	bounds := segs.Bounds()
	x0, y0 := bounds.Min.X.Floor(), bounds.Min.Y.Floor()
	x1, y1 := bounds.Max.X.Ceil(), bounds.Max.Y.Ceil()
	w, h := x1-x0, y1-y0
	if w <= 0 || h <= 0 {
		return bm, nil
	}

	tx, ty := float32(-x0), float32(-y0)
	pt := func(p fixed.Point26_6) (float32, float32) {
		return tx + float32(p.X)/64, ty + float32(p.Y)/64
	}

	rast := vector.NewRasterizer(w, h)
	rast.DrawOp = draw.Src
	started := false
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if started {
				rast.ClosePath()
			}
			rast.MoveTo(pt(seg.Args[0]))
			started = true
		case sfnt.SegmentOpLineTo:
			rast.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			ax, ay := pt(seg.Args[0])
			bx, by := pt(seg.Args[1])
			rast.QuadTo(ax, ay, bx, by)
		case sfnt.SegmentOpCubeTo:
			ax, ay := pt(seg.Args[0])
			bx, by := pt(seg.Args[1])
			cx, cy := pt(seg.Args[2])
			rast.CubeTo(ax, ay, bx, by, cx, cy)
		}
	}
	if started {
		rast.ClosePath()
	}

	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	rast.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})

	bm.Pix = dst.Pix
	bm.Width = w
	bm.Height = h
	bm.Pitch = dst.Stride
	bm.BearingX = x0
	bm.BearingY = -y0
	return bm, nil
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
