package glyphcache

import (
	"fmt"

	"github.com/gogpu/paratext/fonts"
)

// Identity is the cache key of a rasterized glyph. FontID distinguishes
// physical font instances, so two families that share a name never collide.
type Identity struct {
	FontID    uint32
	Style     uint32
	PixelSize float32
	Glyph     uint32
}

// IdentityOf builds the identity of glyph rendered with inst at size.
func IdentityOf(inst *fonts.Instance, glyph uint32, size float64) Identity {
	return Identity{
		FontID:    inst.ID(),
		Style:     inst.Style().Bits(),
		PixelSize: float32(size),
		Glyph:     glyph,
	}
}

func (id Identity) String() string {
	return fmt.Sprintf("font=%d style=%#x size=%g glyph=%d", id.FontID, id.Style, id.PixelSize, id.Glyph)
}

// UV is a normalized texture rectangle.
type UV struct {
	MinU, MinV float32
	MaxU, MaxV float32
}

// CachedGlyph is the placement and metrics of one glyph.
//
// An unplaced glyph (PageID < 0) still has valid metrics: text can be
// measured but the glyph is not drawn.
type CachedGlyph struct {
	Identity Identity

	Width    int
	Height   int
	BearingX int
	BearingY int
	AdvanceX float64

	// X and Y locate the glyph pixels on its page.
	X, Y int
	UV   UV

	// PageID is the owning atlas page, -1 when unplaced.
	PageID int
}

// Placed reports whether the glyph has atlas coordinates.
func (g *CachedGlyph) Placed() bool { return g.PageID >= 0 }

// Empty reports whether the glyph has no pixels, like a space.
func (g *CachedGlyph) Empty() bool { return g.Width <= 0 || g.Height <= 0 }

// Vertex is one corner of a glyph quad in screen space (y down) with its
// texture coordinate.
type Vertex struct {
	X, Y float32
	U, V float32
}

// Quad returns the four corners of the glyph drawn with the pen at
// (penX, baselineY): bottom-left, bottom-right, top-right, top-left.
func (g *CachedGlyph) Quad(penX, baselineY float64) [4]Vertex {
	left := float32(penX) + float32(g.BearingX)
	right := left + float32(g.Width)
	bottom := float32(baselineY) - float32(g.BearingY) + float32(g.Height)
	top := bottom - float32(g.Height)
	return [4]Vertex{
		{X: left, Y: bottom, U: g.UV.MinU, V: g.UV.MaxV},
		{X: right, Y: bottom, U: g.UV.MaxU, V: g.UV.MaxV},
		{X: right, Y: top, U: g.UV.MaxU, V: g.UV.MinV},
		{X: left, Y: top, U: g.UV.MinU, V: g.UV.MinV},
	}
}
