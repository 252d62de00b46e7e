package raster

import (
	"errors"

	"github.com/gogpu/paratext/atlas"
)

// ErrNoOutlines is returned for font instances without outline data.
var ErrNoOutlines = errors.New("raster: font has no outlines")

// Bitmap is a rasterized glyph.
//
// Pix holds Height rows of Pitch bytes. BearingX and BearingY place the
// top-left pixel relative to the pen position on the baseline; BearingY
// grows upward. A glyph without ink (a space) has zero Width and Height but
// still reports its advance.
type Bitmap struct {
	Pix    []byte
	Width  int
	Height int
	Pitch  int
	Format atlas.GlyphFormat

	BearingX int
	BearingY int
	AdvanceX float64
}

// Empty reports whether the bitmap has no pixels.
func (b *Bitmap) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}
