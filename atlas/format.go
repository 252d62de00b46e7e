package atlas

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// PixelFormat is the storage format of an atlas page.
type PixelFormat uint8

const (
	// FormatR8 is a single-channel 8-bit coverage format used for
	// grayscale glyph masks.
	FormatR8 PixelFormat = iota

	// FormatRGBA8 stores four 8-bit channels in RGBA order.
	FormatRGBA8

	// FormatBGRA8 stores four 8-bit channels in BGRA order.
	FormatBGRA8
)

// String returns a human-readable name for the format.
func (f PixelFormat) String() string {
	switch f {
	case FormatR8:
		return "R8"
	case FormatRGBA8:
		return "RGBA8"
	case FormatBGRA8:
		return "BGRA8"
	default:
		return fmt.Sprintf("Unknown(%d)", f)
	}
}

// BytesPerPixel returns the number of bytes per pixel for the format.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatR8:
		return 1
	default:
		return 4
	}
}

// GPUFormat maps the page format to the WebGPU texture format used when the
// page is uploaded.
func (f PixelFormat) GPUFormat() gputypes.TextureFormat {
	switch f {
	case FormatR8:
		return gputypes.TextureFormatR8Unorm
	case FormatBGRA8:
		return gputypes.TextureFormatBGRA8Unorm
	default:
		return gputypes.TextureFormatRGBA8Unorm
	}
}

func (f PixelFormat) valid() bool {
	return f <= FormatBGRA8
}

// GlyphFormat describes the pixel layout of a rasterized glyph bitmap.
type GlyphFormat uint8

const (
	// GlyphAlpha is an 8-bit coverage mask.
	GlyphAlpha GlyphFormat = iota

	// GlyphColor is a 32-bit color bitmap in the page's channel order.
	GlyphColor
)

// String returns a human-readable name for the glyph format.
func (g GlyphFormat) String() string {
	switch g {
	case GlyphAlpha:
		return "Alpha"
	case GlyphColor:
		return "Color"
	default:
		return fmt.Sprintf("Unknown(%d)", g)
	}
}

// BytesPerPixel returns the number of bytes per pixel of a bitmap in this format.
func (g GlyphFormat) BytesPerPixel() int {
	if g == GlyphColor {
		return 4
	}
	return 1
}

// CompatibleWith reports whether a glyph in this format can be stored on a
// page with the given pixel format. Coverage masks require a single-channel
// page and color bitmaps require a four-channel page.
func (g GlyphFormat) CompatibleWith(f PixelFormat) bool {
	switch g {
	case GlyphAlpha:
		return f == FormatR8
	case GlyphColor:
		return f == FormatRGBA8 || f == FormatBGRA8
	default:
		return false
	}
}
