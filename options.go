package paratext

import (
	"log/slog"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/paratext/atlas"
	"github.com/gogpu/paratext/fonts"
	"github.com/gogpu/paratext/glyphcache"
	"github.com/gogpu/paratext/paragraph"
)

// Option configures a Renderer during creation.
//
// Example:
//
//	r, err := paratext.NewRenderer(
//	    paratext.WithGoFonts(),
//	    paratext.WithMaxPages(8),
//	)
type Option func(*options)

// options holds the optional configuration of a Renderer.
type options struct {
	logger     *slog.Logger
	pageConfig atlas.Config
	maxPages   int
	rasterizer glyphcache.Rasterizer
	shaper     paragraph.Shaper
	collection *fonts.Collection
	unicode    paragraph.UnicodeServices
	fontData   [][]byte
}

// defaultOptions returns the default renderer options. Unset collaborators
// are filled in by NewRenderer.
func defaultOptions() options {
	return options{
		pageConfig: atlas.DefaultConfig(),
		maxPages:   atlas.DefaultMaxPages,
	}
}

// WithLogger sets the renderer logger. It is passed to every component the
// renderer creates. Without it the package logger from SetLogger is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithPageConfig sets the atlas page geometry and format.
func WithPageConfig(cfg atlas.Config) Option {
	return func(o *options) {
		o.pageConfig = cfg
	}
}

// WithMaxPages sets how many atlas pages may be opened. Values below one
// select atlas.DefaultMaxPages.
func WithMaxPages(n int) Option {
	return func(o *options) {
		o.maxPages = n
	}
}

// WithRasterizer sets the glyph rasterizer. Default: raster.NewVector().
func WithRasterizer(r glyphcache.Rasterizer) Option {
	return func(o *options) {
		o.rasterizer = r
	}
}

// WithShaper sets the shaper used by paragraphs. Default: shape.NewHarfBuzz().
func WithShaper(s paragraph.Shaper) Option {
	return func(o *options) {
		o.shaper = s
	}
}

// WithFontCollection sets the font collection. Fonts registered with
// WithFontData or WithGoFonts are added to it.
func WithFontCollection(c *fonts.Collection) Option {
	return func(o *options) {
		o.collection = c
	}
}

// WithUnicodeServices replaces the Unicode segmentation services.
// Default: textseg.NewServices().
func WithUnicodeServices(u paragraph.UnicodeServices) Option {
	return func(o *options) {
		o.unicode = u
	}
}

// WithFontData loads TrueType or OpenType font files into the collection.
func WithFontData(data ...[]byte) Option {
	return func(o *options) {
		o.fontData = append(o.fontData, data...)
	}
}

// WithGoFonts loads the Go font family: regular, bold, italic and mono.
// Go Regular becomes the default family unless fonts were added before.
func WithGoFonts() Option {
	return WithFontData(goregular.TTF, gobold.TTF, goitalic.TTF, gomono.TTF)
}
