// Package paratext lays out styled paragraphs and turns them into GPU draw
// batches backed by a glyph atlas.
//
// # Overview
//
// paratext is a Pure Go text stack for the GoGPU ecosystem. A paragraph is
// broken into lines, shaped and positioned by the paragraph package. The
// Renderer then rasterizes each glyph once, packs it into fixed-size atlas
// pages and emits textured quads grouped by atlas page and font.
//
// # Quick Start
//
//	r, err := paratext.NewRenderer(paratext.WithGoFonts())
//	if err != nil {
//	    return err
//	}
//
//	style := paragraph.DefaultParagraphStyle()
//	p, err := r.NewParagraph("Hello, world", style)
//	if err != nil {
//	    return err
//	}
//	if err := p.Layout(320); err != nil {
//	    return err
//	}
//
//	batches, err := r.Draw(p, 10, 10)
//	...
//	err = r.Flush(func(page int) any { return textures[page] })
//
// # Architecture
//
// The module is organized into:
//   - atlas: page allocator, dirty tracking, upload requests
//   - glyphcache: glyph identity to atlas placement
//   - raster: glyph rasterizers (x/image/vector, freetype)
//   - fonts: font collection, matching and fallback
//   - shape: HarfBuzz shaping and font metrics
//   - textseg: line, grapheme, word and bidi segmentation
//   - paragraph: line breaking, bidi composition and layout
//
// # Coordinate System
//
// Uses standard screen coordinates:
//   - Origin (0,0) at the top-left of the paragraph
//   - X increases right
//   - Y increases down
//
// # Thread Safety
//
// Paragraphs, pages and caches are not safe for concurrent use. A Renderer
// serializes its own methods and may be shared between goroutines.
//
// # Logging
//
// Nothing is logged by default. Call SetLogger to enable structured logging
// through log/slog.
package paratext
