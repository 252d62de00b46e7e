package paratext

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/gogpu/paratext/atlas"
)

// Composite draws batches into dst on the CPU, sampling glyph pixels from
// the atlas pages. Coverage pages tint the glyphs with the batch color;
// color pages are drawn as they are.
//
// It is a preview path for tools and tests. Quads are drawn at whole
// pixel positions without filtering.
func (r *Renderer) Composite(dst draw.Image, batches []DrawBatch) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sources := make(map[int]image.Image)
	for i := range batches {
		b := &batches[i]
		page := r.pool.Page(b.PageID)
		if page == nil {
			continue
		}
		src, ok := sources[b.PageID]
		if !ok {
			src = pageImage(page)
			sources[b.PageID] = src
		}
		pw, ph := float64(page.Width()), float64(page.Height())
		fill := image.NewUniform(b.Style.Color)

		for q := 0; q+3 < len(b.Vertices); q += 4 {
			br, tl := b.Vertices[q+1], b.Vertices[q+3]
			sp := image.Pt(round(float64(tl.U)*pw), round(float64(tl.V)*ph))
			w := round(float64(br.U-tl.U) * pw)
			h := round(float64(br.V-tl.V) * ph)
			origin := image.Pt(round(float64(tl.X)), round(float64(tl.Y)))
			rect := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(w, h))}

			if page.Format() == atlas.FormatR8 {
				draw.DrawMask(dst, rect, fill, image.Point{}, src, sp, draw.Over)
			} else {
				draw.Draw(dst, rect, src, sp, draw.Over)
			}
		}
	}
}

// pageImage views the page pixels as an image without copying. Coverage
// pages become alpha masks.
func pageImage(p *atlas.Page) image.Image {
	bounds := image.Rect(0, 0, p.Width(), p.Height())
	if p.Format() == atlas.FormatR8 {
		return &image.Alpha{Pix: p.Pix(), Stride: p.Stride(), Rect: bounds}
	}
	return p.Image()
}

func round(v float64) int { return int(math.Round(v)) }
