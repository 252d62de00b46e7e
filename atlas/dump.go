package atlas

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

// Image returns a copy of the page pixels as an image. R8 pages become
// *image.Gray; four-channel pages become *image.RGBA with BGRA swizzled.
func (p *Page) Image() image.Image {
	bounds := image.Rect(0, 0, p.width, p.height)
	if p.format == FormatR8 {
		img := image.NewGray(bounds)
		copy(img.Pix, p.pix)
		return img
	}

	img := image.NewRGBA(bounds)
	copy(img.Pix, p.pix)
	if p.format == FormatBGRA8 {
		for i := 0; i+3 < len(img.Pix); i += 4 {
			img.Pix[i], img.Pix[i+2] = img.Pix[i+2], img.Pix[i]
		}
	}
	return img
}

// WritePNG encodes the page to w as PNG.
func (p *Page) WritePNG(w io.Writer) error {
	return png.Encode(w, p.Image())
}

// DumpName returns the file name used for page dumps:
// FontTexture_<page>_<format>.png.
func (p *Page) DumpName() string {
	return fmt.Sprintf("FontTexture_%d_%s.png", p.id, p.format)
}

// SavePNG writes the page into dir using DumpName and returns the path.
func (p *Page) SavePNG(dir string) (string, error) {
	path := filepath.Join(dir, p.DumpName())
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return "", err
	}
	defer func() {
		_ = f.Close()
	}()

	if err := p.WritePNG(f); err != nil {
		return "", fmt.Errorf("atlas: encode page %d: %w", p.id, err)
	}
	return path, nil
}
