package paratext

import (
	"image"
	"image/color"
	"testing"
)

func TestRenderer_Composite(t *testing.T) {
	r := newTestRenderer(t)
	p := newTestParagraph(t, r, "a")
	batches := drawLaidOut(t, r, p, 5, 3)

	dst := image.NewRGBA(image.Rect(0, 0, 40, 20))
	r.Composite(dst, batches)

	// The 6x8 box spans x 6..12 and y 4..12.
	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{6, 4, color.RGBA{A: 0xff}},
		{11, 11, color.RGBA{A: 0xff}},
		{5, 4, color.RGBA{}},
		{12, 8, color.RGBA{}},
		{8, 12, color.RGBA{}},
	}
	for _, tt := range tests {
		if got := dst.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}
