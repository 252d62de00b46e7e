package shape

import (
	"errors"

	"github.com/gogpu/paratext/fonts"
)

// ErrNoFace is returned when a font instance cannot be shaped by a shaper.
var ErrNoFace = errors.New("shape: font has no shaping data")

// Request describes one run to shape. Text is the whole paragraph so the
// shaper can see context; only [Start, End) is shaped.
type Request struct {
	Font   *fonts.Instance
	Text   []rune
	Start  int
	End    int
	RTL    bool
	Size   float64
	Locale string
}

// Glyph is one shaped glyph. Cluster is the index in Request.Text of the
// first rune of the cluster the glyph belongs to.
type Glyph struct {
	ID       uint32
	Cluster  int
	XAdvance float64
	YAdvance float64
	XOffset  float64
	YOffset  float64
}

// Metrics are font-wide vertical metrics in pixels. Descent is positive
// below the baseline.
type Metrics struct {
	Ascent  float64
	Descent float64
	Leading float64
}

// Height returns the natural line height.
func (m Metrics) Height() float64 { return m.Ascent + m.Descent + m.Leading }
