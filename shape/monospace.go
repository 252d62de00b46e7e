package shape

import "github.com/gogpu/paratext/fonts"

// Monospace is a measurement-only shaper: every rune becomes one glyph
// whose id is the rune and whose advance is Advance times the font size.
// It needs no font data, so it works with synthetic instances.
type Monospace struct {
	// Advance is the glyph advance in ems. Zero means 0.5.
	Advance float64
	// Ascent and Descent are in ems. Zero means 0.8 and 0.2.
	Ascent  float64
	Descent float64
}

func (m Monospace) advance() float64 {
	if m.Advance == 0 {
		return 0.5
	}
	return m.Advance
}

// Shape implements the shaper contract. Glyphs of right-to-left runs come
// in visual order.
func (m Monospace) Shape(req Request) ([]Glyph, error) {
	n := req.End - req.Start
	if n <= 0 {
		return nil, nil
	}
	adv := m.advance() * req.Size
	glyphs := make([]Glyph, n)
	for i := range n {
		idx := req.Start + i
		if req.RTL {
			idx = req.End - 1 - i
		}
		glyphs[i] = Glyph{ID: uint32(req.Text[idx]), Cluster: idx, XAdvance: adv} //nolint:gosec // runes are non-negative
	}
	return glyphs, nil
}

// Metrics returns the configured metrics scaled to size.
func (m Monospace) Metrics(_ *fonts.Instance, size float64) (Metrics, error) {
	asc, desc := m.Ascent, m.Descent
	if asc == 0 && desc == 0 {
		asc, desc = 0.8, 0.2
	}
	return Metrics{Ascent: asc * size, Descent: desc * size}, nil
}
