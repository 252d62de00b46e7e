package shape

import (
	"fmt"
	"math"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/paratext/fonts"
)

// HarfBuzz shapes runs with the go-text/typesetting HarfBuzz port.
//
// Glyphs are returned in visual order: for right-to-left runs the first
// glyph is the leftmost one, which belongs to the last cluster.
//
// HarfBuzz is safe for concurrent use. Calls are serialized because
// go-text faces and shapers keep mutable state.
type HarfBuzz struct {
	mu     sync.Mutex
	shaper shaping.HarfbuzzShaper
	faces  map[*fonts.Instance]*font.Face
}

// NewHarfBuzz creates a HarfBuzz shaper.
func NewHarfBuzz() *HarfBuzz {
	return &HarfBuzz{faces: make(map[*fonts.Instance]*font.Face)}
}

func (h *HarfBuzz) face(inst *fonts.Instance) (*font.Face, error) {
	if f, ok := h.faces[inst]; ok {
		return f, nil
	}
	if inst.Font() == nil {
		return nil, ErrNoFace
	}
	f := font.NewFace(inst.Font())
	h.faces[inst] = f
	return f, nil
}

// Shape shapes req.Text[req.Start:req.End].
func (h *HarfBuzz) Shape(req Request) ([]Glyph, error) {
	if req.Start < 0 || req.End > len(req.Text) || req.Start > req.End {
		return nil, fmt.Errorf("shape: invalid range [%d, %d) of %d runes", req.Start, req.End, len(req.Text))
	}
	if req.Start == req.End {
		return nil, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	face, err := h.face(req.Font)
	if err != nil {
		return nil, err
	}

	dir := di.DirectionLTR
	if req.RTL {
		dir = di.DirectionRTL
	}
	lang := language.NewLanguage("en")
	if req.Locale != "" {
		lang = language.NewLanguage(req.Locale)
	}

	out := h.shaper.Shape(shaping.Input{
		Text:      req.Text,
		RunStart:  req.Start,
		RunEnd:    req.End,
		Direction: dir,
		Face:      face,
		Size:      toFixed(req.Size),
		Script:    detectScript(req.Text[req.Start:req.End]),
		Language:  lang,
	})

	glyphs := make([]Glyph, len(out.Glyphs))
	for i, g := range out.Glyphs {
		cluster := min(max(g.TextIndex(), req.Start), req.End-1)
		glyphs[i] = Glyph{
			ID:       uint32(g.GlyphID),
			Cluster:  cluster,
			XAdvance: fromFixed(g.Advance),
			XOffset:  fromFixed(g.XOffset),
			YOffset:  fromFixed(g.YOffset),
		}
	}
	return glyphs, nil
}

// Metrics returns the ascent, descent and line gap of inst at size.
func (h *HarfBuzz) Metrics(inst *fonts.Instance, size float64) (Metrics, error) {
	sf := inst.SFNT()
	if sf == nil {
		return Metrics{}, ErrNoFace
	}
	var buf sfnt.Buffer
	m, err := sf.Metrics(&buf, toFixed(size), xfont.HintingNone)
	if err != nil {
		return Metrics{}, fmt.Errorf("shape: font metrics: %w", err)
	}
	asc, desc := fromFixed(m.Ascent), fromFixed(m.Descent)
	return Metrics{
		Ascent:  asc,
		Descent: desc,
		Leading: math.Max(0, fromFixed(m.Height)-asc-desc),
	}, nil
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
