package paragraph

import (
	"github.com/gogpu/paratext/fonts"
	"github.com/gogpu/paratext/shape"
	"github.com/gogpu/paratext/textseg"
)

// Range is a half-open range of rune offsets.
type Range struct {
	Start, End int
}

// Len returns the number of offsets in the range.
func (r Range) Len() int { return r.End - r.Start }

// Span is a half-open horizontal extent in pixels.
type Span struct {
	Start, End float64
}

// Width returns the extent width.
func (s Span) Width() float64 { return s.End - s.Start }

func (s *Span) shift(dx float64) {
	s.Start += dx
	s.End += dx
}

// StyledRun assigns a style to [Start, End) of the text.
type StyledRun struct {
	Start, End int
	Style      TextStyle
}

// LineRange is one visual line of the text.
type LineRange struct {
	Start int
	End   int

	// EndExcludingWhitespace drops trailing line-end spaces.
	EndExcludingWhitespace int

	// EndIncludingNewline covers the line terminator of a hard break.
	EndIncludingNewline int

	// HardBreak is set on the last line of a block, which ends at a line
	// terminator or at the end of the text.
	HardBreak bool

	// Width is the natural advance of [Start, EndExcludingWhitespace).
	Width float64
}

// DirectionalRun is a span of uniform direction and style.
type DirectionalRun struct {
	Start, End int
	Direction  textseg.Direction

	// StyleIndex indexes the paragraph's styled runs.
	StyleIndex int

	// Ghost runs hold trailing whitespace. They are measured for hit
	// testing but never move visible glyphs.
	Ghost bool
}

// RTL reports whether the run reads right to left.
func (r *DirectionalRun) RTL() bool { return r.Direction == textseg.RTL }

// GlyphPosition maps one grapheme to its horizontal extent on the line.
type GlyphPosition struct {
	CodeUnits Range
	X         Span
}

func (p *GlyphPosition) shift(dx float64) { p.X.shift(dx) }

// GlyphLine holds the grapheme positions of one line in visual order.
type GlyphLine struct {
	Positions []GlyphPosition

	// TotalCodeUnits counts the line's runes up to the next line start.
	TotalCodeUnits int
}

// CodeUnitRun is a laid out run with its positions sorted by offset.
type CodeUnitRun struct {
	Positions []GlyphPosition
	CodeUnits Range
	X         Span
	Line      int
	Metrics   shape.Metrics
	Direction textseg.Direction
}

func (r *CodeUnitRun) shift(dx float64) {
	r.X.shift(dx)
	for i := range r.Positions {
		r.Positions[i].shift(dx)
	}
}

// PositionedGlyph is a glyph placed relative to its record origin.
type PositionedGlyph struct {
	ID   uint32
	X, Y float64
}

// PaintRecord is a sequence of glyphs drawn with one font instance.
type PaintRecord struct {
	Style TextStyle
	Font  *fonts.Instance
	Size  float64

	// X and Y are the record origin: the line's alignment offset and the
	// line's baseline.
	X, Y float64

	Glyphs  []PositionedGlyph
	Metrics shape.Metrics
	Line    int

	// Left and Right bound the record's glyphs relative to X.
	Left, Right float64

	Ghost bool
}

func (r *PaintRecord) shift(dx float64) {
	r.Left += dx
	r.Right += dx
	for i := range r.Glyphs {
		r.Glyphs[i].X += dx
	}
}

// Affinity tells which side of a line wrap an offset belongs to.
type Affinity uint8

const (
	// Downstream associates the offset with the following character.
	Downstream Affinity = iota
	// Upstream associates the offset with the preceding character.
	Upstream
)

func (a Affinity) String() string {
	if a == Upstream {
		return "upstream"
	}
	return "downstream"
}

// PositionWithAffinity is a hit test result.
type PositionWithAffinity struct {
	Offset   int
	Affinity Affinity
}

// TextBox is a selection rectangle.
type TextBox struct {
	Left, Top, Right, Bottom float64
	Direction                textseg.Direction
}

// LineMetrics describes one laid out line.
type LineMetrics struct {
	LineNumber int
	Range      LineRange

	// Ascent and Descent include the style height multiplier and strut.
	Ascent  float64
	Descent float64

	// UnscaledAscent is the tallest font ascent without multipliers.
	UnscaledAscent float64

	// Height is the rounded line height.
	Height float64

	// Width is the advance of the visible runs.
	Width float64

	// Left is the x of the line start after alignment.
	Left float64

	// Baseline is the y of the baseline from the paragraph top.
	Baseline float64
}
