package paragraph

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/gogpu/paratext/fonts"
	"github.com/gogpu/paratext/shape"
)

// layoutResult is everything one layout pass publishes. A failed pass never
// replaces the previous result.
type layoutResult struct {
	width float64

	lines        []LineRange
	lineMetrics  []LineMetrics
	glyphLines   []GlyphLine
	codeUnitRuns []CodeUnitRun
	records      []PaintRecord

	// lineHeights are cumulative line bottoms.
	lineHeights   []float64
	lineBaselines []float64

	maxIntrinsicWidth   float64
	minIntrinsicWidth   float64
	alphabeticBaseline  float64
	ideographicBaseline float64
	longestLine         float64
	didExceedMaxLines   bool
}

// Paragraph lays out styled text into lines of positioned glyphs.
//
// The text and its styled runs are fixed at construction. Layout may be
// called any number of times with different widths; queries answer from
// the last successful layout.
//
// Paragraph is not safe for concurrent use.
type Paragraph struct {
	text   []rune
	runs   []StyledRun
	style  ParagraphStyle
	collab Collaborators
	logger *slog.Logger

	// Width-independent state, built by the first layout.
	prepared      bool
	dirRuns       []DirectionalRun
	graphemeBreak []bool
	advances      []float64
	families      map[int][]*fonts.Instance
	metricsCache  map[metricsKey]shape.Metrics
	wordBounds    []int

	needsLayout bool
	result      *layoutResult
}

// New creates a paragraph. runs must cover text as an ordered sequence of
// adjacent ranges. Unicode services default to textseg.
func New(text []rune, runs []StyledRun, style ParagraphStyle, collab Collaborators) (*Paragraph, error) {
	if err := collab.validate(); err != nil {
		return nil, err
	}
	if err := validateRuns(len(text), runs); err != nil {
		return nil, err
	}
	collab = collab.withDefaults()
	return &Paragraph{
		text:         slices.Clone(text),
		runs:         slices.Clone(runs),
		style:        style,
		collab:       collab,
		logger:       collab.Logger,
		families:     make(map[int][]*fonts.Instance),
		metricsCache: make(map[metricsKey]shape.Metrics),
		needsLayout:  true,
	}, nil
}

func validateRuns(n int, runs []StyledRun) error {
	if len(runs) == 0 {
		if n == 0 {
			return nil
		}
		return fmt.Errorf("%w: no runs for %d runes", ErrInvalidRuns, n)
	}
	next := 0
	for i, r := range runs {
		if r.Start != next || r.End < r.Start {
			return fmt.Errorf("%w: run %d is [%d, %d), want start %d", ErrInvalidRuns, i, r.Start, r.End, next)
		}
		next = r.End
	}
	if next != n {
		return fmt.Errorf("%w: runs end at %d, text has %d runes", ErrInvalidRuns, next, n)
	}
	return nil
}

// Text returns the paragraph text. The slice must not be modified.
func (p *Paragraph) Text() []rune { return p.text }

// Runs returns the styled runs.
func (p *Paragraph) Runs() []StyledRun { return p.runs }

// Style returns the paragraph style.
func (p *Paragraph) Style() ParagraphStyle { return p.style }

// SetStyle replaces the paragraph style. The next Layout call recomputes
// everything.
func (p *Paragraph) SetStyle(style ParagraphStyle) {
	p.style = style
	p.prepared = false
	p.needsLayout = true
}

// MarkDirty forces the next Layout call to run even with an unchanged
// width, for example after fonts were added to the matcher.
func (p *Paragraph) MarkDirty() {
	p.prepared = false
	clear(p.families)
	clear(p.metricsCache)
	p.needsLayout = true
}

// Layout breaks the paragraph into lines no wider than width and
// positions every glyph. The width is floored; math.Inf(1) disables
// wrapping. Calling Layout again with the same width is a no-op.
//
// A Unicode service failure aborts the pass and leaves the previous
// layout in place.
func (p *Paragraph) Layout(width float64) error {
	width = math.Floor(width)
	if !p.needsLayout && p.result != nil && p.result.width == width {
		return nil
	}
	res, err := p.layout(width)
	if err != nil {
		p.logger.Error("layout aborted",
			slog.Float64("width", width),
			slog.String("error", err.Error()))
		return err
	}
	p.result = res
	p.needsLayout = false
	p.logger.Debug("paragraph laid out",
		slog.Float64("width", width),
		slog.Int("lines", len(res.lineMetrics)),
		slog.Float64("height", res.height()))
	return nil
}

// prepare builds the width-independent state.
func (p *Paragraph) prepare() error {
	if p.prepared {
		return nil
	}
	dirRuns, err := ComposeBidiRuns(p.collab.Unicode, p.text, p.runs, p.style.Direction)
	if err != nil {
		return err
	}
	p.dirRuns = dirRuns

	p.graphemeBreak = make([]bool, len(p.text)+1)
	for _, b := range p.collab.Unicode.GraphemeBoundaries(p.text) {
		if b >= 0 && b <= len(p.text) {
			p.graphemeBreak[b] = true
		}
	}
	p.advances = p.measure()
	p.prepared = true
	return nil
}

func (r *layoutResult) height() float64 {
	if len(r.lineHeights) == 0 {
		return 0
	}
	return r.lineHeights[len(r.lineHeights)-1]
}

func (p *Paragraph) res() *layoutResult {
	if p.result == nil {
		return &layoutResult{}
	}
	return p.result
}

// MaxWidth returns the width of the last layout.
func (p *Paragraph) MaxWidth() float64 { return p.res().width }

// Height returns the total height of the laid out lines.
func (p *Paragraph) Height() float64 { return p.res().height() }

// MaxIntrinsicWidth returns the width of the widest block laid out on one
// line.
func (p *Paragraph) MaxIntrinsicWidth() float64 { return p.res().maxIntrinsicWidth }

// MinIntrinsicWidth returns the width of the widest word, capped at
// MaxIntrinsicWidth.
func (p *Paragraph) MinIntrinsicWidth() float64 { return p.res().minIntrinsicWidth }

// AlphabeticBaseline returns the distance from the top to the first
// baseline.
func (p *Paragraph) AlphabeticBaseline() float64 { return p.res().alphabeticBaseline }

// IdeographicBaseline returns the bottom of the first line's em box.
func (p *Paragraph) IdeographicBaseline() float64 { return p.res().ideographicBaseline }

// LongestLine returns the advance of the widest laid out line.
func (p *Paragraph) LongestLine() float64 { return p.res().longestLine }

// LineCount returns the number of laid out lines.
func (p *Paragraph) LineCount() int { return len(p.res().lineMetrics) }

// DidExceedMaxLines reports whether lines were cut by MaxLines.
func (p *Paragraph) DidExceedMaxLines() bool { return p.res().didExceedMaxLines }

// Lines returns every line range, including lines beyond MaxLines.
func (p *Paragraph) Lines() []LineRange { return p.res().lines }

// LineMetrics returns the metrics of the laid out lines.
func (p *Paragraph) LineMetrics() []LineMetrics { return p.res().lineMetrics }

// PaintRecords returns the glyph runs to draw, line by line.
func (p *Paragraph) PaintRecords() []PaintRecord { return p.res().records }

// GlyphLines returns the grapheme positions of every line.
func (p *Paragraph) GlyphLines() []GlyphLine { return p.res().glyphLines }

// CodeUnitRuns returns the laid out runs sorted by text offset.
func (p *Paragraph) CodeUnitRuns() []CodeUnitRun { return p.res().codeUnitRuns }

// DirectionalRuns returns the bidi and style runs in visual order. It is
// empty before the first layout.
func (p *Paragraph) DirectionalRuns() []DirectionalRun { return p.dirRuns }
