package paragraph

import (
	"math"
	"sort"

	"github.com/gogpu/paratext/textseg"
)

// PositionForCoordinate returns the text offset closest to the point
// (dx, dy) relative to the paragraph's top-left corner.
//
// The line is the first one whose bottom is below dy; points past the last
// line hit the last line. Within the line, a point on the leading half of
// a grapheme returns its start with downstream affinity and a point on the
// trailing half returns its end with upstream affinity. The leading half
// is the left one in left-to-right runs.
func (p *Paragraph) PositionForCoordinate(dx, dy float64) PositionWithAffinity {
	res := p.res()
	if len(res.lineHeights) == 0 {
		return PositionWithAffinity{Offset: 0, Affinity: Downstream}
	}

	y := 0
	for ; y < len(res.lineHeights)-1; y++ {
		if dy < res.lineHeights[y] {
			break
		}
	}

	positions := res.glyphLines[y].Positions
	if len(positions) == 0 {
		start := 0
		for _, gl := range res.glyphLines[:y] {
			start += gl.TotalCodeUnits
		}
		return PositionWithAffinity{Offset: start, Affinity: Downstream}
	}

	var gp *GlyphPosition
	for i := range positions {
		end := positions[i].X.End
		if i < len(positions)-1 {
			end = positions[i+1].X.Start
		}
		if dx < end {
			gp = &positions[i]
			break
		}
	}
	if gp == nil {
		return PositionWithAffinity{Offset: positions[len(positions)-1].CodeUnits.End, Affinity: Upstream}
	}

	rtl := false
	for i := range res.codeUnitRuns {
		run := &res.codeUnitRuns[i]
		if gp.CodeUnits.Start >= run.CodeUnits.Start && gp.CodeUnits.End <= run.CodeUnits.End {
			rtl = run.Direction == textseg.RTL
			break
		}
	}

	center := (gp.X.Start + gp.X.End) / 2
	if (!rtl && dx < center) || (rtl && dx >= center) {
		return PositionWithAffinity{Offset: gp.CodeUnits.Start, Affinity: Downstream}
	}
	return PositionWithAffinity{Offset: gp.CodeUnits.End, Affinity: Upstream}
}

// WordBoundary returns the word containing offset. The word boundaries
// are computed once per paragraph.
func (p *Paragraph) WordBoundary(offset int) Range {
	if len(p.text) == 0 {
		return Range{}
	}
	if p.wordBounds == nil {
		p.wordBounds = p.collab.Unicode.WordBoundaries(p.text)
	}
	b := p.wordBounds

	// The last boundary at or before offset, then the next one.
	i := sort.SearchInts(b, offset+1) - 1
	if i < 0 {
		return Range{Start: offset, End: offset}
	}
	prev := b[i]
	next := offset
	if i+1 < len(b) {
		next = b[i+1]
	}
	return Range{Start: prev, End: next}
}

// RectsForRange returns one box per laid out run covering part of
// [start, end). Boxes span the full height of their line.
func (p *Paragraph) RectsForRange(start, end int) []TextBox {
	res := p.res()
	var boxes []TextBox
	for i := range res.codeUnitRuns {
		run := &res.codeUnitRuns[i]
		if run.CodeUnits.End <= start || run.CodeUnits.Start >= end {
			continue
		}
		left, right := math.Inf(1), math.Inf(-1)
		for _, pos := range run.Positions {
			if pos.CodeUnits.End <= start || pos.CodeUnits.Start >= end {
				continue
			}
			left = min(left, pos.X.Start)
			right = max(right, pos.X.End)
		}
		if math.IsInf(left, 1) {
			continue
		}
		top := 0.0
		if run.Line > 0 {
			top = res.lineHeights[run.Line-1]
		}
		boxes = append(boxes, TextBox{
			Left:      left,
			Top:       top,
			Right:     right,
			Bottom:    res.lineHeights[run.Line],
			Direction: run.Direction,
		})
	}
	return boxes
}

// LineAt returns the number of the line containing offset, or -1 when the
// offset is not on a laid out line.
func (p *Paragraph) LineAt(offset int) int {
	res := p.res()
	for i, m := range res.lineMetrics {
		if offset >= m.Range.Start && offset < m.Range.EndIncludingNewline {
			return i
		}
	}
	if n := len(res.lineMetrics); n > 0 && offset == len(p.text) {
		return n - 1
	}
	return -1
}
