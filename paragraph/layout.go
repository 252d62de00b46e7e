package paragraph

import (
	"math"
	"slices"
	"sort"

	"github.com/gogpu/paratext/fonts"
	"github.com/gogpu/paratext/shape"
	"github.com/gogpu/paratext/textseg"
)

type strutMetrics struct {
	ascent, descent, leading, halfLeading float64
	force                                 bool
}

// ellipsisRun is the shaped ellipsis string of a cut line.
type ellipsisRun struct {
	inst    *fonts.Instance
	style   TextStyle
	glyphs  []shape.Glyph
	advance float64
	metrics shape.Metrics
}

// lineBuilder accumulates the output of one line.
type lineBuilder struct {
	number    int
	positions []GlyphPosition
	runs      []CodeUnitRun
	records   []PaintRecord
	pen       float64
}

func (p *Paragraph) layout(width float64) (*layoutResult, error) {
	if err := p.prepare(); err != nil {
		return nil, err
	}

	lb := LineBreaker{
		Services: p.collab.Unicode,
		Strategy: p.style.BreakStrategy,
		Justify:  p.style.Align == AlignJustify,
	}
	breaks, err := lb.Break(p.text, p.advances, width)
	if err != nil {
		return nil, err
	}

	res := &layoutResult{
		width:             width,
		lines:             breaks.Lines,
		maxIntrinsicWidth: breaks.MaxIntrinsicWidth,
	}
	strut := p.computeStrut()

	lineLimit := len(res.lines)
	if !p.style.unlimitedLines() {
		lineLimit = min(p.style.MaxLines, lineLimit)
		res.didExceedMaxLines = len(res.lines) > p.style.MaxLines
	}

	var yOffset, prevMaxDescent, maxWordWidth float64
	for ln := range lineLimit {
		lr := res.lines[ln]
		lineb := p.layoutLine(res, ln, lineLimit, width)

		for _, w := range p.findWords(lr.Start, lr.EndExcludingWhitespace) {
			maxWordWidth = max(maxWordWidth, sumAdvances(p.advances, w.Start, w.End))
		}
		lineAdvance := lineb.pen
		res.longestLine = max(res.longestLine, lineAdvance)

		lineX := p.lineXOffset(lineAdvance, width)
		if lineX != 0 {
			for i := range lineb.positions {
				lineb.positions[i].shift(lineX)
			}
			for i := range lineb.runs {
				lineb.runs[i].shift(lineX)
			}
		}

		nextStart := len(p.text)
		if ln < len(res.lines)-1 {
			nextStart = res.lines[ln+1].Start
		}
		res.glyphLines = append(res.glyphLines, GlyphLine{
			Positions:      lineb.positions,
			TotalCodeUnits: nextStart - lr.Start,
		})
		res.codeUnitRuns = append(res.codeUnitRuns, lineb.runs...)

		// Vertical metrics, with the strut as the minimum.
		maxAscent := strut.ascent + strut.halfLeading
		maxDescent := strut.descent + strut.halfLeading
		var maxUnscaledAscent float64
		update := func(m shape.Metrics, st *TextStyle) {
			if !strut.force {
				h := st.heightMultiplier()
				maxAscent = max(maxAscent, (m.Ascent+m.Leading/2)*h)
				maxDescent = max(maxDescent, (m.Descent+m.Leading/2)*h)
			}
			maxUnscaledAscent = max(maxUnscaledAscent, m.Ascent)
		}
		for i := range lineb.records {
			update(lineb.records[i].Metrics, &lineb.records[i].Style)
		}
		if len(lineb.records) == 0 {
			st := p.style.TextStyle
			if insts := p.familyInstances(&st); len(insts) > 0 {
				update(p.metrics(insts[0], st.size()), &st)
			}
		}

		if ln == 0 {
			res.alphabeticBaseline = maxAscent
			res.ideographicBaseline = maxAscent + maxDescent
		}
		top := 0.0
		if n := len(res.lineHeights); n > 0 {
			top = res.lineHeights[n-1]
		}
		lineHeight := math.Round(maxAscent + maxDescent)
		res.lineHeights = append(res.lineHeights, top+lineHeight)
		baseline := top + lineHeight - maxDescent
		res.lineBaselines = append(res.lineBaselines, baseline)
		yOffset += math.Round(maxAscent + prevMaxDescent)
		prevMaxDescent = maxDescent

		for i := range lineb.records {
			lineb.records[i].X = lineX
			lineb.records[i].Y = yOffset
		}
		res.records = append(res.records, lineb.records...)

		res.lineMetrics = append(res.lineMetrics, LineMetrics{
			LineNumber:     ln,
			Range:          lr,
			Ascent:         maxAscent,
			Descent:        maxDescent,
			UnscaledAscent: maxUnscaledAscent,
			Height:         lineHeight,
			Width:          lineAdvance,
			Left:           lineX,
			Baseline:       baseline,
		})
	}

	if p.style.MaxLines == 1 || (p.style.unlimitedLines() && p.style.ellipsized()) {
		res.minIntrinsicWidth = res.maxIntrinsicWidth
	} else {
		res.minIntrinsicWidth = min(maxWordWidth, res.maxIntrinsicWidth)
	}

	sort.SliceStable(res.codeUnitRuns, func(i, j int) bool {
		return res.codeUnitRuns[i].CodeUnits.Start < res.codeUnitRuns[j].CodeUnits.Start
	})
	return res, nil
}

// layoutLine positions the runs of line ln before alignment.
func (p *Paragraph) layoutLine(res *layoutResult, ln, lineLimit int, width float64) *lineBuilder {
	lr := res.lines[ln]
	align := p.style.effectiveAlign()
	lineb := &lineBuilder{number: ln}

	// Trailing whitespace must not push the visible glyphs of aligned
	// lines away from the margin.
	lineEnd := lr.End
	if align == AlignRight || align == AlignCenter || align == AlignJustify {
		lineEnd = lr.EndExcludingWhitespace
	}

	ellipsize := p.style.ellipsized() && ln == lineLimit-1 &&
		(res.didExceedMaxLines || lr.Width > width)
	var ell *ellipsisRun
	if ellipsize {
		var visibleEnd int
		ell, visibleEnd = p.fitEllipsis(lr, width)
		lineEnd = min(lineEnd, visibleEnd)
	}

	words := p.findWords(lr.Start, lr.End)
	justify := p.style.Align == AlignJustify && ln != lineLimit-1 && !lr.HardBreak && !ellipsize
	var gap float64
	if justify && len(words) > 1 && !math.IsInf(width, 1) {
		// An overfull line keeps its natural spacing.
		gap = max(0, (width-lr.Width)/float64(len(words)-1))
	}

	var lineRuns, ghosts []DirectionalRun
	for _, r := range p.dirRuns {
		if r.Start < lineEnd && r.End > lr.Start {
			clipped := r
			clipped.Start, clipped.End = max(r.Start, lr.Start), min(r.End, lineEnd)
			lineRuns = append(lineRuns, clipped)
		}
		// Trailing whitespace gets a ghost run: hit testing and selection
		// see it but it never moves or wraps the visible glyphs.
		if !ellipsize && lr.EndExcludingWhitespace < lr.End && r.Start <= lr.End && r.End > lineEnd {
			ghost := r
			ghost.Start, ghost.End = max(r.Start, lineEnd), min(r.End, lr.End)
			ghost.Ghost = true
			if ghost.Start < ghost.End {
				ghosts = append(ghosts, ghost)
			}
		}
	}

	if ell != nil && p.style.Direction == textseg.RTL {
		lineb.addEllipsis(ell)
	}

	var justifyShift float64
	lastWord := -1
	place := func(run DirectionalRun) []GlyphPosition {
		var placed []GlyphPosition
		for _, sr := range p.shapeRange(run.Start, run.End, run.RTL(), run.StyleIndex) {
			var rec *PaintRecord
			if sr.inst != nil {
				rec = &PaintRecord{
					Style:   p.runs[run.StyleIndex].Style,
					Font:    sr.inst,
					Size:    sr.size,
					Metrics: sr.metrics,
					Line:    ln,
					Ghost:   run.Ghost,
				}
			}

			var blob []GlyphPosition
			for _, c := range sr.clusters {
				if gap != 0 {
					if w := wordIndex(words, c.text.Start); w >= 0 && w != lastWord {
						if lastWord >= 0 {
							justifyShift += gap
						}
						lastWord = w
					}
				}
				x := lineb.pen + justifyShift

				if rec != nil {
					gx := x
					for _, g := range c.glyphs {
						rec.Glyphs = append(rec.Glyphs, PositionedGlyph{ID: g.ID, X: gx + g.XOffset, Y: -g.YOffset})
						gx += g.XAdvance
					}
				}

				// A cluster spanning several graphemes, like a ligature,
				// is split evenly between them.
				bounds := p.graphemesIn(c.text)
				n := len(bounds) - 1
				each := c.advance / float64(n)
				for k := range n {
					idx := k
					if run.RTL() {
						idx = n - 1 - k
					}
					blob = append(blob, GlyphPosition{
						CodeUnits: Range{bounds[idx], bounds[idx+1]},
						X:         Span{x + float64(k)*each, x + float64(k+1)*each},
					})
				}
				lineb.pen += c.advance
			}
			if len(blob) == 0 {
				continue
			}

			left, right := blob[0].X.Start, blob[len(blob)-1].X.End
			if rec != nil {
				rec.Left, rec.Right = left, right
				lineb.records = append(lineb.records, *rec)
			}
			placed = append(placed, blob...)

			sorted := slices.Clone(blob)
			slices.SortFunc(sorted, func(a, b GlyphPosition) int { return a.CodeUnits.Start - b.CodeUnits.Start })
			lineb.runs = append(lineb.runs, CodeUnitRun{
				Positions: sorted,
				CodeUnits: Range{run.Start, run.End},
				X:         Span{left, right},
				Line:      ln,
				Metrics:   sr.metrics,
				Direction: run.Direction,
			})
		}
		return placed
	}

	for _, run := range lineRuns {
		lineb.positions = append(lineb.positions, place(run)...)
	}
	lineb.pen += justifyShift
	justifyShift = 0

	if len(ghosts) > 0 {
		// Ghosts sit past the visible glyphs at the end of the line in
		// paragraph direction: on the right for LTR, on the left for RTL.
		pen := lineb.pen
		firstRec, firstRun := len(lineb.records), len(lineb.runs)
		var placed []GlyphPosition
		for _, g := range ghosts {
			placed = append(placed, place(g)...)
		}
		if p.style.Direction == textseg.RTL {
			dx := -lineb.pen
			for i := range placed {
				placed[i].shift(dx)
			}
			for i := firstRec; i < len(lineb.records); i++ {
				lineb.records[i].shift(dx)
			}
			for i := firstRun; i < len(lineb.runs); i++ {
				lineb.runs[i].shift(dx)
			}
			lineb.positions = append(placed, lineb.positions...)
		} else {
			lineb.positions = append(lineb.positions, placed...)
		}
		lineb.pen = pen
	}

	if ell != nil && p.style.Direction != textseg.RTL {
		lineb.addEllipsis(ell)
	}
	return lineb
}

func (lb *lineBuilder) addEllipsis(ell *ellipsisRun) {
	rec := PaintRecord{
		Style:   ell.style,
		Font:    ell.inst,
		Size:    ell.style.size(),
		Metrics: ell.metrics,
		Line:    lb.number,
		Left:    lb.pen,
		Right:   lb.pen + ell.advance,
	}
	gx := lb.pen
	for _, g := range ell.glyphs {
		rec.Glyphs = append(rec.Glyphs, PositionedGlyph{ID: g.ID, X: gx + g.XOffset, Y: -g.YOffset})
		gx += g.XAdvance
	}
	if ell.inst != nil {
		lb.records = append(lb.records, rec)
	}
	lb.pen += ell.advance
}

// lineXOffset returns the alignment shift of a line with the given advance.
func (p *Paragraph) lineXOffset(advance, width float64) float64 {
	if math.IsInf(width, 0) {
		return 0
	}
	switch p.style.effectiveAlign() {
	case AlignRight:
		return width - advance
	case AlignCenter:
		return (width - advance) / 2
	case AlignJustify:
		if p.style.Direction == textseg.RTL {
			return width - advance
		}
	}
	return 0
}

// fitEllipsis shapes the ellipsis with the style of the line's last
// visible character and returns the offset where the visible text must
// end so that text and ellipsis fit in width.
func (p *Paragraph) fitEllipsis(lr LineRange, width float64) (*ellipsisRun, int) {
	si := 0
	if len(p.runs) > 0 {
		si = styleRunAt(p.runs, max(lr.EndExcludingWhitespace-1, lr.Start))
	}
	ell := &ellipsisRun{style: p.style.TextStyle}
	if len(p.runs) > 0 {
		ell.style = p.runs[si].Style
	}

	text := []rune(p.style.Ellipsis)
	primary := p.familyInstances(&ell.style)
	if len(text) > 0 {
		ell.inst = p.resolveRune(text[0], primary, &ell.style)
	}
	if ell.inst != nil {
		size := ell.style.size()
		glyphs, err := p.collab.Shaper.Shape(shape.Request{
			Font:   ell.inst,
			Text:   text,
			End:    len(text),
			RTL:    p.style.Direction == textseg.RTL,
			Size:   size,
			Locale: ell.style.Locale,
		})
		if err == nil {
			ell.glyphs = glyphs
			for _, g := range glyphs {
				ell.advance += g.XAdvance
			}
			ell.metrics = p.metrics(ell.inst, size)
		} else {
			ell.inst = nil
		}
	}

	end := lr.EndExcludingWhitespace
	if math.IsInf(width, 1) {
		return ell, end
	}
	avail := width - ell.advance
	for end > lr.Start && sumAdvances(p.advances, lr.Start, end) > avail {
		end--
		for end > lr.Start && !p.graphemeBreak[end] {
			end--
		}
	}
	return ell, trimLineEnd(p.text, lr.Start, end)
}

func (p *Paragraph) computeStrut() strutMetrics {
	s := p.style.Strut
	if !s.Enabled || s.FontSize < 0 {
		return strutMetrics{}
	}
	out := strutMetrics{force: s.Force}

	st := TextStyle{FontFamilies: s.FontFamilies, FontSize: s.FontSize, Weight: s.Weight, Slant: s.Slant}
	insts := p.familyInstances(&st)
	if len(insts) == 0 {
		return out
	}
	m := p.metrics(insts[0], st.size())
	h := s.Height
	if h <= 0 {
		h = 1
	}
	out.ascent = h * m.Ascent
	out.descent = h * m.Descent
	if s.Leading < 0 {
		out.leading = m.Leading
	} else {
		out.leading = s.Leading * (m.Ascent + m.Descent)
	}
	out.halfLeading = out.leading / 2
	return out
}

// findWords returns the runs of non word-space characters in [start, end).
func (p *Paragraph) findWords(start, end int) []Range {
	var words []Range
	inWord := false
	wordStart := 0
	for i := start; i < end; i++ {
		space := p.collab.Unicode.IsWordSpace(p.text[i])
		switch {
		case !inWord && !space:
			wordStart = i
			inWord = true
		case inWord && space:
			words = append(words, Range{wordStart, i})
			inWord = false
		}
	}
	if inWord {
		words = append(words, Range{wordStart, end})
	}
	return words
}

// wordIndex returns the index of the word containing offset, or -1.
func wordIndex(words []Range, offset int) int {
	i := sort.Search(len(words), func(i int) bool { return words[i].End > offset })
	if i < len(words) && words[i].Start <= offset {
		return i
	}
	return -1
}
