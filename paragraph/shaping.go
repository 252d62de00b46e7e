package paragraph

import (
	"log/slog"
	"slices"
	"unicode"

	"github.com/gogpu/paratext/fonts"
	"github.com/gogpu/paratext/shape"
	"github.com/gogpu/paratext/textseg"
)

// fontRun is a span of text resolved to one font instance. inst is nil
// when no font covers the span.
type fontRun struct {
	start, end int
	inst       *fonts.Instance
}

// shapedCluster is one shaper cluster: the glyphs drawn for a span of
// text and their total advance, spacing included.
type shapedCluster struct {
	text    Range
	glyphs  []shape.Glyph
	advance float64
}

// shapedRun is a fontRun after shaping. Clusters are in visual order.
type shapedRun struct {
	inst     *fonts.Instance
	text     Range
	size     float64
	clusters []shapedCluster
	metrics  shape.Metrics
}

type metricsKey struct {
	inst *fonts.Instance
	size float64
}

// isFontNeutral reports whether r can be drawn with the font of the
// surrounding text even when that font has no glyph for it.
func isFontNeutral(r rune) bool {
	switch {
	case r == 0x200C, r == 0x200D:
		return true
	case r >= 0xFE00 && r <= 0xFE0F:
		return true
	case textseg.IsMandatoryBreak(r), textseg.IsBidiControl(r):
		return true
	}
	return unicode.IsControl(r) || unicode.Is(unicode.Mn, r)
}

// familyInstances resolves the families of a style, in order and without
// duplicates.
func (p *Paragraph) familyInstances(st *TextStyle) []*fonts.Instance {
	fs := st.FontStyle()
	families := st.FontFamilies
	if len(families) == 0 {
		families = []string{""}
	}
	var out []*fonts.Instance
	for _, fam := range families {
		inst, err := p.collab.Fonts.MatchFamily(fam, fs)
		if err != nil || inst == nil || slices.Contains(out, inst) {
			continue
		}
		out = append(out, inst)
	}
	return out
}

func (p *Paragraph) runFamilies(si int) []*fonts.Instance {
	if insts, ok := p.families[si]; ok {
		return insts
	}
	insts := p.familyInstances(&p.runs[si].Style)
	p.families[si] = insts
	return insts
}

// resolveRune picks the font for r: the first family covering it, then
// per-character fallback.
func (p *Paragraph) resolveRune(r rune, primary []*fonts.Instance, st *TextStyle) *fonts.Instance {
	for _, inst := range primary {
		if inst.HasGlyph(r) {
			return inst
		}
	}
	if isFontNeutral(r) && len(primary) > 0 {
		return primary[0]
	}
	inst, err := p.collab.Fonts.MatchCharacter(r, st.Locale, st.FontStyle())
	if err != nil {
		p.logger.Debug("no font for rune",
			slog.String("rune", string(r)),
			slog.String("error", err.Error()))
		return nil
	}
	return inst
}

// itemize splits [start, end) into runs of one font. A font stays in use
// while it covers the text so that fallback never splits a cluster.
func (p *Paragraph) itemize(start, end, si int) []fontRun {
	st := &p.runs[si].Style
	primary := p.runFamilies(si)

	var out []fontRun
	var cur *fonts.Instance
	for i := start; i < end; i++ {
		r := p.text[i]
		inst := cur
		if cur == nil || !(cur.HasGlyph(r) || isFontNeutral(r)) {
			inst = p.resolveRune(r, primary, st)
		}
		if n := len(out); n > 0 && out[n-1].inst == inst {
			out[n-1].end = i + 1
		} else {
			out = append(out, fontRun{start: i, end: i + 1, inst: inst})
		}
		cur = inst
	}
	return out
}

// metrics returns the vertical metrics of inst at size, memoized.
func (p *Paragraph) metrics(inst *fonts.Instance, size float64) shape.Metrics {
	key := metricsKey{inst: inst, size: size}
	if m, ok := p.metricsCache[key]; ok {
		return m
	}
	m, err := p.collab.Shaper.Metrics(inst, size)
	if err != nil {
		p.logger.Warn("font metrics unavailable",
			slog.String("font", inst.String()),
			slog.String("error", err.Error()))
		m = shape.Metrics{}
	}
	p.metricsCache[key] = m
	return m
}

// graphemesIn returns the grapheme boundaries within r, r.Start and r.End
// included.
func (p *Paragraph) graphemesIn(r Range) []int {
	out := []int{r.Start}
	for i := r.Start + 1; i < r.End; i++ {
		if p.graphemeBreak[i] {
			out = append(out, i)
		}
	}
	return append(out, r.End)
}

// spacing is the letter and word spacing added to a cluster.
func (p *Paragraph) spacing(r Range, st *TextStyle) float64 {
	if st.LetterSpacing == 0 && st.WordSpacing == 0 {
		return 0
	}
	extra := st.LetterSpacing * float64(len(p.graphemesIn(r))-1)
	if st.WordSpacing != 0 {
		for _, c := range p.text[r.Start:r.End] {
			if p.collab.Unicode.IsWordSpace(c) {
				extra += st.WordSpacing
			}
		}
	}
	return extra
}

// shapeRange shapes [start, end) of styled run si and returns its font
// runs in visual order.
func (p *Paragraph) shapeRange(start, end int, rtl bool, si int) []shapedRun {
	st := &p.runs[si].Style
	items := p.itemize(start, end, si)
	out := make([]shapedRun, 0, len(items))
	for _, fr := range items {
		out = append(out, p.shapeFontRun(fr, rtl, st))
	}
	if rtl {
		slices.Reverse(out)
	}
	return out
}

func (p *Paragraph) shapeFontRun(fr fontRun, rtl bool, st *TextStyle) shapedRun {
	size := st.size()
	sr := shapedRun{inst: fr.inst, text: Range{fr.start, fr.end}, size: size}
	if fr.inst == nil {
		sr.clusters = p.emptyClusters(fr, rtl)
		return sr
	}

	glyphs, err := p.collab.Shaper.Shape(shape.Request{
		Font:   fr.inst,
		Text:   p.text,
		Start:  fr.start,
		End:    fr.end,
		RTL:    rtl,
		Size:   size,
		Locale: st.Locale,
	})
	if err != nil {
		p.logger.Warn("shaping failed",
			slog.String("font", fr.inst.String()),
			slog.Int("start", fr.start),
			slog.Int("end", fr.end),
			slog.String("error", err.Error()))
		sr.inst = nil
		sr.clusters = p.emptyClusters(fr, rtl)
		return sr
	}
	sr.metrics = p.metrics(fr.inst, size)

	// Glyphs of one cluster are adjacent. The cluster ends where the next
	// cluster in logical order starts.
	var groups [][2]int
	for i := 0; i < len(glyphs); {
		j := i + 1
		for j < len(glyphs) && glyphs[j].Cluster == glyphs[i].Cluster {
			j++
		}
		groups = append(groups, [2]int{i, j})
		i = j
	}
	for k, g := range groups {
		start := glyphs[g[0]].Cluster
		end := fr.end
		if rtl && k > 0 {
			end = glyphs[groups[k-1][0]].Cluster
		} else if !rtl && k+1 < len(groups) {
			end = glyphs[groups[k+1][0]].Cluster
		}
		if end <= start {
			end = min(start+1, fr.end)
		}
		c := shapedCluster{text: Range{start, end}, glyphs: glyphs[g[0]:g[1]]}
		for _, gl := range c.glyphs {
			c.advance += gl.XAdvance
		}
		c.advance += p.spacing(c.text, st)
		sr.clusters = append(sr.clusters, c)
	}
	return sr
}

// emptyClusters gives every grapheme of an unresolved run a zero-advance
// cluster so it stays addressable.
func (p *Paragraph) emptyClusters(fr fontRun, rtl bool) []shapedCluster {
	bounds := p.graphemesIn(Range{fr.start, fr.end})
	out := make([]shapedCluster, 0, len(bounds)-1)
	for i := 0; i+1 < len(bounds); i++ {
		out = append(out, shapedCluster{text: Range{bounds[i], bounds[i+1]}})
	}
	if rtl {
		slices.Reverse(out)
	}
	return out
}

// measure stores the advance of every cluster on its first rune. The
// result does not depend on the layout width.
func (p *Paragraph) measure() []float64 {
	adv := make([]float64, len(p.text))
	for _, dr := range p.dirRuns {
		for _, sr := range p.shapeRange(dr.Start, dr.End, dr.RTL(), dr.StyleIndex) {
			for _, c := range sr.clusters {
				adv[c.text.Start] += c.advance
			}
		}
	}
	return adv
}
