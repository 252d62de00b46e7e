package paragraph

import (
	"errors"
	"math"

	"github.com/tdewolff/canvas/text"

	"github.com/gogpu/paratext/textseg"
)

// justifyStretch is how much a justified space may grow, as a fraction of
// its natural width. Justified spaces never shrink, so a broken line is
// never wider than the layout width.
const justifyStretch = 0.5

// knuthTolerance is the largest adjustment ratio the optimal breakers
// accept before falling back to overfull lines.
const knuthTolerance = 2.0

// block is a span of text between mandatory line terminators. next is the
// offset after the terminator.
type block struct {
	start, end, next int
}

// splitBlocks cuts text at mandatory line terminators. A CR LF pair is one
// terminator. The text always yields at least one block.
func splitBlocks(runes []rune) []block {
	var blocks []block
	start := 0
	for i := 0; i < len(runes); i++ {
		if !textseg.IsMandatoryBreak(runes[i]) {
			continue
		}
		next := i + 1
		if runes[i] == '\r' && next < len(runes) && runes[next] == '\n' {
			next++
		}
		blocks = append(blocks, block{start: start, end: i, next: next})
		start = next
		i = next - 1
	}
	return append(blocks, block{start: start, end: len(runes), next: len(runes)})
}

// trimLineEnd moves end back over trailing line-end spaces, not past start.
func trimLineEnd(runes []rune, start, end int) int {
	for end > start && textseg.IsLineEndSpace(runes[end-1]) {
		end--
	}
	return end
}

func sumAdvances(advances []float64, start, end int) float64 {
	var w float64
	for _, a := range advances[start:end] {
		w += a
	}
	return w
}

// LineBreaks is the result of breaking a text into lines.
type LineBreaks struct {
	Lines []LineRange

	// MaxIntrinsicWidth is the width of the widest block laid out on a
	// single line.
	MaxIntrinsicWidth float64
}

// LineBreaker splits text into visual lines.
type LineBreaker struct {
	Services UnicodeServices
	Strategy BreakStrategy

	// Justify lets justified spaces stretch and shrink while breaking.
	Justify bool
}

// Break computes the lines of text for a maximum line width. advances
// holds the advance of every rune; a cluster's advance is stored on its
// first rune. Every block between line terminators is broken on its own
// and its last line is a hard break. An empty block yields one empty line.
func (lb *LineBreaker) Break(runes []rune, advances []float64, width float64) (LineBreaks, error) {
	var out LineBreaks
	for _, b := range splitBlocks(runes) {
		if b.start == b.end {
			out.Lines = append(out.Lines, LineRange{
				Start:                  b.start,
				End:                    b.end,
				EndExcludingWhitespace: b.end,
				EndIncludingNewline:    b.next,
				HardBreak:              true,
			})
			continue
		}

		natural := sumAdvances(advances, b.start, trimLineEnd(runes, b.start, b.end))
		out.MaxIntrinsicWidth = max(out.MaxIntrinsicWidth, natural)

		offsets := []int{b.end}
		if natural > width && !math.IsInf(width, 1) {
			var err error
			offsets, err = lb.breakBlock(runes, advances, b, width)
			if err != nil {
				return LineBreaks{}, err
			}
		}

		lineStart := b.start
		for i, end := range offsets {
			hard := i == len(offsets)-1
			trimmed := trimLineEnd(runes, lineStart, end)
			endIncl := end
			if hard {
				endIncl = b.next
			}
			out.Lines = append(out.Lines, LineRange{
				Start:                  lineStart,
				End:                    end,
				EndExcludingWhitespace: trimmed,
				EndIncludingNewline:    endIncl,
				HardBreak:              hard,
				Width:                  sumAdvances(advances, lineStart, trimmed),
			})
			lineStart = end
		}
	}
	return out, nil
}

// breakBlock returns the end offsets of the lines of one block. The last
// offset is always the block end.
func (lb *LineBreaker) breakBlock(runes []rune, advances []float64, b block, width float64) ([]int, error) {
	segs, err := lb.Services.LineBreaks(runes[b.start:b.end])
	if err != nil {
		var se *textseg.ServiceError
		if !errors.As(err, &se) {
			err = &textseg.ServiceError{Op: "line breaks", Err: err}
		}
		return nil, err
	}

	// Items of the box/glue/penalty model, and the line end offset of a
	// break at each item.
	var items text.Items
	var ends []int
	add := func(item text.Item, end int) {
		items = append(items, item)
		ends = append(ends, end)
	}

	segStart := b.start
	for i, seg := range segs {
		segEnd := min(b.start+seg.Offset, b.end)
		if segEnd <= segStart {
			continue
		}
		trimmed := trimLineEnd(runes, segStart, segEnd)
		boxW := sumAdvances(advances, segStart, trimmed)
		spaceW := sumAdvances(advances, trimmed, segEnd)

		add(text.Box(boxW), segEnd)
		if i < len(segs)-1 && segEnd < b.end {
			if lb.Justify && spaceW > 0 {
				add(text.Glue(spaceW, spaceW*justifyStretch, 0), segEnd)
			} else {
				add(text.Glue(0, text.Infinity, 0), segEnd)
				add(text.Penalty(0, 0, false), segEnd)
				add(text.Glue(spaceW, -text.Infinity, 0), segEnd)
			}
		}
		segStart = segEnd
	}
	add(text.Glue(0, text.Infinity, 0), b.end)
	add(text.Penalty(0, -text.Infinity, false), b.end)

	var breaks []text.Break
	switch lb.Strategy {
	case BreakHighQuality:
		breaks = text.KnuthLinebreak(items, width, knuthTolerance, 0)
	case BreakBalanced:
		breaks = text.KnuthLinebreak(items, width, knuthTolerance, -1)
	default:
		breaks = text.GreedyLinebreak(items, width)
	}

	offsets := make([]int, 0, len(breaks)+1)
	last := b.start
	for _, br := range breaks {
		if br.Position < 0 || br.Position >= len(ends) {
			continue
		}
		if end := ends[br.Position]; end > last {
			offsets = append(offsets, end)
			last = end
		}
	}
	if last != b.end {
		offsets = append(offsets, b.end)
	}
	return offsets, nil
}
