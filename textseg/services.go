package textseg

import (
	"fmt"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/bidi"
)

// Direction is a resolved reading direction.
type Direction uint8

const (
	LTR Direction = iota
	RTL
)

func (d Direction) String() string {
	if d == RTL {
		return "rtl"
	}
	return "ltr"
}

// Break is a line break opportunity after Offset runes. Mandatory breaks
// follow hard line terminators.
type Break struct {
	Offset    int
	Mandatory bool
}

// BidiRun is a maximal span of one embedding level.
type BidiRun struct {
	Start, End int
	Level      int
	Direction  Direction
}

// Services implements the Unicode algorithms used by layout on top of
// rivo/uniseg (UAX #14 and #29) and golang.org/x/text/unicode/bidi
// (UAX #9). All offsets are rune indices. The zero value is ready to use.
type Services struct{}

// NewServices returns the default Unicode services.
func NewServices() *Services { return &Services{} }

// IsWordSpace reports whether r separates words.
func (*Services) IsWordSpace(r rune) bool { return IsWordSpace(r) }

// LineBreaks returns every line break opportunity of text in increasing
// order. The end of a non-empty text is always a mandatory break.
func (*Services) LineBreaks(text []rune) ([]Break, error) {
	var out []Break
	rest := string(text)
	state := -1
	offset := 0
	for rest != "" {
		var seg string
		var must bool
		seg, rest, must, state = uniseg.FirstLineSegmentInString(rest, state)
		offset += utf8.RuneCountInString(seg)
		out = append(out, Break{Offset: offset, Mandatory: must || rest == ""})
	}
	return out, nil
}

// GraphemeBoundaries returns the grapheme cluster boundaries of text,
// including 0 and len(text).
func (*Services) GraphemeBoundaries(text []rune) []int {
	out := []int{0}
	rest := string(text)
	state := -1
	offset := 0
	for rest != "" {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		offset += utf8.RuneCountInString(cluster)
		out = append(out, offset)
	}
	return out
}

// WordBoundaries returns the UAX #29 word boundaries of text, including 0
// and len(text).
func (*Services) WordBoundaries(text []rune) []int {
	out := []int{0}
	rest := string(text)
	state := -1
	offset := 0
	for rest != "" {
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		offset += utf8.RuneCountInString(word)
		out = append(out, offset)
	}
	return out
}

// BidiRuns resolves the embedding levels of text with base direction base
// and returns the runs in visual order. Each paragraph (text up to and
// including a paragraph separator) is resolved and reordered on its own.
func (*Services) BidiRuns(text []rune, base Direction) ([]BidiRun, error) {
	var out []BidiRun
	start := 0
	for i, r := range text {
		if isParagraphSeparator(r) {
			runs, err := paragraphRuns(text[start:i+1], start, base)
			if err != nil {
				return nil, err
			}
			out = append(out, runs...)
			start = i + 1
		}
	}
	if start < len(text) {
		runs, err := paragraphRuns(text[start:], start, base)
		if err != nil {
			return nil, err
		}
		out = append(out, runs...)
	}
	return out, nil
}

func baseLevel(base Direction) int {
	if base == RTL {
		return 1
	}
	return 0
}

// paragraphRuns resolves one paragraph. offset is the paragraph start in
// the full text.
func paragraphRuns(para []rune, offset int, base Direction) ([]BidiRun, error) {
	baseLvl := baseLevel(base)
	onlySeparators := true
	for _, r := range para {
		if !isParagraphSeparator(r) {
			onlySeparators = false
			break
		}
	}
	if onlySeparators {
		return []BidiRun{{Start: offset, End: offset + len(para), Level: baseLvl, Direction: base}}, nil
	}

	defaultDir := bidi.LeftToRight
	if base == RTL {
		defaultDir = bidi.RightToLeft
	}
	var p bidi.Paragraph
	if _, err := p.SetString(string(para), bidi.DefaultDirection(defaultDir)); err != nil {
		return nil, &ServiceError{Op: "bidi", Err: err}
	}
	ord, err := p.Order()
	if err != nil {
		return nil, &ServiceError{Op: "bidi", Err: err}
	}

	// Runs come back in logical order; levels are derived from the base
	// level and each run's direction.
	runs := make([]BidiRun, 0, ord.NumRuns())
	next := 0
	for i := range ord.NumRuns() {
		run := ord.Run(i)
		s, e := run.Pos()
		e++ // Pos reports an inclusive end.
		s, e = max(s, next), min(e, len(para))
		if s >= e {
			continue
		}
		if s > next {
			runs = append(runs, levelRun(offset+next, offset+s, baseLvl, base))
		}
		dir := LTR
		if run.Direction() == bidi.RightToLeft {
			dir = RTL
		}
		runs = append(runs, levelRun(offset+s, offset+e, runLevel(baseLvl, dir), dir))
		next = e
	}
	if next < len(para) {
		runs = append(runs, levelRun(offset+next, offset+len(para), baseLvl, base))
	}
	if len(runs) == 0 {
		return nil, &ServiceError{Op: "bidi", Err: fmt.Errorf("no runs for %d runes", len(para))}
	}
	reorder(runs)
	return runs, nil
}

func levelRun(start, end, level int, dir Direction) BidiRun {
	return BidiRun{Start: start, End: end, Level: level, Direction: dir}
}

// runLevel is the lowest level of direction dir at or above the base level.
func runLevel(base int, dir Direction) int {
	if (base%2 == 1) == (dir == RTL) {
		return base
	}
	return base + 1
}

// reorder applies rule L2 of UAX #9: from the highest level down to the
// lowest odd level, reverse every maximal sequence of runs at that level
// or higher.
func reorder(runs []BidiRun) {
	maxLevel, minOdd := 0, -1
	for _, r := range runs {
		maxLevel = max(maxLevel, r.Level)
		if r.Level%2 == 1 && (minOdd < 0 || r.Level < minOdd) {
			minOdd = r.Level
		}
	}
	if minOdd < 0 {
		return
	}
	for lvl := maxLevel; lvl >= minOdd; lvl-- {
		for i := 0; i < len(runs); {
			if runs[i].Level < lvl {
				i++
				continue
			}
			j := i
			for j < len(runs) && runs[j].Level >= lvl {
				j++
			}
			for a, b := i, j-1; a < b; a, b = a+1, b-1 {
				runs[a], runs[b] = runs[b], runs[a]
			}
			i = j
		}
	}
}
