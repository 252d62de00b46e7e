package paragraph

import (
	"errors"
	"sort"

	"github.com/gogpu/paratext/textseg"
)

// ComposeBidiRuns resolves the bidirectional runs of text and splits them
// at every styled run boundary. The result is in visual order: the style
// chunks of a right-to-left run are emitted last to first. Directional
// formatting characters at the ends of a run are dropped so they never
// get a glyph.
func ComposeBidiRuns(svc UnicodeServices, text []rune, runs []StyledRun, base textseg.Direction) ([]DirectionalRun, error) {
	if len(text) == 0 {
		return nil, nil
	}
	bidiRuns, err := svc.BidiRuns(text, base)
	if err != nil {
		var se *textseg.ServiceError
		if errors.As(err, &se) {
			return nil, err
		}
		return nil, &textseg.ServiceError{Op: "bidi runs", Err: err}
	}

	var out []DirectionalRun
	for _, br := range bidiRuns {
		start, end := br.Start, br.End
		for start < end && textseg.IsBidiControl(text[start]) {
			start++
		}
		for end > start && textseg.IsBidiControl(text[end-1]) {
			end--
		}
		if start == end {
			continue
		}

		var chunks []DirectionalRun
		for chunkStart := start; chunkStart < end; {
			si := styleRunAt(runs, chunkStart)
			chunkEnd := min(end, runs[si].End)
			if chunkEnd <= chunkStart {
				chunkEnd = end
			}
			chunks = append(chunks, DirectionalRun{
				Start:      chunkStart,
				End:        chunkEnd,
				Direction:  br.Direction,
				StyleIndex: si,
			})
			chunkStart = chunkEnd
		}
		if br.Direction == textseg.RTL {
			for i := len(chunks) - 1; i >= 0; i-- {
				out = append(out, chunks[i])
			}
		} else {
			out = append(out, chunks...)
		}
	}
	return out, nil
}

// styleRunAt returns the index of the styled run containing offset. runs
// must be ordered and gap-free.
func styleRunAt(runs []StyledRun, offset int) int {
	i := sort.Search(len(runs), func(i int) bool { return runs[i].Start > offset })
	return max(i-1, 0)
}
