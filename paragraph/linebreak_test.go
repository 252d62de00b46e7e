package paragraph

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/gogpu/paratext/textseg"
)

func uniform(n int, w float64) []float64 {
	adv := make([]float64, n)
	for i := range adv {
		adv[i] = w
	}
	return adv
}

func TestSplitBlocks(t *testing.T) {
	tests := []struct {
		text string
		want []block
	}{
		{"", []block{{0, 0, 0}}},
		{"ab\nc", []block{{0, 2, 3}, {3, 4, 4}}},
		{"ab\n", []block{{0, 2, 3}, {3, 3, 3}}},
		{"a\r\nb", []block{{0, 1, 3}, {3, 4, 4}}},
		{"a\n\nb", []block{{0, 1, 2}, {2, 2, 3}, {3, 4, 4}}},
	}
	for _, tt := range tests {
		if got := splitBlocks([]rune(tt.text)); !slices.Equal(got, tt.want) {
			t.Errorf("splitBlocks(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestBreakHardLines(t *testing.T) {
	text := []rune("ab\nc")
	lb := LineBreaker{Services: textseg.NewServices()}
	got, err := lb.Break(text, uniform(len(text), 10), math.Inf(1))
	if err != nil {
		t.Fatalf("Break: %v", err)
	}
	want := []LineRange{
		{Start: 0, End: 2, EndExcludingWhitespace: 2, EndIncludingNewline: 3, HardBreak: true, Width: 20},
		{Start: 3, End: 4, EndExcludingWhitespace: 4, EndIncludingNewline: 4, HardBreak: true, Width: 10},
	}
	if !slices.Equal(got.Lines, want) {
		t.Errorf("lines = %+v, want %+v", got.Lines, want)
	}
	if got.MaxIntrinsicWidth != 20 {
		t.Errorf("MaxIntrinsicWidth = %v, want 20", got.MaxIntrinsicWidth)
	}
}

func TestBreakEmptyBlocks(t *testing.T) {
	text := []rune("a\n\nb")
	lb := LineBreaker{Services: textseg.NewServices()}
	got, err := lb.Break(text, uniform(len(text), 10), 100)
	if err != nil {
		t.Fatalf("Break: %v", err)
	}
	if len(got.Lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(got.Lines))
	}
	empty := got.Lines[1]
	if empty.Start != 2 || empty.End != 2 || empty.EndIncludingNewline != 3 || !empty.HardBreak {
		t.Errorf("empty line = %+v", empty)
	}
}

func TestBreakGreedy(t *testing.T) {
	text := []rune("aa bb cc")
	lb := LineBreaker{Services: textseg.NewServices(), Strategy: BreakGreedy}
	for _, width := range []float64{50, 60} {
		got, err := lb.Break(text, uniform(len(text), 10), width)
		if err != nil {
			t.Fatalf("Break: %v", err)
		}
		want := []LineRange{
			{Start: 0, End: 6, EndExcludingWhitespace: 5, EndIncludingNewline: 6, Width: 50},
			{Start: 6, End: 8, EndExcludingWhitespace: 8, EndIncludingNewline: 8, HardBreak: true, Width: 20},
		}
		if !slices.Equal(got.Lines, want) {
			t.Errorf("width %v: lines = %+v, want %+v", width, got.Lines, want)
		}
	}
}

func TestBreakCoversBlock(t *testing.T) {
	text := []rune("the quick brown fox jumps over the lazy dog\nand again")
	for _, strategy := range []BreakStrategy{BreakGreedy, BreakHighQuality, BreakBalanced} {
		for _, justify := range []bool{false, true} {
			lb := LineBreaker{Services: textseg.NewServices(), Strategy: strategy, Justify: justify}
			got, err := lb.Break(text, uniform(len(text), 10), 100)
			if err != nil {
				t.Fatalf("%v: Break: %v", strategy, err)
			}
			next := 0
			for i, l := range got.Lines {
				if l.Start != next {
					t.Errorf("%v justify=%v: line %d starts at %d, want %d", strategy, justify, i, l.Start, next)
				}
				if l.End < l.Start || l.EndExcludingWhitespace > l.End {
					t.Errorf("%v justify=%v: bad line %+v", strategy, justify, l)
				}
				next = l.EndIncludingNewline
			}
			if next != len(text) {
				t.Errorf("%v justify=%v: lines end at %d, want %d", strategy, justify, next, len(text))
			}
			if len(got.Lines) < 5 {
				t.Errorf("%v justify=%v: got %d lines, want wrapping", strategy, justify, len(got.Lines))
			}
		}
	}
}

func TestBreakServiceError(t *testing.T) {
	text := []rune("aa bb cc")
	svc := &failingBreaks{Services: textseg.NewServices()}
	lb := LineBreaker{Services: svc}
	_, err := lb.Break(text, uniform(len(text), 10), 30)
	var se *textseg.ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("Break error = %v, want *textseg.ServiceError", err)
	}
	if se.Op != "line breaks" {
		t.Errorf("Op = %q, want %q", se.Op, "line breaks")
	}
}
