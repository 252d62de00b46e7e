package textseg

import (
	"errors"
	"slices"
	"testing"
)

func TestLineBreaks(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Break
	}{
		{"empty", "", nil},
		{"words", "hello world", []Break{{6, false}, {11, true}}},
		{"newline", "a\nb", []Break{{2, true}, {3, true}}},
		{"crlf", "a\r\nb", []Break{{3, true}, {4, true}}},
	}
	s := NewServices()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.LineBreaks([]rune(tt.text))
			if err != nil {
				t.Fatalf("LineBreaks: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("LineBreaks(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestGraphemeBoundaries(t *testing.T) {
	got := NewServices().GraphemeBoundaries([]rune("e\u0301x"))
	want := []int{0, 2, 3}
	if !slices.Equal(got, want) {
		t.Errorf("GraphemeBoundaries = %v, want %v", got, want)
	}
	if got := NewServices().GraphemeBoundaries(nil); !slices.Equal(got, []int{0}) {
		t.Errorf("GraphemeBoundaries(nil) = %v, want [0]", got)
	}
}

func TestWordBoundaries(t *testing.T) {
	got := NewServices().WordBoundaries([]rune("hi there"))
	want := []int{0, 2, 3, 8}
	if !slices.Equal(got, want) {
		t.Errorf("WordBoundaries = %v, want %v", got, want)
	}
}

func TestBidiRunsLTR(t *testing.T) {
	runs, err := NewServices().BidiRuns([]rune("abc"), LTR)
	if err != nil {
		t.Fatalf("BidiRuns: %v", err)
	}
	want := []BidiRun{{Start: 0, End: 3, Level: 0, Direction: LTR}}
	if !slices.Equal(runs, want) {
		t.Errorf("runs = %v, want %v", runs, want)
	}
}

func TestBidiRunsCoverText(t *testing.T) {
	text := []rune("abc אבג\nxyz")
	for _, base := range []Direction{LTR, RTL} {
		runs, err := NewServices().BidiRuns(text, base)
		if err != nil {
			t.Fatalf("BidiRuns(%v): %v", base, err)
		}
		covered := make([]bool, len(text))
		for _, r := range runs {
			if r.Start >= r.End {
				t.Errorf("base %v: empty run %v", base, r)
			}
			if (r.Level%2 == 1) != (r.Direction == RTL) {
				t.Errorf("base %v: run %v level does not match direction", base, r)
			}
			for i := r.Start; i < r.End; i++ {
				if covered[i] {
					t.Errorf("base %v: rune %d covered twice", base, i)
				}
				covered[i] = true
			}
		}
		for i, c := range covered {
			if !c {
				t.Errorf("base %v: rune %d not covered", base, i)
			}
		}
	}
}

func TestBidiRunsSeparatorOnly(t *testing.T) {
	runs, err := NewServices().BidiRuns([]rune("\n"), RTL)
	if err != nil {
		t.Fatalf("BidiRuns: %v", err)
	}
	want := []BidiRun{{Start: 0, End: 1, Level: 1, Direction: RTL}}
	if !slices.Equal(runs, want) {
		t.Errorf("runs = %v, want %v", runs, want)
	}
}

func TestReorder(t *testing.T) {
	runs := []BidiRun{
		{Start: 0, End: 2, Level: 0},
		{Start: 2, End: 4, Level: 1, Direction: RTL},
		{Start: 4, End: 6, Level: 2},
		{Start: 6, End: 8, Level: 1, Direction: RTL},
		{Start: 8, End: 9, Level: 0},
	}
	reorder(runs)
	var starts []int
	for _, r := range runs {
		starts = append(starts, r.Start)
	}
	want := []int{0, 6, 4, 2, 8}
	if !slices.Equal(starts, want) {
		t.Errorf("visual order = %v, want %v", starts, want)
	}
}

func TestRunLevel(t *testing.T) {
	tests := []struct {
		base int
		dir  Direction
		want int
	}{
		{0, LTR, 0},
		{0, RTL, 1},
		{1, RTL, 1},
		{1, LTR, 2},
	}
	for _, tt := range tests {
		if got := runLevel(tt.base, tt.dir); got != tt.want {
			t.Errorf("runLevel(%d, %v) = %d, want %d", tt.base, tt.dir, got, tt.want)
		}
	}
}

func TestServiceErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := error(&ServiceError{Op: "bidi", Err: inner})
	if !errors.Is(err, inner) {
		t.Error("errors.Is(ServiceError, inner) = false, want true")
	}
	if got, want := err.Error(), "textseg: bidi: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestCharClasses(t *testing.T) {
	tests := []struct {
		name string
		fn   func(rune) bool
		yes  []rune
		no   []rune
	}{
		{"IsWordSpace", IsWordSpace, []rune{' ', 0xA0}, []rune{'a', '\t', 0x2009}},
		{"IsLineEndSpace", IsLineEndSpace, []rune{' ', '\n', 0x2000, 0x200A, 0x3000}, []rune{0x2007, 0xA0, 'x'}},
		{"IsMandatoryBreak", IsMandatoryBreak, []rune{'\n', '\r', 0x0B, 0x0C, 0x85, 0x2028, 0x2029}, []rune{' ', 'a'}},
		{"IsBidiControl", IsBidiControl, []rune{0x061C, 0x200E, 0x202A, 0x202E, 0x2066, 0x2069}, []rune{0x2029, 'a'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, r := range tt.yes {
				if !tt.fn(r) {
					t.Errorf("%s(%U) = false, want true", tt.name, r)
				}
			}
			for _, r := range tt.no {
				if tt.fn(r) {
					t.Errorf("%s(%U) = true, want false", tt.name, r)
				}
			}
		})
	}
}
