package paragraph

import (
	"slices"
	"testing"

	"github.com/gogpu/paratext/textseg"
)

func threeRuns() []StyledRun {
	st := monoStyle()
	return []StyledRun{
		{Start: 0, End: 2, Style: st},
		{Start: 2, End: 4, Style: st},
		{Start: 4, End: 6, Style: st},
	}
}

func TestComposeBidiRunsLTR(t *testing.T) {
	runs, err := ComposeBidiRuns(textseg.NewServices(), []rune("abcdef"), threeRuns(), textseg.LTR)
	if err != nil {
		t.Fatalf("ComposeBidiRuns: %v", err)
	}
	want := []DirectionalRun{
		{Start: 0, End: 2, Direction: textseg.LTR, StyleIndex: 0},
		{Start: 2, End: 4, Direction: textseg.LTR, StyleIndex: 1},
		{Start: 4, End: 6, Direction: textseg.LTR, StyleIndex: 2},
	}
	if !slices.Equal(runs, want) {
		t.Errorf("runs = %+v, want %+v", runs, want)
	}
}

func TestComposeBidiRunsRTLReversesChunks(t *testing.T) {
	svc := &fakeBidi{
		Services: textseg.NewServices(),
		runs: []textseg.BidiRun{
			{Start: 0, End: 1, Level: 0, Direction: textseg.LTR},
			{Start: 1, End: 6, Level: 1, Direction: textseg.RTL},
		},
	}
	runs, err := ComposeBidiRuns(svc, []rune("abcdef"), threeRuns(), textseg.LTR)
	if err != nil {
		t.Fatalf("ComposeBidiRuns: %v", err)
	}
	want := []DirectionalRun{
		{Start: 0, End: 1, Direction: textseg.LTR, StyleIndex: 0},
		{Start: 4, End: 6, Direction: textseg.RTL, StyleIndex: 2},
		{Start: 2, End: 4, Direction: textseg.RTL, StyleIndex: 1},
		{Start: 1, End: 2, Direction: textseg.RTL, StyleIndex: 0},
	}
	if !slices.Equal(runs, want) {
		t.Errorf("runs = %+v, want %+v", runs, want)
	}
}

func TestComposeBidiRunsStripsControls(t *testing.T) {
	text := []rune("\u202babc\u202c")
	svc := &fakeBidi{
		Services: textseg.NewServices(),
		runs:     []textseg.BidiRun{{Start: 0, End: 5, Level: 1, Direction: textseg.RTL}},
	}
	runs, err := ComposeBidiRuns(svc, text, []StyledRun{{Start: 0, End: 5, Style: monoStyle()}}, textseg.LTR)
	if err != nil {
		t.Fatalf("ComposeBidiRuns: %v", err)
	}
	want := []DirectionalRun{{Start: 1, End: 4, Direction: textseg.RTL}}
	if !slices.Equal(runs, want) {
		t.Errorf("runs = %+v, want %+v", runs, want)
	}
}

func TestComposeBidiRunsControlOnly(t *testing.T) {
	text := []rune("\u200e")
	svc := &fakeBidi{
		Services: textseg.NewServices(),
		runs:     []textseg.BidiRun{{Start: 0, End: 1}},
	}
	runs, err := ComposeBidiRuns(svc, text, []StyledRun{{Start: 0, End: 1, Style: monoStyle()}}, textseg.LTR)
	if err != nil {
		t.Fatalf("ComposeBidiRuns: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("runs = %+v, want none", runs)
	}
}

func TestStyleRunAt(t *testing.T) {
	runs := threeRuns()
	for offset, want := range []int{0, 0, 1, 1, 2, 2} {
		if got := styleRunAt(runs, offset); got != want {
			t.Errorf("styleRunAt(%d) = %d, want %d", offset, got, want)
		}
	}
}
