package paragraph

import (
	"errors"
	"testing"

	"github.com/gogpu/paratext/fonts"
	"github.com/gogpu/paratext/shape"
	"github.com/gogpu/paratext/textseg"
)

// Every rune is 10px wide at size 10, with ascent 8 and descent 2.
func monoCollaborators(t *testing.T) Collaborators {
	t.Helper()
	col := fonts.NewCollection(nil)
	col.Add(fonts.NewSynthetic(0, "Mono", fonts.NormalStyle()))
	return Collaborators{
		Fonts:   col,
		Shaper:  shape.Monospace{Advance: 1, Ascent: 0.8, Descent: 0.2},
		Unicode: textseg.NewServices(),
	}
}

func monoStyle() TextStyle {
	st := DefaultTextStyle()
	st.FontFamilies = []string{"Mono"}
	st.FontSize = 10
	return st
}

func monoParagraphStyle() ParagraphStyle {
	ps := DefaultParagraphStyle()
	ps.TextStyle = monoStyle()
	return ps
}

// newMono builds a single-run paragraph.
func newMono(t *testing.T, text string, ps ParagraphStyle) *Paragraph {
	t.Helper()
	return newMonoWith(t, text, ps, monoCollaborators(t))
}

func newMonoWith(t *testing.T, text string, ps ParagraphStyle, c Collaborators) *Paragraph {
	t.Helper()
	b := NewBuilder(ps, c)
	b.AddText(text)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return p
}

type countingShaper struct {
	shape.Monospace
	calls int
}

func (c *countingShaper) Shape(req shape.Request) ([]shape.Glyph, error) {
	c.calls++
	return c.Monospace.Shape(req)
}

// fakeBidi returns fixed bidi runs, or fails when err is set.
type fakeBidi struct {
	*textseg.Services
	runs []textseg.BidiRun
	err  error
}

func (f *fakeBidi) BidiRuns(text []rune, base textseg.Direction) ([]textseg.BidiRun, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.runs != nil {
		return f.runs, nil
	}
	return f.Services.BidiRuns(text, base)
}

// noFonts resolves nothing.
type noFonts struct{}

var errNoFont = errors.New("no font")

func (noFonts) MatchFamily(string, fonts.Style) (*fonts.Instance, error) { return nil, errNoFont }

func (noFonts) MatchCharacter(rune, string, fonts.Style) (*fonts.Instance, error) {
	return nil, errNoFont
}

// failingBreaks fails line break computation with a plain error.
type failingBreaks struct {
	*textseg.Services
}

func (failingBreaks) LineBreaks([]rune) ([]textseg.Break, error) {
	return nil, errors.New("segmenter unavailable")
}
