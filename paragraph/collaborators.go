package paragraph

import (
	"log/slog"

	"github.com/gogpu/paratext/fonts"
	"github.com/gogpu/paratext/internal/logging"
	"github.com/gogpu/paratext/shape"
	"github.com/gogpu/paratext/textseg"
)

// FontMatcher resolves font families and per-character fallback.
// *fonts.Collection implements it.
type FontMatcher interface {
	MatchFamily(name string, style fonts.Style) (*fonts.Instance, error)
	MatchCharacter(r rune, locale string, style fonts.Style) (*fonts.Instance, error)
}

// Shaper maps runs of text to positioned glyphs. *shape.HarfBuzz and
// shape.Monospace implement it.
type Shaper interface {
	Shape(req shape.Request) ([]shape.Glyph, error)
	Metrics(inst *fonts.Instance, size float64) (shape.Metrics, error)
}

// UnicodeServices provides the Unicode algorithms used by layout.
// *textseg.Services implements it.
type UnicodeServices interface {
	LineBreaks(text []rune) ([]textseg.Break, error)
	BidiRuns(text []rune, base textseg.Direction) ([]textseg.BidiRun, error)
	GraphemeBoundaries(text []rune) []int
	WordBoundaries(text []rune) []int
	IsWordSpace(r rune) bool
}

// Collaborators are the services a paragraph lays out with.
type Collaborators struct {
	Fonts   FontMatcher
	Shaper  Shaper
	Unicode UnicodeServices

	// Logger receives layout diagnostics. Nil disables logging.
	Logger *slog.Logger
}

func (c *Collaborators) validate() error {
	switch {
	case c.Fonts == nil:
		return &MissingCollaboratorError{Name: "Fonts"}
	case c.Shaper == nil:
		return &MissingCollaboratorError{Name: "Shaper"}
	}
	return nil
}

func (c Collaborators) withDefaults() Collaborators {
	if c.Unicode == nil {
		c.Unicode = textseg.NewServices()
	}
	c.Logger = logging.OrNop(c.Logger)
	return c
}
