package paragraph

import (
	"image/color"
	"slices"

	"github.com/gogpu/paratext/fonts"
	"github.com/gogpu/paratext/textseg"
)

// Align specifies the horizontal alignment of lines within the layout width.
type Align int

const (
	// AlignStart aligns lines to the left in LTR paragraphs and to the
	// right in RTL paragraphs (default).
	AlignStart Align = iota
	// AlignEnd is the opposite of AlignStart.
	AlignEnd
	// AlignLeft aligns lines to the left edge.
	AlignLeft
	// AlignRight aligns lines to the right edge.
	AlignRight
	// AlignCenter centers lines.
	AlignCenter
	// AlignJustify stretches word gaps so soft-wrapped lines fill the width.
	AlignJustify
)

// String returns the string representation of the alignment.
func (a Align) String() string {
	switch a {
	case AlignStart:
		return "Start"
	case AlignEnd:
		return "End"
	case AlignLeft:
		return "Left"
	case AlignRight:
		return "Right"
	case AlignCenter:
		return "Center"
	case AlignJustify:
		return "Justify"
	default:
		return "Unknown"
	}
}

// BreakStrategy selects the line breaking algorithm.
type BreakStrategy int

const (
	// BreakGreedy fills each line as much as possible (default).
	BreakGreedy BreakStrategy = iota
	// BreakHighQuality minimizes raggedness over the whole block using the
	// Knuth-Plass algorithm.
	BreakHighQuality
	// BreakBalanced runs Knuth-Plass preferring fewer lines.
	BreakBalanced
)

// String returns the string representation of the strategy.
func (s BreakStrategy) String() string {
	switch s {
	case BreakGreedy:
		return "Greedy"
	case BreakHighQuality:
		return "HighQuality"
	case BreakBalanced:
		return "Balanced"
	default:
		return "Unknown"
	}
}

const defaultFontSize = 14

// TextStyle is the style of one styled run.
type TextStyle struct {
	// FontFamilies are tried in order. Empty means the default family.
	FontFamilies []string

	// FontSize is the font size in pixels.
	// Default: 14
	FontSize float64

	Weight fonts.Weight
	Slant  fonts.Slant

	// LetterSpacing is added after every grapheme.
	LetterSpacing float64

	// WordSpacing is added after every word space.
	WordSpacing float64

	// Height multiplies the font's ascent and descent. Zero means 1.
	Height float64

	// Locale is a BCP 47 tag used for shaping and font fallback.
	Locale string

	// Color is carried to draw batches unchanged.
	Color color.RGBA
}

// DefaultTextStyle returns a 14px normal-weight black style.
func DefaultTextStyle() TextStyle {
	return TextStyle{
		FontSize: defaultFontSize,
		Weight:   fonts.WeightNormal,
		Height:   1,
		Color:    color.RGBA{A: 0xff},
	}
}

// FontStyle returns the font matching style of the run.
// A zero weight means normal.
func (s *TextStyle) FontStyle() fonts.Style {
	w := s.Weight
	if w == 0 {
		w = fonts.WeightNormal
	}
	return fonts.Style{Weight: w, Width: fonts.WidthNormal, Slant: s.Slant}
}

// Equal reports whether both styles are identical.
func (s *TextStyle) Equal(o *TextStyle) bool {
	return slices.Equal(s.FontFamilies, o.FontFamilies) &&
		s.FontSize == o.FontSize &&
		s.Weight == o.Weight &&
		s.Slant == o.Slant &&
		s.LetterSpacing == o.LetterSpacing &&
		s.WordSpacing == o.WordSpacing &&
		s.Height == o.Height &&
		s.Locale == o.Locale &&
		s.Color == o.Color
}

func (s *TextStyle) size() float64 {
	if s.FontSize <= 0 {
		return defaultFontSize
	}
	return s.FontSize
}

func (s *TextStyle) heightMultiplier() float64 {
	if s.Height <= 0 {
		return 1
	}
	return s.Height
}

// ParseTextStyle builds a text style from a CSS font shorthand such as
// "italic bold 12px/1.5 Roboto, sans-serif". Fields the shorthand cannot
// express keep their defaults.
func ParseTextStyle(shorthand string) (TextStyle, error) {
	sh, err := fonts.ParseShorthand(shorthand)
	if err != nil {
		return TextStyle{}, err
	}
	st := DefaultTextStyle()
	st.FontFamilies = sh.Families
	st.FontSize = sh.Size
	st.Weight = sh.Style.Weight
	st.Slant = sh.Style.Slant
	if sh.LineHeight > 0 {
		st.Height = sh.LineHeight
	}
	return st, nil
}

// StrutStyle forces a minimum line height independent of the fonts that
// are actually rendered.
type StrutStyle struct {
	Enabled bool

	FontFamilies []string
	FontSize     float64
	Weight       fonts.Weight
	Slant        fonts.Slant

	// Height multiplies the strut font's ascent and descent. Zero means 1.
	Height float64

	// Leading is a multiple of the font's ascent plus descent. Negative
	// uses the font's own leading.
	Leading float64

	// Force makes every line use exactly the strut metrics.
	Force bool
}

// ParagraphStyle configures a paragraph.
type ParagraphStyle struct {
	// MaxLines limits the number of laid out lines. Zero means unlimited.
	MaxLines int

	Align     Align
	Direction textseg.Direction

	// BreakStrategy selects the line breaking algorithm.
	// Default: BreakGreedy
	BreakStrategy BreakStrategy

	// Ellipsis is appended to the last line when the text is cut by
	// MaxLines or overflows the width. Empty disables ellipsizing.
	Ellipsis string

	Strut StrutStyle

	// TextStyle is used for empty lines and as the default run style.
	TextStyle TextStyle
}

// DefaultParagraphStyle returns a left-to-right, start-aligned style with
// unlimited lines.
func DefaultParagraphStyle() ParagraphStyle {
	return ParagraphStyle{
		Align:     AlignStart,
		Direction: textseg.LTR,
		Strut:     StrutStyle{Height: 1, Leading: -1},
		TextStyle: DefaultTextStyle(),
	}
}

// effectiveAlign resolves start and end against the paragraph direction.
func (s *ParagraphStyle) effectiveAlign() Align {
	switch s.Align {
	case AlignStart:
		if s.Direction == textseg.RTL {
			return AlignRight
		}
		return AlignLeft
	case AlignEnd:
		if s.Direction == textseg.RTL {
			return AlignLeft
		}
		return AlignRight
	default:
		return s.Align
	}
}

func (s *ParagraphStyle) unlimitedLines() bool { return s.MaxLines <= 0 }

func (s *ParagraphStyle) ellipsized() bool { return s.Ellipsis != "" }
