package fonts

import (
	"fmt"
	"strings"
)

// Weight is a font weight on the CSS scale, 0 to 1000.
type Weight int

// Common font weights.
const (
	WeightInvisible  Weight = 0
	WeightThin       Weight = 100
	WeightExtraLight Weight = 200
	WeightLight      Weight = 300
	WeightNormal     Weight = 400
	WeightMedium     Weight = 500
	WeightSemiBold   Weight = 600
	WeightBold       Weight = 700
	WeightExtraBold  Weight = 800
	WeightBlack      Weight = 900
	WeightExtraBlack Weight = 1000
)

// Width is a font stretch class, 1 (ultra condensed) to 9 (ultra expanded).
type Width int

// Font widths.
const (
	WidthUltraCondensed Width = iota + 1
	WidthExtraCondensed
	WidthCondensed
	WidthSemiCondensed
	WidthNormal
	WidthSemiExpanded
	WidthExpanded
	WidthExtraExpanded
	WidthUltraExpanded
)

// Slant is the posture of a font.
type Slant int

// Font slants.
const (
	SlantUpright Slant = iota
	SlantItalic
	SlantOblique
)

// String returns the CSS keyword for the slant.
func (s Slant) String() string {
	switch s {
	case SlantUpright:
		return "normal"
	case SlantItalic:
		return "italic"
	case SlantOblique:
		return "oblique"
	default:
		return fmt.Sprintf("Slant(%d)", int(s))
	}
}

// Style combines weight, width and slant.
type Style struct {
	Weight Weight
	Width  Width
	Slant  Slant
}

// NormalStyle returns the regular upright style.
func NormalStyle() Style {
	return Style{Weight: WeightNormal, Width: WidthNormal, Slant: SlantUpright}
}

// BoldStyle returns the bold upright style.
func BoldStyle() Style {
	return Style{Weight: WeightBold, Width: WidthNormal, Slant: SlantUpright}
}

// ItalicStyle returns the regular italic style.
func ItalicStyle() Style {
	return Style{Weight: WeightNormal, Width: WidthNormal, Slant: SlantItalic}
}

// BoldItalicStyle returns the bold italic style.
func BoldItalicStyle() Style {
	return Style{Weight: WeightBold, Width: WidthNormal, Slant: SlantItalic}
}

// normalized clamps every field into its legal range. A zero width maps to
// WidthNormal.
func (s Style) normalized() Style {
	if s.Width == 0 {
		s.Width = WidthNormal
	}
	s.Weight = min(max(s.Weight, WeightInvisible), WeightExtraBlack)
	s.Width = min(max(s.Width, WidthUltraCondensed), WidthUltraExpanded)
	s.Slant = min(max(s.Slant, SlantUpright), SlantOblique)
	return s
}

// Bits packs the style as weight | width<<16 | slant<<24. Out-of-range
// fields are clamped first, so equal bits mean equal styles.
func (s Style) Bits() uint32 {
	n := s.normalized()
	return uint32(n.Weight) | uint32(n.Width)<<16 | uint32(n.Slant)<<24 //nolint:gosec // clamped above
}

// StyleFromBits unpacks a value produced by Style.Bits.
func StyleFromBits(bits uint32) Style {
	return Style{
		Weight: Weight(bits & 0xFFFF),
		Width:  Width((bits >> 16) & 0xFF),
		Slant:  Slant((bits >> 24) & 0xFF),
	}
}

// IsItalic reports whether the style is slanted.
func (s Style) IsItalic() bool { return s.Slant != SlantUpright }

func (s Style) String() string {
	n := s.normalized()
	return fmt.Sprintf("%s %d w%d", n.Slant, n.Weight, n.Width)
}

// distance scores how far candidate c is from the requested style s.
// Lower is better. Slant dominates, then width, then weight, roughly
// following the CSS font matching order.
func (s Style) distance(c Style) int {
	s, c = s.normalized(), c.normalized()
	return slantDistance(s.Slant, c.Slant)*100000 +
		absInt(int(s.Width-c.Width))*10000 +
		weightDistance(s.Weight, c.Weight)
}

func slantDistance(want, got Slant) int {
	if want == got {
		return 0
	}
	switch want {
	case SlantItalic:
		if got == SlantOblique {
			return 1
		}
	case SlantOblique:
		if got == SlantItalic {
			return 1
		}
	default:
		if got == SlantOblique {
			return 1
		}
	}
	return 2
}

// weightDistance implements the CSS preference: heavy requests prefer
// heavier fonts, light requests prefer lighter fonts, and requests between
// 400 and 500 try up to 500 before going lighter.
func weightDistance(want, got Weight) int {
	d := int(got - want)
	switch {
	case want > WeightMedium:
		if d >= 0 {
			return d
		}
		return 1000 - d
	case want < WeightNormal:
		if d <= 0 {
			return -d
		}
		return 1000 + d
	default:
		if d >= 0 && got <= WeightMedium {
			return d
		}
		if d < 0 {
			return 500 - d
		}
		return 1000 + d
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var weightKeywords = map[string]Weight{
	"thin":       WeightThin,
	"hairline":   WeightThin,
	"extralight": WeightExtraLight,
	"ultralight": WeightExtraLight,
	"light":      WeightLight,
	"regular":    WeightNormal,
	"normal":     WeightNormal,
	"book":       WeightNormal,
	"medium":     WeightMedium,
	"semibold":   WeightSemiBold,
	"demibold":   WeightSemiBold,
	"bold":       WeightBold,
	"extrabold":  WeightExtraBold,
	"ultrabold":  WeightExtraBold,
	"black":      WeightBlack,
	"heavy":      WeightBlack,
}

var widthKeywords = map[string]Width{
	"ultracondensed": WidthUltraCondensed,
	"extracondensed": WidthExtraCondensed,
	"condensed":      WidthCondensed,
	"semicondensed":  WidthSemiCondensed,
	"semiexpanded":   WidthSemiExpanded,
	"expanded":       WidthExpanded,
	"extraexpanded":  WidthExtraExpanded,
	"ultraexpanded":  WidthUltraExpanded,
}

// styleFromSubfamily derives a style from a font subfamily name such as
// "Bold Italic" or "SemiCondensed Light".
func styleFromSubfamily(sub string) Style {
	st := NormalStyle()
	for _, word := range strings.Fields(strings.ToLower(sub)) {
		word = strings.ReplaceAll(word, "-", "")
		if w, ok := weightKeywords[word]; ok {
			st.Weight = w
			continue
		}
		if w, ok := widthKeywords[word]; ok {
			st.Width = w
			continue
		}
		switch word {
		case "italic":
			st.Slant = SlantItalic
		case "oblique":
			st.Slant = SlantOblique
		}
	}
	return st
}
