package fonts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// defaultFontSize is the reference size for em, rem and percentage sizes.
const defaultFontSize = 16

// pointsToPixels converts typographic points to pixels.
const pointsToPixels = 1.33

var (
	shorthandLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"|'(?:\\.|[^'])*'`},
		{Name: "Dimension", Pattern: `(?:\d+\.\d+|\.\d+|\d+)(?:px|pt|em|rem|%)`},
		{Name: "Number", Pattern: `\d+\.\d+|\.\d+|\d+`},
		{Name: "Ident", Pattern: `[\p{L}_-][\p{L}\p{N}_-]*`},
		{Name: "Punct", Pattern: `[,/]`},
	})

	shorthandParser = participle.MustBuild[fontShorthand](
		participle.Lexer(shorthandLexer),
		participle.Elide("Whitespace"),
	)
)

// fontShorthand is the AST of a CSS font shorthand:
//
//	[style] [weight] [width] size[/line-height] family[, family]*
type fontShorthand struct {
	Modifiers  []string      `parser:"@(Ident | Number)*"`
	Size       string        `parser:"@Dimension"`
	LineHeight *string       `parser:"( '/' @(Dimension | Number) )?"`
	Families   []*familyName `parser:"@@ ( ',' @@ )*"`
}

type familyName struct {
	Quoted *string  `parser:"  @String"`
	Words  []string `parser:"| @Ident+"`
}

func (f *familyName) String() string {
	if f.Quoted != nil {
		q := *f.Quoted
		return q[1 : len(q)-1]
	}
	return strings.Join(f.Words, " ")
}

// Shorthand is a decoded CSS font shorthand.
type Shorthand struct {
	Families []string
	// Size is the font size in pixels.
	Size  float64
	Style Style
	// LineHeight is a multiplier of Size, 0 when not given.
	LineHeight float64
}

// ParseShorthand decodes a CSS font shorthand such as
// "italic bold 12px/1.5 'Open Sans', sans-serif". Point sizes are converted
// to pixels; em, rem and percentages are relative to 16px.
func ParseShorthand(s string) (Shorthand, error) {
	ast, err := shorthandParser.ParseString("", s)
	if err != nil {
		return Shorthand{}, fmt.Errorf("%w: %q: %w", ErrInvalidShorthand, s, err)
	}

	out := Shorthand{Style: NormalStyle()}
	for _, m := range ast.Modifiers {
		if err := applyModifier(&out.Style, m); err != nil {
			return Shorthand{}, fmt.Errorf("%w: %q: %w", ErrInvalidShorthand, s, err)
		}
	}

	size, err := parseLength(ast.Size, defaultFontSize)
	if err != nil {
		return Shorthand{}, fmt.Errorf("%w: %q: %w", ErrInvalidShorthand, s, err)
	}
	out.Size = size

	if ast.LineHeight != nil {
		lh := *ast.LineHeight
		if v, err := strconv.ParseFloat(lh, 64); err == nil {
			out.LineHeight = v
		} else {
			px, err := parseLength(lh, size)
			if err != nil {
				return Shorthand{}, fmt.Errorf("%w: %q: %w", ErrInvalidShorthand, s, err)
			}
			if size > 0 {
				out.LineHeight = px / size
			}
		}
	}

	for _, f := range ast.Families {
		out.Families = append(out.Families, f.String())
	}
	return out, nil
}

func applyModifier(st *Style, m string) error {
	if v, err := strconv.Atoi(m); err == nil {
		if v < 1 || v > 1000 {
			return fmt.Errorf("weight %d out of range", v)
		}
		st.Weight = Weight(v)
		return nil
	}

	word := strings.ToLower(m)
	switch word {
	case "normal", "small-caps":
		return nil
	case "italic":
		st.Slant = SlantItalic
		return nil
	case "oblique":
		st.Slant = SlantOblique
		return nil
	case "bolder":
		st.Weight = WeightBold
		return nil
	case "lighter":
		st.Weight = WeightThin
		return nil
	}
	key := strings.ReplaceAll(word, "-", "")
	if w, ok := weightKeywords[key]; ok {
		st.Weight = w
		return nil
	}
	if w, ok := widthKeywords[key]; ok {
		st.Width = w
		return nil
	}
	return fmt.Errorf("unknown keyword %q", m)
}

// parseLength converts a dimension to pixels. rel is the reference size for
// relative units.
func parseLength(dim string, rel float64) (float64, error) {
	units := []struct {
		suffix string
		scale  float64
	}{
		{"px", 1},
		{"pt", pointsToPixels},
		{"rem", defaultFontSize},
		{"em", rel},
		{"%", rel / 100},
	}
	for _, u := range units {
		num, ok := strings.CutSuffix(dim, u.suffix)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, err
		}
		return v * u.scale, nil
	}
	return 0, fmt.Errorf("unknown unit in %q", dim)
}
