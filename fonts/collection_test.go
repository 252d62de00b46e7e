package fonts

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

func loadGoFonts(t *testing.T) (*Collection, map[string]*Instance) {
	t.Helper()
	c := NewCollection(nil)
	out := make(map[string]*Instance)
	for name, data := range map[string][]byte{
		"regular": goregular.TTF,
		"bold":    gobold.TTF,
		"italic":  goitalic.TTF,
	} {
		inst, err := Parse(data)
		if err != nil {
			t.Fatalf("Parse(%s): %v", name, err)
		}
		out[name] = inst
	}
	// Registration order fixes ids and the default family.
	for _, name := range []string{"regular", "bold", "italic"} {
		c.Add(out[name])
	}
	mono, err := c.Load(gomono.TTF)
	if err != nil {
		t.Fatalf("Load(gomono): %v", err)
	}
	out["mono"] = mono
	return c, out
}

func TestParse_GoFonts(t *testing.T) {
	_, fonts := loadGoFonts(t)

	reg, bold, italic := fonts["regular"], fonts["bold"], fonts["italic"]
	if reg.Family() == "" || reg.Family() != bold.Family() || reg.Family() != italic.Family() {
		t.Errorf("families = %q, %q, %q; want one shared non-empty family",
			reg.Family(), bold.Family(), italic.Family())
	}
	if fonts["mono"].Family() == reg.Family() {
		t.Error("mono font should have its own family")
	}
	if bold.Style().Weight != WeightBold {
		t.Errorf("bold weight = %d, want %d", bold.Style().Weight, WeightBold)
	}
	if italic.Style().Slant != SlantItalic {
		t.Errorf("italic slant = %v, want italic", italic.Style().Slant)
	}
	if !reg.HasGlyph('A') || reg.HasGlyph('中') {
		t.Error("HasGlyph: want coverage of 'A' and no coverage of '中'")
	}
	if reg.Font() == nil || reg.SFNT() == nil || reg.Synthetic() {
		t.Error("parsed instance should carry go-text and sfnt fonts")
	}
}

func TestCollection_IDs(t *testing.T) {
	c, fonts := loadGoFonts(t)
	if c.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", c.Len())
	}
	for i, name := range []string{"regular", "bold", "italic", "mono"} {
		inst := fonts[name]
		if inst.ID() != uint32(i+1) {
			t.Errorf("%s id = %d, want %d", name, inst.ID(), i+1)
		}
		if c.Instance(inst.ID()) != inst {
			t.Errorf("Instance(%d) did not return %s", inst.ID(), name)
		}
	}
	if c.Instance(0) != nil || c.Instance(99) != nil {
		t.Error("Instance() should return nil for unknown ids")
	}
}

func TestCollection_MatchFamily(t *testing.T) {
	c, fonts := loadGoFonts(t)
	family := fonts["regular"].Family()

	tests := []struct {
		name   string
		family string
		style  Style
		want   *Instance
	}{
		{"regular", family, NormalStyle(), fonts["regular"]},
		{"bold", family, BoldStyle(), fonts["bold"]},
		{"case insensitive", strings.ToUpper(family), ItalicStyle(), fonts["italic"]},
		{"default family", "", BoldStyle(), fonts["bold"]},
		{"bold italic falls back to italic", family, BoldItalicStyle(), fonts["italic"]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.MatchFamily(tt.family, tt.style)
			if err != nil {
				t.Fatalf("MatchFamily: %v", err)
			}
			if got != tt.want {
				t.Errorf("MatchFamily(%q, %v) = %v, want %v", tt.family, tt.style, got, tt.want)
			}
		})
	}

	_, err := c.MatchFamily("No Such Family", NormalStyle())
	var re *ResolutionError
	if !errors.As(err, &re) || !errors.Is(err, ErrNoMatch) {
		t.Fatalf("err = %v, want *ResolutionError matching ErrNoMatch", err)
	}
	if re.Family != "No Such Family" {
		t.Errorf("Family = %q", re.Family)
	}
}

func TestCollection_ResolveFamilies(t *testing.T) {
	c, fonts := loadGoFonts(t)
	reg := strings.ToLower(fonts["regular"].Family())
	mono := strings.ToLower(fonts["mono"].Family())

	got := c.ResolveFamilies([]string{"Missing", fonts["mono"].Family(), fonts["regular"].Family()}, "en")
	if want := []string{mono, reg}; !slices.Equal(got, want) {
		t.Errorf("ResolveFamilies() = %q, want %q", got, want)
	}

	got = c.ResolveFamilies([]string{"Missing"}, "en")
	if want := []string{reg}; !slices.Equal(got, want) {
		t.Errorf("ResolveFamilies(unknown) = %q, want default %q", got, want)
	}

	c.SetDefaultFamily(fonts["mono"].Family())
	if c.DefaultFamily() != fonts["mono"].Family() {
		t.Errorf("DefaultFamily() = %q", c.DefaultFamily())
	}
	got = c.ResolveFamilies([]string{"Missing"}, "en")
	if want := []string{mono}; !slices.Equal(got, want) {
		t.Errorf("ResolveFamilies() after SetDefaultFamily = %q, want %q", got, want)
	}
}

func TestCollection_MatchCharacter(t *testing.T) {
	c, fonts := loadGoFonts(t)
	cjk := NewSynthetic(0, "Fallback CJK", NormalStyle())
	c.Add(cjk)

	got, err := c.MatchCharacter('A', "en", BoldStyle())
	if err != nil || got != fonts["bold"] {
		t.Errorf("MatchCharacter('A') = %v, %v; want bold Go font", got, err)
	}

	got, err = c.MatchCharacter('中', "zh-Hans", NormalStyle())
	if err != nil || got != cjk {
		t.Fatalf("MatchCharacter('中') = %v, %v; want fallback", got, err)
	}

	// The fallback family now joins resolved lists for the same language.
	resolved := c.ResolveFamilies([]string{fonts["regular"].Family()}, "zh-Hant")
	if !slices.Contains(resolved, "fallback cjk") {
		t.Errorf("ResolveFamilies() = %q, want fallback family included", resolved)
	}
	if other := c.ResolveFamilies([]string{fonts["regular"].Family()}, "ja"); slices.Contains(other, "fallback cjk") {
		t.Errorf("fallback leaked into another locale: %q", other)
	}

	// Cached lookups return the same instance.
	again, _ := c.MatchCharacter('中', "zh", NormalStyle())
	if again != cjk {
		t.Error("cached MatchCharacter returned a different instance")
	}
	_, chars := c.CacheStats()
	if chars.Hits == 0 {
		t.Error("character cache recorded no hits")
	}

	c.DisableFontFallback()
	if _, err := c.MatchCharacter('中', "zh", NormalStyle()); !errors.Is(err, ErrNoMatch) {
		t.Errorf("MatchCharacter with fallback disabled = %v, want ErrNoMatch", err)
	}
}

func TestCollection_GenerationInvalidation(t *testing.T) {
	c, fonts := loadGoFonts(t)

	if _, err := c.MatchCharacter('中', "", NormalStyle()); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("MatchCharacter('中') = %v, want ErrNoMatch before fallback is loaded", err)
	}
	// Registering a font invalidates the cached miss.
	cjk := NewSynthetic(0, "Fallback", NormalStyle())
	c.Add(cjk)
	got, err := c.MatchCharacter('中', "", NormalStyle())
	if err != nil || got != cjk {
		t.Errorf("MatchCharacter after Add = %v, %v; want fallback", got, err)
	}

	if inst := c.FamilyInstance(fonts["regular"].Family(), BoldStyle(), 'x'); inst != fonts["bold"] {
		t.Errorf("FamilyInstance() = %v, want bold", inst)
	}
}
