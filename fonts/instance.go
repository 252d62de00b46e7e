package fonts

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Instance is one physical font: a family member with a concrete style and
// the parsed font file backing it.
//
// The id distinguishes instances that share a family name, so it is part of
// every glyph cache key. Instances are immutable after registration and
// safe for concurrent use.
type Instance struct {
	id     uint32
	family string
	style  Style
	data   []byte

	face *font.Font
	sfnt *sfnt.Font
}

// Parse parses a TrueType or OpenType font. Family and style come from the
// font's name table. The returned instance has id 0 until it is added to a
// Collection.
func Parse(data []byte) (*Instance, error) {
	sf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fonts: parse sfnt: %w", err)
	}
	ld, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("fonts: parse ttf: %w", err)
	}

	var buf sfnt.Buffer
	family, err := sf.Name(&buf, sfnt.NameIDFamily)
	if err != nil {
		return nil, fmt.Errorf("fonts: read family name: %w", err)
	}
	sub, err := sf.Name(&buf, sfnt.NameIDSubfamily)
	if err != nil {
		sub = ""
	}

	return &Instance{
		family: family,
		style:  styleFromSubfamily(sub),
		data:   data,
		face:   ld.Font,
		sfnt:   sf,
	}, nil
}

// NewSynthetic returns an instance without font data that claims coverage
// of every rune. It is meant for measurement-only shapers and tests.
func NewSynthetic(id uint32, family string, style Style) *Instance {
	return &Instance{id: id, family: family, style: style.normalized()}
}

// ID returns the collection-assigned identifier.
func (f *Instance) ID() uint32 { return f.id }

// Family returns the family name.
func (f *Instance) Family() string { return f.family }

// Style returns the instance style.
func (f *Instance) Style() Style { return f.style }

// Data returns the raw font file, nil for synthetic instances.
func (f *Instance) Data() []byte { return f.data }

// Font returns the go-text font used for shaping, nil for synthetic instances.
func (f *Instance) Font() *font.Font { return f.face }

// SFNT returns the parsed font used for outlines and metrics, nil for
// synthetic instances.
func (f *Instance) SFNT() *sfnt.Font { return f.sfnt }

// Synthetic reports whether the instance has no font data.
func (f *Instance) Synthetic() bool { return f.sfnt == nil }

// GlyphIndex maps r to a glyph id. ok is false when the font has no glyph
// for r. Synthetic instances map every rune to itself.
func (f *Instance) GlyphIndex(r rune) (uint32, bool) {
	if f.sfnt == nil {
		return uint32(r), true //nolint:gosec // runes are non-negative
	}
	var buf sfnt.Buffer
	idx, err := f.sfnt.GlyphIndex(&buf, r)
	if err != nil || idx == 0 {
		return 0, false
	}
	return uint32(idx), true
}

// HasGlyph reports whether the font covers r.
func (f *Instance) HasGlyph(r rune) bool {
	_, ok := f.GlyphIndex(r)
	return ok
}

func (f *Instance) String() string {
	return fmt.Sprintf("%s#%d(%s)", f.family, f.id, f.style)
}
