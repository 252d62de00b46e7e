package fonts

import "testing"

func TestStyle_Bits(t *testing.T) {
	tests := []struct {
		style Style
		want  uint32
	}{
		{NormalStyle(), 400 | 5<<16},
		{BoldItalicStyle(), 700 | 5<<16 | 1<<24},
		{Style{Weight: 2000, Width: 12, Slant: SlantOblique}, 1000 | 9<<16 | 2<<24},
		{Style{Weight: 300}, 300 | 5<<16},
	}
	for _, tt := range tests {
		got := tt.style.Bits()
		if got != tt.want {
			t.Errorf("%v.Bits() = %#x, want %#x", tt.style, got, tt.want)
		}
		if back := StyleFromBits(got); back.Bits() != got {
			t.Errorf("StyleFromBits(%#x).Bits() = %#x", got, back.Bits())
		}
	}
}

func TestStyle_Nearest(t *testing.T) {
	mk := func(w Weight, s Slant) *Instance {
		return NewSynthetic(uint32(w)+uint32(s), "X", Style{Weight: w, Width: WidthNormal, Slant: s})
	}
	tests := []struct {
		name       string
		candidates []*Instance
		want       Style
		wantWeight Weight
		wantSlant  Slant
	}{
		{"heavy prefers heavier", []*Instance{mk(400, 0), mk(900, 0)}, Style{Weight: 700}, 900, SlantUpright},
		{"light prefers lighter", []*Instance{mk(400, 0), mk(100, 0)}, Style{Weight: 300}, 100, SlantUpright},
		{"normal tries medium first", []*Instance{mk(500, 0), mk(300, 0)}, Style{Weight: 400}, 500, SlantUpright},
		{"slant beats weight", []*Instance{mk(700, 0), mk(400, 1)}, Style{Weight: 700, Slant: SlantItalic}, 400, SlantItalic},
		{"oblique accepts italic", []*Instance{mk(400, 0), mk(400, 1)}, Style{Weight: 400, Slant: SlantOblique}, 400, SlantItalic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nearest(tt.candidates, tt.want, 0)
			if got == nil {
				t.Fatal("nearest() = nil")
			}
			if got.Style().Weight != tt.wantWeight || got.Style().Slant != tt.wantSlant {
				t.Errorf("nearest() = %v, want weight %d slant %v", got.Style(), tt.wantWeight, tt.wantSlant)
			}
		})
	}
}

func TestStyleFromSubfamily(t *testing.T) {
	tests := []struct {
		sub  string
		want Style
	}{
		{"Regular", NormalStyle()},
		{"Bold", BoldStyle()},
		{"Bold Italic", BoldItalicStyle()},
		{"SemiCondensed Light Oblique", Style{Weight: WeightLight, Width: WidthSemiCondensed, Slant: SlantOblique}},
		{"Semi-Bold", Style{Weight: WeightSemiBold, Width: WidthNormal}},
	}
	for _, tt := range tests {
		if got := styleFromSubfamily(tt.sub); got != tt.want {
			t.Errorf("styleFromSubfamily(%q) = %v, want %v", tt.sub, got, tt.want)
		}
	}
}
