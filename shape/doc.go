// Package shape converts runs of text into positioned glyphs.
//
// [HarfBuzz] wraps the go-text/typesetting shaper and reads vertical
// metrics with golang.org/x/image/font/sfnt. [Monospace] produces one
// fixed-advance glyph per rune and is used for measurement without font
// files.
package shape
