// Package textseg provides the Unicode text segmentation used by paragraph
// layout: line break opportunities, bidirectional runs, grapheme clusters,
// word boundaries and character classes.
//
// Offsets are rune indices into the text.
package textseg
