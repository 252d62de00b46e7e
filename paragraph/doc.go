// Package paragraph lays out paragraphs of styled, bidirectional text.
//
// A paragraph is text plus an ordered list of styled runs covering it.
// Layout proceeds in three steps:
//
//  1. The text is cut into blocks at mandatory line terminators and each
//     block is broken into lines for the layout width (LineBreaker).
//  2. Bidirectional runs are resolved and split at style boundaries
//     (ComposeBidiRuns).
//  3. Every line's runs are itemized by font, shaped and positioned.
//     Alignment, justification, strut and ellipsis are applied per line.
//
// The results are paint records (glyphs grouped by font instance), line
// metrics and a grapheme position index used by PositionForCoordinate and
// RectsForRange.
//
// Fonts, shaping and Unicode algorithms are collaborators supplied through
// Collaborators. fonts.Collection, shape.HarfBuzz and textseg.Services are
// the production implementations; tests use synthetic fonts with
// shape.Monospace.
//
// Offsets are rune indices into the paragraph text.
package paragraph
