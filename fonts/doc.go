// Package fonts registers font instances and resolves family and
// per-character fallback queries for text layout.
//
// An [Instance] is one physical font file with a family name and a
// [Style]. A [Collection] groups instances by family, picks the member
// closest to a requested style, and finds fallback fonts for characters
// the requested families do not cover. Family resolutions and fallback
// matches are cached and invalidated by generation counters.
//
// [ParseShorthand] decodes CSS font shorthands such as
// "italic bold 12px Roboto, sans-serif".
package fonts
