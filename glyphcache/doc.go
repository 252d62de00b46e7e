// Package glyphcache maps glyph identities to atlas placements.
//
// On a miss the glyph is rasterized once and copied into an atlas page with
// a zeroed one pixel border. When no page has room the glyph is kept with
// valid metrics but no texture coordinates; placement is retried after a
// page is invalidated.
package glyphcache
