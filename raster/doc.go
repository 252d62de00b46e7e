// Package raster turns glyph outlines into coverage bitmaps.
//
// [Vector] uses golang.org/x/image/vector on outlines decoded by
// golang.org/x/image/font/sfnt and handles both TrueType and CFF fonts.
// [Freetype] uses the golang/freetype scanline rasterizer and handles
// TrueType fonts only. Both produce the same [Bitmap] layout.
package raster
