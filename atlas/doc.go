// Package atlas packs rasterized glyph bitmaps into fixed-size texture pages.
//
// A [Page] keeps a free-space list of column blocks ordered by width plus a
// trailing remainder block. Glyph widths are rounded up to a multiple of 4
// so that near-equal widths stack in the same column, and every glyph keeps
// a one pixel zero border so linear sampling never reads a neighbor.
//
// Reservations never evict. When a page is full, [Pool] opens another page
// up to its limit; callers decide when to reset pages.
//
// Changes accumulate in a dirty rectangle per page and are handed out as
// [UploadRequest] values, one per page and frame.
package atlas
