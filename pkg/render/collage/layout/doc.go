// Package layout computes tier-list collage geometry.
//
// # Overview
//
// The canvas is a fixed-width column of horizontal bands, one per tier in
// definition order. Each band starts with a label block on the left followed
// by tiles flowing left to right and wrapping onto new rows:
//
//	margin
//	┌──────────┬──────┬──────┬──────┬─────┐
//	│  label   │ tile │ tile │ tile │ ... │  TileHeight
//	│          ├──────┼──────┘      │     │
//	│          │ tile │             │     │  (wrapped row)
//	└──────────┴──────┘                   │
//	rowGap
//
// Tiles are scaled to TileHeight and keep their aspect ratio, so their
// widths differ. Band heights are reserved up front with [Geometry.RowHeight],
// which assumes every tile is a fallback-width tile. [Flow] does the real
// wrapping at draw time. The two can disagree for unusual aspect ratios;
// the reserved height is kept as is, so tiles may overflow into the next band.
//
// # Ordering
//
// [Buckets] groups items by tier in definition order. Within a bucket items
// are ordered by item ID so identical submissions render identically.
package layout
