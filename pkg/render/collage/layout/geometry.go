package layout

import (
	"github.com/matzehuels/tierlist/pkg/errors"
)

// Geometry holds the fixed visual constants of a collage, in pixels.
type Geometry struct {
	CanvasWidth int
	Margin      int // outer margin on every side
	RowGap      int // vertical gap between tier bands
	LabelWidth  int
	TileHeight  int
	TileGap     int // horizontal and vertical gap between tiles

	// FallbackAspect is the width/height ratio assumed for fallback tiles
	// and for row-height estimation.
	FallbackAspect float64
}

// Default returns the stock geometry: a 1920px wide canvas with 180px tiles.
func Default() Geometry {
	return Geometry{
		CanvasWidth:    1920,
		Margin:         24,
		RowGap:         16,
		LabelWidth:     220,
		TileHeight:     180,
		TileGap:        10,
		FallbackAspect: 0.66,
	}
}

// Validate rejects geometries that cannot hold a single tile.
func (g Geometry) Validate() error {
	switch {
	case g.CanvasWidth <= 0 || g.TileHeight <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "canvas width and tile height must be positive")
	case g.Margin < 0 || g.RowGap < 0 || g.TileGap < 0 || g.LabelWidth < 0:
		return errors.New(errors.ErrCodeInvalidInput, "margins and gaps cannot be negative")
	case g.FallbackAspect <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "fallback aspect must be positive")
	case g.UsableWidth() <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "no room for tiles: usable width is %d", g.UsableWidth())
	}
	return nil
}

// UsableWidth is the tile area width used for row-height estimation.
func (g Geometry) UsableWidth() int {
	return g.CanvasWidth - 2*g.Margin - g.LabelWidth
}

// FallbackWidth is the width of a fallback tile.
func (g Geometry) FallbackWidth() int {
	return int(float64(g.TileHeight) * g.FallbackAspect)
}

// TilesPerRow estimates how many tiles fit in one row, never less than one.
func (g Geometry) TilesPerRow() int {
	return max(1, g.UsableWidth()/(g.FallbackWidth()+g.TileGap))
}

// RowHeight returns the height reserved for a band holding n tiles. An empty
// band still reserves one tile row.
func (g Geometry) RowHeight(n int) int {
	if n <= 0 {
		return g.TileHeight
	}
	perRow := g.TilesPerRow()
	rows := (n + perRow - 1) / perRow
	return rows*(g.TileHeight+g.TileGap) - g.TileGap
}

// CanvasHeight returns the total canvas height for bands with the given
// tile counts.
func (g Geometry) CanvasHeight(counts []int) int {
	h := 2 * g.Margin
	for _, n := range counts {
		h += g.RowHeight(n) + g.RowGap
	}
	if len(counts) > 0 {
		h -= g.RowGap
	}
	return h
}

// ScaledWidth returns the width of a w×h image scaled to TileHeight,
// at least one pixel.
func (g Geometry) ScaledWidth(w, h int) int {
	if h <= 0 {
		return 1
	}
	return max(1, w*g.TileHeight/h)
}

// TileStart is the x coordinate of the first tile in every row.
func (g Geometry) TileStart() int {
	return g.Margin + g.LabelWidth + g.TileGap
}

// RowLimit is the rightmost x a tile may reach without wrapping.
func (g Geometry) RowLimit() int {
	return g.CanvasWidth - g.Margin
}
