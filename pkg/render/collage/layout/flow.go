package layout

// Flow places tiles of one band left to right, wrapping to a new row when a
// tile would cross the right margin. The first tile of a row never wraps.
type Flow struct {
	g     Geometry
	start int
	x, y  int
}

// NewFlow starts a flow whose first row is at top.
func (g Geometry) NewFlow(top int) *Flow {
	start := g.TileStart()
	return &Flow{g: g, start: start, x: start, y: top}
}

// Place reserves room for a tile of the given width and returns its block.
func (f *Flow) Place(id string, width int) Block {
	if f.x > f.start && f.x+width > f.g.RowLimit() {
		f.x = f.start
		f.y += f.g.TileHeight + f.g.TileGap
	}
	b := Block{ItemID: id, Left: f.x, Top: f.y, Width: width, Height: f.g.TileHeight}
	f.x += width + f.g.TileGap
	return b
}

// Bottom returns the y just past the last placed row.
func (f *Flow) Bottom() int { return f.y + f.g.TileHeight }
