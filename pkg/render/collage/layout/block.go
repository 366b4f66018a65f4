package layout

// Block is an axis-aligned rectangle in canvas pixels, y growing downwards.
type Block struct {
	ItemID    string
	Left, Top int
	Width     int
	Height    int
}

// Right returns the x just past the block.
func (b Block) Right() int { return b.Left + b.Width }

// Bottom returns the y just past the block.
func (b Block) Bottom() int { return b.Top + b.Height }

// CenterY returns the vertical center of the block.
func (b Block) CenterY() float64 { return float64(b.Top) + float64(b.Height)/2 }
