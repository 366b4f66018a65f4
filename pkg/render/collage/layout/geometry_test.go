package layout

import (
	"testing"

	"github.com/matzehuels/tierlist/pkg/errors"
)

func TestDefaultGeometryDerived(t *testing.T) {
	g := Default()
	if got := g.UsableWidth(); got != 1652 {
		t.Errorf("UsableWidth() = %d, want 1652", got)
	}
	if got := g.FallbackWidth(); got != 118 {
		t.Errorf("FallbackWidth() = %d, want 118", got)
	}
	// 1652 / (118 + 10) = 12
	if got := g.TilesPerRow(); got != 12 {
		t.Errorf("TilesPerRow() = %d, want 12", got)
	}
	if got := g.TileStart(); got != 254 {
		t.Errorf("TileStart() = %d, want 254", got)
	}
	if got := g.RowLimit(); got != 1896 {
		t.Errorf("RowLimit() = %d, want 1896", got)
	}
}

func TestRowHeight(t *testing.T) {
	g := Default()
	perRow := g.TilesPerRow()

	tests := []struct {
		name string
		n    int
		want int
	}{
		{"empty tier reserves one row", 0, 180},
		{"single tile", 1, 180},
		{"exactly one full row", perRow, 180},
		{"one past a full row", perRow + 1, 2*(180+10) - 10},
		{"two full rows", 2 * perRow, 370},
		{"three rows", 2*perRow + 1, 3*(180+10) - 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.RowHeight(tt.n); got != tt.want {
				t.Errorf("RowHeight(%d) = %d, want %d", tt.n, got, tt.want)
			}
		})
	}
}

func TestRowHeightNarrowCanvas(t *testing.T) {
	g := Default()
	g.CanvasWidth = 2*g.Margin + g.LabelWidth + 50 // less than one tile footprint
	if g.TilesPerRow() != 1 {
		t.Fatalf("TilesPerRow() = %d, want 1", g.TilesPerRow())
	}
	if got := g.RowHeight(3); got != 3*190-10 {
		t.Errorf("RowHeight(3) = %d, want %d", got, 3*190-10)
	}
}

func TestCanvasHeight(t *testing.T) {
	g := Default()
	tests := []struct {
		counts []int
		want   int
	}{
		{nil, 48},
		{[]int{0}, 48 + 180},
		{[]int{0, 0, 0, 0, 0, 0, 0, 0}, 48 + 8*196 - 16},
		{[]int{1, 13, 0}, 48 + (180 + 16) + (370 + 16) + 180},
	}
	for _, tt := range tests {
		if got := g.CanvasHeight(tt.counts); got != tt.want {
			t.Errorf("CanvasHeight(%v) = %d, want %d", tt.counts, got, tt.want)
		}
	}
}

func TestScaledWidth(t *testing.T) {
	g := Default()
	tests := []struct {
		w, h int
		want int
	}{
		{120, 180, 120},
		{400, 600, 120},
		{500, 750, 120},
		{333, 500, 119}, // 333 * 0.36 = 119.88
		{1, 10000, 1},   // never zero
		{10, 0, 1},
	}
	for _, tt := range tests {
		if got := g.ScaledWidth(tt.w, tt.h); got != tt.want {
			t.Errorf("ScaledWidth(%d, %d) = %d, want %d", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	bad := []func(*Geometry){
		func(g *Geometry) { g.TileHeight = 0 },
		func(g *Geometry) { g.Margin = -1 },
		func(g *Geometry) { g.FallbackAspect = 0 },
		func(g *Geometry) { g.LabelWidth = g.CanvasWidth },
	}
	for i, mutate := range bad {
		g := Default()
		mutate(&g)
		if err := g.Validate(); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("case %d: Validate() = %v, want INVALID_INPUT", i, err)
		}
	}
}
