package layout

import (
	"sort"

	"github.com/matzehuels/tierlist/pkg/tiers"
)

// Bucket is the ordered list of items assigned to one tier.
type Bucket struct {
	Tier  tiers.Tier
	Items []string
}

// Buckets groups ranked items by tier, in definition order. Ranks are
// matched case-insensitively; unknown ranks go to the fallback tier. Every
// tier gets a bucket, empty or not. Items are sorted by ID within a bucket.
func Buckets(def *tiers.Definition, ranks map[string]string) []Bucket {
	ts := def.Tiers()
	out := make([]Bucket, len(ts))
	index := make(map[string]int, len(ts))
	for i, t := range ts {
		out[i] = Bucket{Tier: t}
		index[t.Key] = i
	}

	ids := make([]string, 0, len(ranks))
	for id := range ranks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		i := index[def.Resolve(ranks[id])]
		out[i].Items = append(out[i].Items, id)
	}
	return out
}

// Counts returns the number of items per bucket.
func Counts(buckets []Bucket) []int {
	counts := make([]int, len(buckets))
	for i, b := range buckets {
		counts[i] = len(b.Items)
	}
	return counts
}

// Band is a bucket positioned on the canvas.
type Band struct {
	Bucket
	Top    int // y of the label block and first tile row
	Height int // reserved height from RowHeight
}

// Label returns the label block rectangle.
func (b Band) Label(g Geometry) Block {
	return Block{Left: g.Margin, Top: b.Top, Width: g.LabelWidth, Height: g.TileHeight}
}

// Plan positions buckets top to bottom and returns the bands together with
// the canvas height.
func (g Geometry) Plan(buckets []Bucket) ([]Band, int) {
	bands := make([]Band, len(buckets))
	y := g.Margin
	for i, b := range buckets {
		h := g.RowHeight(len(b.Items))
		bands[i] = Band{Bucket: b, Top: y, Height: h}
		y += h + g.RowGap
	}
	return bands, g.CanvasHeight(Counts(buckets))
}
