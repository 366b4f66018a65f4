// Package tiers defines the ordered tier configuration of a tier list.
//
// A [Definition] fixes both the bucket order used by the layout engine and
// the visual rendering of each band (label and color). It is defined once and
// passed to every component that needs it; nothing else hardcodes tier keys.
//
// Definitions are immutable after construction: accessors return copies.
package tiers

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/matzehuels/tierlist/pkg/errors"
)

// FallbackKey is the tier that receives items with an unrecognized rank.
const FallbackKey = "F"

// Tier is a single named ranking bucket.
type Tier struct {
	Key   string     // Uppercase key matched against submitted ranks
	Label string     // Display label drawn in the band
	Color color.RGBA // Band background
}

// Definition is an ordered, validated list of tiers (top to bottom).
type Definition struct {
	tiers    []Tier
	index    map[string]int
	fallback string
}

// New validates tiers and builds a Definition. Keys are uppercased and must be
// unique; fallback must name one of the keys.
func New(fallback string, tiers ...Tier) (*Definition, error) {
	if len(tiers) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidTiers, "at least one tier is required")
	}
	d := &Definition{
		tiers:    make([]Tier, 0, len(tiers)),
		index:    make(map[string]int, len(tiers)),
		fallback: strings.ToUpper(fallback),
	}
	for _, t := range tiers {
		t.Key = strings.ToUpper(strings.TrimSpace(t.Key))
		if t.Key == "" {
			return nil, errors.New(errors.ErrCodeInvalidTiers, "tier key cannot be empty")
		}
		if _, dup := d.index[t.Key]; dup {
			return nil, errors.New(errors.ErrCodeInvalidTiers, "duplicate tier key %q", t.Key)
		}
		d.index[t.Key] = len(d.tiers)
		d.tiers = append(d.tiers, t)
	}
	if _, ok := d.index[d.fallback]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidTiers, "fallback tier %q is not defined", fallback)
	}
	return d, nil
}

// MustNew is like New but panics on invalid input. Intended for static tables.
func MustNew(fallback string, tiers ...Tier) *Definition {
	d, err := New(fallback, tiers...)
	if err != nil {
		panic(err)
	}
	return d
}

var defaultTiers = []Tier{
	{Key: "S", Label: "Glorious Pantheon of Literary Deities", Color: rgb(234, 149, 148)},
	{Key: "A", Label: "Champions of the Grand Narrative", Color: rgb(68, 68, 68)},
	{Key: "B", Label: "Worthy Contenders for the Hero’s Feast", Color: rgb(232, 213, 141)},
	{Key: "C", Label: "Respectable Denizens of the Mid-Levels", Color: rgb(243, 236, 168)},
	{Key: "D", Label: "Shaky Survivors of Chapter 3", Color: rgb(214, 236, 163)},
	{Key: "F", Label: "Fodder for the Slush Pile Golems", Color: rgb(214, 236, 163)},
	{Key: "DNF", Label: "Vanquished by the Reader’s Apathy", Color: rgb(230, 230, 230)},
	{Key: "ITP", Label: "Cast Screaming Into the Pit", Color: rgb(210, 210, 210)},
}

// Default returns the stock eight-tier definition.
func Default() *Definition {
	return MustNew(FallbackKey, defaultTiers...)
}

// Tiers returns a copy of the tiers in display order.
func (d *Definition) Tiers() []Tier {
	out := make([]Tier, len(d.tiers))
	copy(out, d.tiers)
	return out
}

// Len returns the number of tiers.
func (d *Definition) Len() int { return len(d.tiers) }

// Fallback returns the key of the fallback tier.
func (d *Definition) Fallback() string { return d.fallback }

// Resolve maps a submitted rank to a tier key. Matching is case-insensitive;
// unknown values resolve to the fallback tier.
func (d *Definition) Resolve(rank string) string {
	key := strings.ToUpper(rank)
	if _, ok := d.index[key]; ok {
		return key
	}
	return d.fallback
}

// Lookup returns the tier with the given key.
func (d *Definition) Lookup(key string) (Tier, bool) {
	i, ok := d.index[strings.ToUpper(key)]
	if !ok {
		return Tier{}, false
	}
	return d.tiers[i], true
}

// ParseColor parses "#rrggbb" (the leading '#' is optional).
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return rgb(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

func rgb(r, g, b uint8) color.RGBA { return color.RGBA{R: r, G: g, B: b, A: 0xff} }
