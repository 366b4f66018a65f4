package collage

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/tierlist/pkg/fonts"
	"github.com/matzehuels/tierlist/pkg/httputil"
	"github.com/matzehuels/tierlist/pkg/render/collage/layout"
	"github.com/matzehuels/tierlist/pkg/submission"
	"github.com/matzehuels/tierlist/pkg/tiers"
)

// Colors and type sizes of the collage.
var (
	Background   = color.RGBA{R: 20, G: 20, B: 20, A: 0xff}
	FallbackFill = color.RGBA{R: 40, G: 40, B: 40, A: 0xff}
	FallbackText = color.RGBA{R: 230, G: 230, B: 230, A: 0xff}
	LabelText    = color.Black
)

const (
	LabelFontSize    = 24.0
	LabelInset       = 12.0
	FallbackFontSize = 18.0

	fallbackTextLeft   = 6
	fallbackTextTop    = 8
	fallbackLineHeight = 20
)

// CoverFetcher resolves a cover URL to an image.
type CoverFetcher interface {
	FetchCover(ctx context.Context, rawURL, namespace string) httputil.Cover
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTiers sets the tier definition (default [tiers.Default]).
func WithTiers(d *tiers.Definition) Option { return func(r *Renderer) { r.tiers = d } }

// WithGeometry overrides the canvas constants.
func WithGeometry(g layout.Geometry) Option { return func(r *Renderer) { r.geometry = g } }

// WithLogger sets the logger for per-tile diagnostics.
func WithLogger(l *log.Logger) Option { return func(r *Renderer) { r.logger = l } }

// Renderer draws collages. It holds no per-request state and may be shared.
type Renderer struct {
	fetcher  CoverFetcher
	tiers    *tiers.Definition
	geometry layout.Geometry
	logger   *log.Logger
}

// New creates a renderer that obtains covers from f.
func New(f CoverFetcher, opts ...Option) *Renderer {
	r := &Renderer{
		fetcher:  f,
		tiers:    tiers.Default(),
		geometry: layout.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	return r
}

// Tile describes one drawn item.
type Tile struct {
	layout.Block
	Tier     string
	Fallback bool
	Lines    []string // text drawn on a fallback tile
	Source   httputil.Source
}

// Collage is a rendered canvas plus a report of what was drawn where.
type Collage struct {
	Image *image.RGBA
	Bands []layout.Band
	Tiles []Tile
}

// Width returns the canvas width.
func (c *Collage) Width() int { return c.Image.Bounds().Dx() }

// Height returns the canvas height.
func (c *Collage) Height() int { return c.Image.Bounds().Dy() }

// Fallbacks counts tiles drawn without a cover.
func (c *Collage) Fallbacks() int {
	n := 0
	for _, t := range c.Tiles {
		if t.Fallback {
			n++
		}
	}
	return n
}

// Render draws the collage for sub, fetching covers in namespace. Items are
// processed one at a time in band order. Only an invalid geometry, a font
// failure or a cancelled context produce an error.
func (r *Renderer) Render(ctx context.Context, sub submission.Submission, namespace string) (*Collage, error) {
	g := r.geometry
	if err := g.Validate(); err != nil {
		return nil, err
	}
	labelFace, err := fonts.Bold(LabelFontSize)
	if err != nil {
		return nil, fmt.Errorf("label font: %w", err)
	}
	defer labelFace.Close()
	textFace, err := fonts.Regular(FallbackFontSize)
	if err != nil {
		return nil, fmt.Errorf("fallback font: %w", err)
	}
	defer textFace.Close()

	bands, height := g.Plan(layout.Buckets(r.tiers, sub.Ranks))

	dc := gg.NewContext(g.CanvasWidth, height)
	dc.SetColor(Background)
	dc.Clear()

	c := &Collage{Bands: bands}
	for _, band := range bands {
		drawLabel(dc, band.Label(g), band.Tier, labelFace)

		flow := g.NewFlow(band.Top)
		for _, id := range band.Items {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("render %s: %w", id, err)
			}
			tile, img := r.tile(ctx, textFace, sub, id, namespace)
			tile.Block = flow.Place(id, img.Bounds().Dx())
			tile.Tier = band.Tier.Key
			dc.DrawImage(img, tile.Left, tile.Top)
			c.Tiles = append(c.Tiles, tile)
		}
		// Wide covers can wrap past the reserved height; the next band
		// still starts where Plan put it.
		if reserved := band.Top + band.Height; len(band.Items) > 0 && flow.Bottom() > reserved {
			r.logger.Debug("band overflows reserved height",
				"tier", band.Tier.Key, "bottom", flow.Bottom(), "reserved", reserved)
		}
	}

	c.Image = dc.Image().(*image.RGBA)
	return c, nil
}

// tile resolves the cover for id and returns the image to place, scaled to
// the tile height, or a fallback tile when no cover is available.
func (r *Renderer) tile(ctx context.Context, face font.Face, sub submission.Submission, id, namespace string) (Tile, image.Image) {
	g := r.geometry
	cover := r.fetcher.FetchCover(ctx, sub.URL(id), namespace)
	if cover.Available() {
		b := cover.Image.Bounds()
		w := g.ScaledWidth(b.Dx(), b.Dy())
		return Tile{Source: cover.Source}, imaging.Resize(cover.Image, w, g.TileHeight, imaging.Lanczos)
	}
	if cover.Reason != nil {
		r.logger.Debug("cover unavailable", "item", id, "reason", cover.Reason)
	}
	lines := layout.FallbackLines(sub.Title(id))
	return Tile{Fallback: true, Lines: lines, Source: httputil.SourceUnavailable},
		FallbackTile(g.FallbackWidth(), g.TileHeight, lines, face)
}

// FallbackTile draws a w×h placeholder with lines written top-down from the
// upper left corner. Text running past the tile edge is clipped.
func FallbackTile(w, h int, lines []string, face font.Face) image.Image {
	dc := gg.NewContext(w, h)
	dc.SetColor(FallbackFill)
	dc.Clear()
	dc.SetFontFace(face)
	dc.SetColor(FallbackText)
	for i, line := range lines {
		y := float64(fallbackTextTop + i*fallbackLineHeight)
		dc.DrawStringAnchored(line, fallbackTextLeft, y, 0, 1)
	}
	return dc.Image()
}

func drawLabel(dc *gg.Context, b layout.Block, t tiers.Tier, face font.Face) {
	dc.SetColor(t.Color)
	dc.DrawRectangle(float64(b.Left), float64(b.Top), float64(b.Width), float64(b.Height))
	dc.Fill()

	text := t.Label
	if text == "" {
		text = t.Key
	}
	dc.SetFontFace(face)
	dc.SetColor(LabelText)
	dc.DrawStringWrapped(text, float64(b.Left)+LabelInset, b.CenterY(), 0, 0.5,
		float64(b.Width)-2*LabelInset, 1.2, gg.AlignLeft)
}
