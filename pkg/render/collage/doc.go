// Package collage draws tier list collages.
//
// A collage is a dark canvas holding one horizontal band per tier, in tier
// order. Each band starts with a colored label block followed by the covers
// of the items ranked in that tier:
//
//  1. Layout ([layout]): bucket items by tier and reserve band heights.
//  2. Render (this package): fetch covers, scale them to the tile height
//     and flow them across the band; missing covers become text tiles.
//  3. Sink ([sink]): encode the canvas losslessly (PNG or WebP).
//
// Rendering never fails because of a single item: an unreachable, broken or
// undecodable cover degrades to a fallback tile showing the item title.
//
//	r := collage.New(fetcher)
//	c, err := r.Render(ctx, sub, namespace)
//	png, err := sink.Encode(c.Image, sink.FormatPNG)
//
// [layout]: github.com/matzehuels/tierlist/pkg/render/collage/layout
// [sink]: github.com/matzehuels/tierlist/pkg/render/collage/sink
package collage
