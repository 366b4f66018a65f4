// Package pipeline turns a tier list submission into an encoded collage.
//
// It is the single entry point shared by the HTTP server and the CLI:
//
//  1. Validate: a submission without ranks fails fast with NO_RANKS.
//  2. Render: bucket items, fetch covers and draw the canvas ([collage]).
//  3. Encode: write the canvas losslessly in the configured format ([sink]).
//
// Cover problems never fail a run; they show up as fallback tiles and in
// [Stats]. Encoding failures do.
//
// # Usage
//
//	store, _ := cache.NewStore(dir)
//	fetcher := httputil.NewFetcher(store)
//	runner := pipeline.NewRunner(collage.New(fetcher), sink.FormatPNG, logger)
//	result, err := runner.GenerateCollage(ctx, sub, namespace)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("tier_list.png", result.Data, 0o644)
//
// [collage]: github.com/matzehuels/tierlist/pkg/render/collage
// [sink]: github.com/matzehuels/tierlist/pkg/render/collage/sink
package pipeline

import (
	"time"

	"github.com/matzehuels/tierlist/pkg/httputil"
	"github.com/matzehuels/tierlist/pkg/render/collage"
	"github.com/matzehuels/tierlist/pkg/render/collage/sink"
)

// Result holds an encoded collage and what went into it.
type Result struct {
	Data    []byte
	Format  sink.Format
	Collage *collage.Collage
	Stats   Stats
}

// Stats summarizes a run.
type Stats struct {
	Tiles      int
	Fallbacks  int
	Cached     int // covers read from the namespace cache
	Fetched    int // covers downloaded during this run
	Width      int
	Height     int
	RenderTime time.Duration
	EncodeTime time.Duration
}

func tally(c *collage.Collage) Stats {
	s := Stats{Tiles: len(c.Tiles), Width: c.Width(), Height: c.Height()}
	for _, t := range c.Tiles {
		switch {
		case t.Fallback:
			s.Fallbacks++
		case t.Source == httputil.SourceCache:
			s.Cached++
		case t.Source == httputil.SourceNetwork:
			s.Fetched++
		}
	}
	return s
}
