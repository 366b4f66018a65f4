package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tierlist/pkg/errors"
	"github.com/matzehuels/tierlist/pkg/observability"
	"github.com/matzehuels/tierlist/pkg/render/collage"
	"github.com/matzehuels/tierlist/pkg/render/collage/sink"
	"github.com/matzehuels/tierlist/pkg/submission"
)

// Runner generates collages. It keeps no per-request state, so one Runner
// can serve concurrent requests; each request is processed sequentially.
type Runner struct {
	Renderer *collage.Renderer
	Format   sink.Format
	Logger   *log.Logger
}

// NewRunner creates a runner. An empty format selects PNG and a nil logger
// selects log.Default().
func NewRunner(r *collage.Renderer, format sink.Format, logger *log.Logger) *Runner {
	if format == "" {
		format = sink.FormatPNG
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Renderer: r, Format: format, Logger: logger}
}

// GenerateCollage renders and encodes the collage for sub. Covers are cached
// under namespace; an empty namespace uses the shared cache.
func (r *Runner) GenerateCollage(ctx context.Context, sub submission.Submission, namespace string) (result *Result, err error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	tiles := len(sub.Ranks)
	start := time.Now()
	hooks.OnCollageStart(ctx, tiles)
	defer func() {
		fallbacks := 0
		if result != nil {
			fallbacks = result.Stats.Fallbacks
		}
		hooks.OnCollageComplete(ctx, tiles, fallbacks, time.Since(start), err)
	}()

	c, err := r.Renderer.Render(ctx, sub, namespace)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render collage")
	}
	renderTime := time.Since(start)
	for _, t := range c.Tiles {
		hooks.OnCoverResolved(ctx, t.Source.String())
	}

	encodeStart := time.Now()
	data, err := sink.EncodeBytes(c.Image, r.Format)
	if err != nil {
		return nil, err
	}

	stats := tally(c)
	stats.RenderTime = renderTime
	stats.EncodeTime = time.Since(encodeStart)

	r.Logger.Info("generated collage",
		"tiles", stats.Tiles,
		"fallbacks", stats.Fallbacks,
		"cached", stats.Cached,
		"fetched", stats.Fetched,
		"size", len(data),
		"duration", stats.RenderTime+stats.EncodeTime)

	return &Result{Data: data, Format: r.Format, Collage: c, Stats: stats}, nil
}
