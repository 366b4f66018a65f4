package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "tierlist"

// Prometheus implements every hook interface on top of Prometheus
// collectors. Register it with SetPipelineHooks, SetCacheHooks and
// SetHTTPHooks.
type Prometheus struct {
	collages        *prometheus.CounterVec
	collageDuration prometheus.Histogram
	collageTiles    prometheus.Histogram
	covers          *prometheus.CounterVec

	cacheEvents *prometheus.CounterVec
	cacheBytes  prometheus.Counter

	httpRequests *prometheus.CounterVec
	httpDuration prometheus.Histogram
	httpErrors   prometheus.Counter
}

// NewPrometheus creates the collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		collages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "collages_total",
			Help:      "Collages generated, by outcome.",
		}, []string{"outcome"}),
		collageDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "collage_duration_seconds",
			Help:      "Time to build and encode one collage.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		collageTiles: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "collage_tiles",
			Help:      "Tiles per collage.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		covers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "covers_total",
			Help:      "Tile covers by source (cached, fetched, unavailable).",
		}, []string{"source"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "events_total",
			Help:      "Cache hits, misses and writes.",
		}, []string{"type", "event"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the image cache.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "fetch",
			Name:      "responses_total",
			Help:      "Cover fetch responses by status code.",
		}, []string{"code"}),
		httpDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "fetch",
			Name:      "duration_seconds",
			Help:      "Cover fetch latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		httpErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "fetch",
			Name:      "errors_total",
			Help:      "Cover fetch transport errors.",
		}),
	}

	for _, c := range []prometheus.Collector{
		p.collages, p.collageDuration, p.collageTiles, p.covers,
		p.cacheEvents, p.cacheBytes,
		p.httpRequests, p.httpDuration, p.httpErrors,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) OnCollageStart(context.Context, int) {}

func (p *Prometheus) OnCollageComplete(_ context.Context, tiles, _ int, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	p.collages.WithLabelValues(outcome).Inc()
	p.collageDuration.Observe(d.Seconds())
	p.collageTiles.Observe(float64(tiles))
}

func (p *Prometheus) OnCoverResolved(_ context.Context, source string) {
	p.covers.WithLabelValues(source).Inc()
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheEvents.WithLabelValues(keyType, "set").Inc()
	p.cacheBytes.Add(float64(size))
}

func (p *Prometheus) OnRequest(context.Context, string, string, string) {}

// Cover hosts come from submitted forms, so they are never used as labels.
func (p *Prometheus) OnResponse(_ context.Context, _, _, _ string, code int, d time.Duration) {
	p.httpRequests.WithLabelValues(strconv.Itoa(code)).Inc()
	p.httpDuration.Observe(d.Seconds())
}

func (p *Prometheus) OnError(context.Context, string, string, string, error) {
	p.httpErrors.Inc()
}

var (
	_ PipelineHooks = (*Prometheus)(nil)
	_ CacheHooks    = (*Prometheus)(nil)
	_ HTTPHooks     = (*Prometheus)(nil)
)
