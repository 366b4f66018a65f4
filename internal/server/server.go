// Package server exposes collage generation over HTTP.
//
// Routes:
//
//	POST /generate-rank-image  form in, JSON with a bundle download URL out
//	GET  /download/{token}     the ZIP bundle
//	POST /collage              form in, encoded image out
//	GET  /healthz              liveness and build info
//	GET  /metrics              Prometheus metrics
//
// Ranked forms use the fields ranks[<id>] (or ranks.<id>), <id>-url and
// <id>-title. The cover cache namespace is taken from a request header.
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/tierlist/pkg/bundle"
	"github.com/matzehuels/tierlist/pkg/pipeline"
)

// DefaultMaxFormBytes bounds request bodies when Options leaves it unset.
const DefaultMaxFormBytes = 1 << 20

// Options configures a Server.
type Options struct {
	Runner  *pipeline.Runner
	Bundles *bundle.Store
	Logger  *log.Logger

	// NamespaceHeader names the header identifying the caller's cache
	// namespace. Requests without it share one namespace.
	NamespaceHeader string
	MaxFormBytes    int64

	// Gatherer serves /metrics; nil disables the route.
	Gatherer prometheus.Gatherer
}

// Server holds the HTTP handlers.
type Server struct {
	runner          *pipeline.Runner
	bundles         *bundle.Store
	logger          *log.Logger
	namespaceHeader string
	maxFormBytes    int64
	gatherer        prometheus.Gatherer
}

// New creates a server.
func New(opts Options) *Server {
	s := &Server{
		runner:          opts.Runner,
		bundles:         opts.Bundles,
		logger:          opts.Logger,
		namespaceHeader: opts.NamespaceHeader,
		maxFormBytes:    opts.MaxFormBytes,
		gatherer:        opts.Gatherer,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.maxFormBytes <= 0 {
		s.maxFormBytes = DefaultMaxFormBytes
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Post("/generate-rank-image", s.handleGenerate)
	r.Get("/download/{token}", s.handleDownload)
	r.Post("/collage", s.handleCollage)
	r.Get("/healthz", s.handleHealth)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// HTTPServer wraps Handler in an http.Server listening on addr. Write
// timeouts leave room for sequential cover downloads.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
