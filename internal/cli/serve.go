package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tierlist/internal/server"
	"github.com/matzehuels/tierlist/pkg/bundle"
	"github.com/matzehuels/tierlist/pkg/observability"
)

const shutdownTimeout = 10 * time.Second

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Long: `Run the HTTP service.

POST /generate-rank-image renders a submission and stores a downloadable ZIP
bundle; GET /download/{token} serves it. POST /collage returns the image
directly. Metrics are exposed on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.settings().Addr = addr
			}
			return c.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func (c *CLI) serve(ctx context.Context) error {
	logger := loggerFromContext(ctx)
	cfg := c.settings()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom, err := observability.NewPrometheus(reg)
	if err != nil {
		return err
	}
	observability.SetPipelineHooks(prom)
	observability.SetCacheHooks(prom)
	observability.SetHTTPHooks(prom)
	defer observability.Reset()

	store, err := c.newStore()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(store, logger)
	if err != nil {
		return err
	}
	bundles, err := bundle.NewStore(cfg.GeneratedDir)
	if err != nil {
		return err
	}

	srv := server.New(server.Options{
		Runner:          runner,
		Bundles:         bundles,
		Logger:          logger,
		NamespaceHeader: cfg.NamespaceHeader,
		MaxFormBytes:    cfg.MaxFormBytes,
		Gatherer:        reg,
	}).HTTPServer(cfg.Addr)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "cache", store.Root(), "generated", bundles.Dir())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
