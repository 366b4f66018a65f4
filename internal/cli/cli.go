// Package cli implements the tierlist command-line interface.
//
// Commands:
//   - serve: run the HTTP service
//   - render: build a collage from a saved form submission
//   - cache: inspect and clear the cover cache
//   - version: print build information
//
// Every command reads the layered configuration (defaults, TOML file,
// TIERLIST_* environment) before applying its own flags. Loggers travel
// through context.Context.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tierlist/pkg/buildinfo"
	"github.com/matzehuels/tierlist/pkg/cache"
	"github.com/matzehuels/tierlist/pkg/config"
	"github.com/matzehuels/tierlist/pkg/httputil"
	"github.com/matzehuels/tierlist/pkg/pipeline"
	"github.com/matzehuels/tierlist/pkg/render/collage"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	cfg        *config.Config
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "tierlist",
		Short:             "Tierlist renders ranked items as a tier list collage",
		Long:              `Tierlist turns a ranked submission of items into a single tier list image: one colored band per tier, filled with cover images fetched and cached per caller.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}
	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default $"+config.EnvConfig+")")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and attaches the logger to the context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if c.verbose {
		level = log.DebugLevel
	}
	c.SetLogLevel(level)
	c.cfg = cfg

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// settings returns the loaded configuration, falling back to defaults for
// commands run without setup (tests).
func (c *CLI) settings() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// newStore opens the cover cache.
func (c *CLI) newStore() (*cache.Store, error) {
	return cache.NewStore(c.settings().CacheDir)
}

// newRunner builds the collage pipeline from the configuration.
func (c *CLI) newRunner(store *cache.Store, logger *log.Logger) (*pipeline.Runner, error) {
	cfg := c.settings()
	def, err := cfg.TierDefinition()
	if err != nil {
		return nil, err
	}
	format, err := cfg.ImageFormat()
	if err != nil {
		return nil, err
	}
	fetcher := httputil.NewFetcher(store,
		httputil.WithTimeout(cfg.FetchTimeout.Duration),
		httputil.WithUserAgent(cfg.UserAgent),
		httputil.WithLogger(logger))
	renderer := collage.New(fetcher, collage.WithTiers(def), collage.WithLogger(logger))
	return pipeline.NewRunner(renderer, format, logger), nil
}
