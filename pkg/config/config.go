// Package config loads tierlist settings.
//
// Settings are layered, lowest precedence first:
//
//  1. defaults ([Default])
//  2. a TOML file, if a path is given or TIERLIST_CONFIG is set
//  3. environment variables with the TIERLIST_ prefix
//
// Command-line flags are applied on top by the CLI.
//
// Example file:
//
//	addr = ":8080"
//	cache_dir = "/var/cache/tierlist"
//	fetch_timeout = "8s"
//	format = "png"
//
//	fallback_tier = "F"
//
//	[[tiers]]
//	key = "S"
//	label = "S - Masterpiece"
//	color = "#ff7f7f"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tierlist/pkg/errors"
	"github.com/matzehuels/tierlist/pkg/httputil"
	"github.com/matzehuels/tierlist/pkg/render/collage/sink"
	"github.com/matzehuels/tierlist/pkg/tiers"
)

const appName = "tierlist"

// Config holds all runtime settings.
type Config struct {
	Addr            string   `toml:"addr" koanf:"addr"`
	CacheDir        string   `toml:"cache_dir" koanf:"cache_dir"`
	GeneratedDir    string   `toml:"generated_dir" koanf:"generated_dir"`
	FetchTimeout    Duration `toml:"fetch_timeout" koanf:"fetch_timeout"`
	Format          string   `toml:"format" koanf:"format"`
	NamespaceHeader string   `toml:"namespace_header" koanf:"namespace_header"`
	LogLevel        string   `toml:"log_level" koanf:"log_level"`
	MaxFormBytes    int64    `toml:"max_form_bytes" koanf:"max_form_bytes"`
	UserAgent       string   `toml:"user_agent" koanf:"user_agent"`

	// Tiers replaces the default tier definition when non-empty.
	Tiers        []Tier `toml:"tiers" koanf:"tiers"`
	FallbackTier string `toml:"fallback_tier" koanf:"fallback_tier"`
}

// Tier is one configured tier.
type Tier struct {
	Key   string `toml:"key" koanf:"key"`
	Label string `toml:"label" koanf:"label"`
	Color string `toml:"color" koanf:"color"`
}

// Duration is a time.Duration read from a string such as "8s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Addr:            ":8080",
		CacheDir:        DefaultCacheDir(),
		GeneratedDir:    "generated",
		FetchTimeout:    Duration{httputil.DefaultTimeout},
		Format:          string(sink.FormatPNG),
		NamespaceHeader: "X-Tierlist-Namespace",
		LogLevel:        "info",
		MaxFormBytes:    1 << 20,
		UserAgent:       httputil.DefaultUserAgent,
		FallbackTier:    tiers.FallbackKey,
	}
}

// DefaultCacheDir returns the cover cache directory following the XDG
// convention (~/.cache/tierlist/covers).
func DefaultCacheDir() string {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName, "covers")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", appName, "covers")
	}
	return filepath.Join(os.TempDir(), appName, "covers")
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return errors.New(errors.ErrCodeInvalidInput, "addr must not be empty")
	case c.CacheDir == "":
		return errors.New(errors.ErrCodeInvalidInput, "cache_dir must not be empty")
	case c.GeneratedDir == "":
		return errors.New(errors.ErrCodeInvalidInput, "generated_dir must not be empty")
	case c.FetchTimeout.Duration <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "fetch_timeout must be positive, got %s", c.FetchTimeout)
	case c.MaxFormBytes <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "max_form_bytes must be positive")
	}
	if _, err := c.ImageFormat(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.TierDefinition(); err != nil {
		return err
	}
	return nil
}

// ImageFormat returns the configured output format.
func (c *Config) ImageFormat() (sink.Format, error) {
	return sink.ParseFormat(c.Format)
}

// Level returns the configured log level.
func (c *Config) Level() (log.Level, error) {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "log_level %q", c.LogLevel)
	}
	return lvl, nil
}

// TierDefinition builds the tier definition: the configured tiers if any,
// otherwise the default eight.
func (c *Config) TierDefinition() (*tiers.Definition, error) {
	if len(c.Tiers) == 0 {
		if c.FallbackTier == "" || c.FallbackTier == tiers.FallbackKey {
			return tiers.Default(), nil
		}
		return tiers.New(c.FallbackTier, tiers.Default().Tiers()...)
	}
	ts := make([]tiers.Tier, 0, len(c.Tiers))
	for _, t := range c.Tiers {
		col, err := tiers.ParseColor(t.Color)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTiers, err, "tier %q color", t.Key)
		}
		ts = append(ts, tiers.Tier{Key: t.Key, Label: t.Label, Color: col})
	}
	fallback := c.FallbackTier
	if fallback == "" {
		fallback = tiers.FallbackKey
	}
	return tiers.New(fallback, ts...)
}
