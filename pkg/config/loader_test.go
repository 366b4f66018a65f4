package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/smartystreets/goconvey/convey"

	"github.com/matzehuels/tierlist/pkg/config"
	"github.com/matzehuels/tierlist/pkg/errors"
	"github.com/matzehuels/tierlist/pkg/render/collage/sink"
)

var envVars = []string{
	"TIERLIST_CONFIG", "TIERLIST_ADDR", "TIERLIST_CACHE_DIR", "TIERLIST_GENERATED_DIR",
	"TIERLIST_FETCH_TIMEOUT", "TIERLIST_FORMAT", "TIERLIST_NAMESPACE_HEADER",
	"TIERLIST_LOG_LEVEL", "TIERLIST_MAX_FORM_BYTES", "TIERLIST_USER_AGENT", "TIERLIST_FALLBACK_TIER",
}

func clearEnv(t *testing.T) {
	for _, name := range envVars {
		if v, ok := os.LookupEnv(name); ok {
			_ = os.Unsetenv(name)
			t.Cleanup(func() { _ = os.Setenv(name, v) })
		}
	}
}

func writeFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "tierlist.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	clearEnv(t)

	convey.Convey("Given a config loader", t, func() {
		convey.Convey("When loading with defaults only", func() {
			cfg, err := config.Load("")

			convey.Convey("Then the built-in settings apply", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.FetchTimeout.Duration, convey.ShouldEqual, 8*time.Second)
				convey.So(cfg.Format, convey.ShouldEqual, "png")
				convey.So(cfg.NamespaceHeader, convey.ShouldEqual, "X-Tierlist-Namespace")
				convey.So(cfg.GeneratedDir, convey.ShouldEqual, "generated")

				def, err := cfg.TierDefinition()
				convey.So(err, convey.ShouldBeNil)
				convey.So(def.Len(), convey.ShouldEqual, 8)
				convey.So(def.Fallback(), convey.ShouldEqual, "F")
			})
		})

		convey.Convey("When loading a TOML file", func() {
			path := writeFile(t, `
addr = ":9090"
cache_dir = "/tmp/covers"
fetch_timeout = "3s"
format = "webp"
log_level = "debug"
fallback_tier = "meh"

[[tiers]]
key = "top"
label = "Top shelf"
color = "#ff7f7f"

[[tiers]]
key = "meh"
label = "Meh"
color = "#cccccc"
`)
			cfg, err := config.Load(path)

			convey.Convey("Then file values override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.CacheDir, convey.ShouldEqual, "/tmp/covers")
				convey.So(cfg.FetchTimeout.Duration, convey.ShouldEqual, 3*time.Second)

				format, _ := cfg.ImageFormat()
				convey.So(format, convey.ShouldEqual, sink.FormatWebP)
				level, _ := cfg.Level()
				convey.So(level, convey.ShouldEqual, log.DebugLevel)
			})

			convey.Convey("Then the configured tiers replace the defaults", func() {
				def, err := cfg.TierDefinition()
				convey.So(err, convey.ShouldBeNil)
				convey.So(def.Len(), convey.ShouldEqual, 2)
				convey.So(def.Fallback(), convey.ShouldEqual, "MEH")
				convey.So(def.Resolve("S"), convey.ShouldEqual, "MEH")
				convey.So(def.Resolve("top"), convey.ShouldEqual, "TOP")
			})
		})

		convey.Convey("When the file path comes from TIERLIST_CONFIG", func() {
			path := writeFile(t, `addr = ":7000"`)
			_ = os.Setenv("TIERLIST_CONFIG", path)
			defer os.Unsetenv("TIERLIST_CONFIG")

			cfg, err := config.Load("")

			convey.Convey("Then that file is read", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7000")
			})
		})

		convey.Convey("When environment variables are set", func() {
			path := writeFile(t, `addr = ":9090"`)
			_ = os.Setenv("TIERLIST_ADDR", ":6000")
			_ = os.Setenv("TIERLIST_FETCH_TIMEOUT", "250ms")
			_ = os.Setenv("TIERLIST_MAX_FORM_BYTES", "4096")
			defer func() {
				_ = os.Unsetenv("TIERLIST_ADDR")
				_ = os.Unsetenv("TIERLIST_FETCH_TIMEOUT")
				_ = os.Unsetenv("TIERLIST_MAX_FORM_BYTES")
			}()

			cfg, err := config.Load(path)

			convey.Convey("Then they take precedence over the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6000")
				convey.So(cfg.FetchTimeout.Duration, convey.ShouldEqual, 250*time.Millisecond)
				convey.So(cfg.MaxFormBytes, convey.ShouldEqual, 4096)
			})
		})

		convey.Convey("When environment values need cleaning or are malformed", func() {
			_ = os.Setenv("TIERLIST_FORMAT", "  webp ")
			defer os.Unsetenv("TIERLIST_FORMAT")

			cfg, err := config.Load("")

			convey.Convey("Then surrounding whitespace is trimmed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Format, convey.ShouldEqual, "webp")
			})

			convey.Convey("Then an unparsable duration is rejected", func() {
				_ = os.Setenv("TIERLIST_FETCH_TIMEOUT", "soon")
				defer os.Unsetenv("TIERLIST_FETCH_TIMEOUT")

				_, err := config.Load("")
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.IsInput(err), convey.ShouldBeTrue)
			})

			convey.Convey("Then a non-numeric form limit is rejected", func() {
				_ = os.Setenv("TIERLIST_MAX_FORM_BYTES", "lots")
				defer os.Unsetenv("TIERLIST_MAX_FORM_BYTES")

				_, err := config.Load("")
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.IsInput(err), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When settings are invalid", func() {
			cases := map[string]string{
				"unknown key":      `colour = "red"`,
				"bad duration":     `fetch_timeout = "soon"`,
				"zero timeout":     `fetch_timeout = "0s"`,
				"bad format":       `format = "gif"`,
				"bad level":        `log_level = "loud"`,
				"missing fallback": "fallback_tier = \"Z\"\n[[tiers]]\nkey = \"A\"\ncolor = \"#000000\"",
				"bad color":        "[[tiers]]\nkey = \"F\"\ncolor = \"red\"",
				"broken toml":      `addr = `,
			}
			for name, content := range cases {
				path := writeFile(t, content)
				_, err := config.Load(path)

				convey.Convey("Then "+name+" is rejected", func() {
					convey.So(err, convey.ShouldNotBeNil)
					convey.So(errors.IsInput(err), convey.ShouldBeTrue)
				})
			}
		})

		convey.Convey("When the file does not exist", func() {
			_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))

			convey.Convey("Then loading fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}
