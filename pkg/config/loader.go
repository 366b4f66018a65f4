package config

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/matzehuels/tierlist/pkg/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TIERLIST_"

// EnvConfig names the variable holding the config file path.
const EnvConfig = EnvPrefix + "CONFIG"

// Load builds a Config from defaults, the TOML file at path (or at
// $TIERLIST_CONFIG when path is empty) and TIERLIST_* variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown config key %q in %s", undecoded[0].String(), path)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays TIERLIST_* variables onto cfg. TIERLIST_CACHE_DIR maps
// to the cache_dir key; TIERLIST_CONFIG is consumed by Load and skipped.
func applyEnv(cfg *Config) error {
	k := koanf.New(".")

	provider := env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		if key == EnvConfig {
			return "", nil
		}
		return strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), strings.TrimSpace(value)
	})
	if err := k.Load(provider, nil); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s* environment", EnvPrefix)
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "apply %s* environment", EnvPrefix)
	}
	return nil
}
