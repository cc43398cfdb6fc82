package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/errors"
)

const (
	// EnvPrefix starts every environment override.
	EnvPrefix = "CLIPFINDER_"
	// EnvConfigFile names a YAML file when no path is passed to Load.
	EnvConfigFile = "CLIPFINDER_CONFIG"
)

// Load builds a Config by layering, lowest precedence first:
//  1. defaults (New())
//  2. the YAML file at path, or at $CLIPFINDER_CONFIG when path is empty
//  3. env vars CLIPFINDER_*, with "__" separating nested keys
//     (CLIPFINDER_STATS__MAX_RPS -> stats.max_rps)
//
// The result is not validated; callers apply flag overrides and then call Validate.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrap(err, errors.ValidationError, "Failed to load config file", errors.ErrInvalidConfig)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, errors.Wrap(err, errors.ValidationError, "Failed to load environment config", errors.ErrInvalidConfig)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrap(err, errors.ValidationError, "Failed to decode config", errors.ErrInvalidConfig)
	}
	return cfg, nil
}
