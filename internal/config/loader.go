package config

import (
	"context"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// Load builds a Config by layering, lowest precedence first:
//  1. defaults (New)
//  2. YAML file named by RANKDB_CONFIG, when set
//  3. environment variables with the RANKDB_ prefix
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv("RANKDB_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "loading config file %s", path)
		}
	}

	// RANKDB_LOG_LEVEL -> log_level and so on; underscores are kept to
	// match the koanf tags on the struct.
	envProvider := env.Provider("RANKDB_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "rankdb_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, errors.Wrap(err, "loading environment")
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if cfg.Addr == "" {
		return nil, errors.Wrap(ErrInvalidConfig, "addr must not be empty")
	}
	if cfg.MaxListLimit < 1 {
		return nil, errors.Wrap(ErrInvalidConfig, "max_list_limit must be positive")
	}
	return &cfg, nil
}
