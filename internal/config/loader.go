package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional file, and
// environment variables. Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if TINSEL_CONFIG is set
//  3. env (prefix TINSEL_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("TINSEL_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: TINSEL_ADDR, TINSEL_CAMERA_ID, ...
	// Map env keys like TINSEL_CAMERA_ID -> camera_id (flat keys).
	envProvider := env.Provider("TINSEL_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "tinsel_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.MotionThreshold < 0 || cfg.MotionThreshold > 100 {
		return nil, errors.New("motion_threshold must be between 0 and 100")
	}
	return &cfg, nil
}
