package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/chazu/waffle/pkg/kernel"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "WAFFLE"

var defaults = map[string]any{
	"log.level":         "info",
	"log.format":        "text",
	"kernel.name":       "polyhedron",
	"kernel.mesh_cells": 200,
	"run.tolerance":     kernel.DefaultTolerance,
	"run.workers":       0,
	"run.timeout":       "0s",
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
	"kernel":     "kernel.name",
	"mesh-cells": "kernel.mesh_cells",
	"tolerance":  "run.tolerance",
	"workers":    "run.workers",
	"timeout":    "run.timeout",
}

// RegisterFlags adds the configuration flags, including --config, to fs.
// Flag defaults are left empty so that only flags the user sets override
// the file and environment.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML config file (default ./waffle.yaml if present)")
	fs.String("log-level", "", "log level: debug, info, warn or error")
	fs.String("log-format", "", "log format: text or json")
	fs.String("kernel", "", "geometry kernel: sdfx or polyhedron")
	fs.Int("mesh-cells", 0, "sdfx sampling cells along the longest side")
	fs.Float64("tolerance", 0, "default geometric tolerance")
	fs.Int("workers", 0, "default worker count, 0 for GOMAXPROCS")
	fs.Duration("timeout", 0, "per-job time limit, 0 for none")
}

// Load reads configuration from defaults, the config file, the environment
// and any flags in fs that were set. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if err := readConfigFile(v, fs); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			f := fs.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding flag --%s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// readConfigFile reads the file named by --config, or waffle.yaml from
// the working directory when it exists.
func readConfigFile(v *viper.Viper, fs *pflag.FlagSet) error {
	var path string
	if fs != nil {
		path, _ = fs.GetString("config")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("waffle")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	return nil
}
