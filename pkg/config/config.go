// Package config loads srcmap configuration from three layers, lowest
// priority first: built-in defaults, an optional JSON config file
// (srcmap.json), and SRCMAP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultOutput is the index document written next to where srcmap runs.
const DefaultOutput = "repo_structure.json"

// DefaultConfigFile is the config file name looked up in the working
// directory when no explicit --config is given.
const DefaultConfigFile = "srcmap.json"

// Config is the resolved srcmap configuration.
type Config struct {
	// Root is the directory to scan.
	Root string `koanf:"root"`

	// Output is the path of the JSON index document.
	Output string `koanf:"output"`

	// Workers bounds the extraction pool; 0 means one worker per CPU.
	Workers int `koanf:"workers"`

	// IgnoreFile is the name of the ignore file looked up under Root.
	IgnoreFile string `koanf:"ignore_file"`

	Store StoreConfig `koanf:"store"`
}

// StoreConfig configures the optional bbolt record store.
type StoreConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// defaults is the lowest-priority configuration layer.
var defaults = map[string]interface{}{
	"root":          ".",
	"output":        DefaultOutput,
	"workers":       0,
	"ignore_file":   ".srcmapignore",
	"store.enabled": false,
	"store.path":    ".srcmap/records.db",
}

// Load resolves the configuration. path names an explicit config file; when
// empty, srcmap.json in the working directory is used if it exists. A
// missing explicit file is an error, a missing default file is not.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return Config{}, fmt.Errorf("loading defaults: %w", err)
	}

	explicit := path != ""
	if path == "" {
		path = DefaultConfigFile
	}
	if err := k.Load(file.Provider(path), kjson.Parser()); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// SRCMAP_STORE_ENABLED=true → store.enabled, etc.
	err := k.Load(env.Provider(".", env.Opt{
		Prefix: "SRCMAP_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.TrimPrefix(key, "SRCMAP_")
			key = strings.ReplaceAll(strings.ToLower(key), "_", ".")
			// ignore.file is the one two-word key that is not a section.
			if key == "ignore.file" {
				key = "ignore_file"
			}
			return key, value
		},
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// Default returns the built-in configuration without reading any file or
// environment.
func Default() Config {
	return Config{
		Root:       ".",
		Output:     DefaultOutput,
		Workers:    0,
		IgnoreFile: ".srcmapignore",
		Store: StoreConfig{
			Enabled: false,
			Path:    ".srcmap/records.db",
		},
	}
}
