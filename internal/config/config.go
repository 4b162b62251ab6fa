// Package config loads pipeline settings from diagen.toml. Settings are
// decoded over the defaults, so a config file only needs the keys it
// wants to change.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the config file looked up next to the candidate sources.
const FileName = "diagen.toml"

// Config is the full settings tree.
type Config struct {
	Limits   Limits   `toml:"limits"`
	Render   Render   `toml:"render"`
	Registry Registry `toml:"registry"`
	Pipeline Pipeline `toml:"pipeline"`
}

// Limits bounds candidate size and pipeline effort.
type Limits struct {
	MaxComponents    int  `toml:"max_components"`
	MaxRelationships int  `toml:"max_relationships"`
	MaxAttempts      int  `toml:"max_attempts"`
	ExecTimeoutMS    int  `toml:"exec_timeout_ms"`
	CountClusters    bool `toml:"count_clusters"`
	MaxDiagnostics   int  `toml:"max_diagnostics"`
}

// Render configures the output side.
type Render struct {
	Formats []string `toml:"formats"`
	Engine  string   `toml:"engine"`
	OutDir  string   `toml:"out_dir"`
}

// Registry points at an optional catalog overlay.
type Registry struct {
	Catalog string `toml:"catalog"`
}

// Pipeline holds orchestration settings.
type Pipeline struct {
	// CacheDir enables the report cache when non-empty.
	CacheDir string `toml:"cache_dir"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Limits: Limits{
			MaxComponents:    100,
			MaxRelationships: 200,
			MaxAttempts:      3,
			ExecTimeoutMS:    30000,
			MaxDiagnostics:   64,
		},
		Render: Render{
			Formats: []string{"png"},
			Engine:  "dot",
			OutDir:  "out",
		},
	}
}

// ExecTimeout is the execution deadline as a duration.
func (l Limits) ExecTimeout() time.Duration {
	return time.Duration(l.ExecTimeoutMS) * time.Millisecond
}

// Load decodes path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads dir/diagen.toml when present, defaults otherwise.
func Discover(dir string) (Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

func (c *Config) validate() error {
	if c.Limits.MaxComponents < 0 {
		return fmt.Errorf("limits.max_components must not be negative")
	}
	if c.Limits.MaxRelationships < 0 {
		return fmt.Errorf("limits.max_relationships must not be negative")
	}
	if c.Limits.MaxAttempts < 1 {
		return fmt.Errorf("limits.max_attempts must be at least 1")
	}
	if c.Limits.ExecTimeoutMS < 0 {
		return fmt.Errorf("limits.exec_timeout_ms must not be negative")
	}
	if c.Limits.MaxDiagnostics < 1 {
		return fmt.Errorf("limits.max_diagnostics must be at least 1")
	}
	return nil
}
