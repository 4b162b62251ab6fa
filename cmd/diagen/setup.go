package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"diagen/internal/config"
	"diagen/internal/driver"
	"diagen/internal/registry"
	"diagen/internal/validate"
)

// loadConfig resolves settings from --config or discovery in the
// current directory.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	return config.Discover(".")
}

func loadRegistry(cfg config.Config) (*registry.Registry, error) {
	if cfg.Registry.Catalog != "" {
		return registry.Load(cfg.Registry.Catalog)
	}
	return registry.Default(), nil
}

// maxDiagnostics prefers the persistent flag over the configured limit.
func maxDiagnostics(cmd *cobra.Command, cfg config.Config) int {
	n, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err == nil && n > 0 {
		return n
	}
	return cfg.Limits.MaxDiagnostics
}

func useColor(cmd *cobra.Command, f *os.File) bool {
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(f))
}

func checkOptions(cmd *cobra.Command, cfg config.Config, reg *registry.Registry, correct bool) driver.Options {
	return driver.Options{
		Registry: reg,
		Limits: validate.Limits{
			MaxComponents:    cfg.Limits.MaxComponents,
			MaxRelationships: cfg.Limits.MaxRelationships,
			CountClusters:    cfg.Limits.CountClusters,
		},
		MaxDiagnostics: maxDiagnostics(cmd, cfg),
		Correct:        correct,
	}
}
