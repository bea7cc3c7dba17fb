package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// loadConfigFile reads a YAML configuration into cfg. Keys missing from the
// file leave the corresponding fields of cfg untouched, so cfg should hold
// the defaults on entry.
func loadConfigFile(path string, cfg *AnalyzerConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	logf(LogDebug, "Loaded configuration from %s: %+v", path, *cfg)
	return nil
}
