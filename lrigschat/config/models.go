// lrigschat/config/models.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type modelCatalog struct {
	Models  []string `yaml:"models"`
	Default string   `yaml:"default"`
}

// applyModelsFile overlays an optional models.yaml catalog on top of
// the env-derived model list. A missing file is not an error; a
// malformed one is.
func applyModelsFile(cfg *Config) error {
	if cfg.ModelsFile == "" {
		return nil
	}
	data, err := os.ReadFile(cfg.ModelsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read models file %s: %w", cfg.ModelsFile, err)
	}

	var catalog modelCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return fmt.Errorf("failed to parse models file %s: %w", cfg.ModelsFile, err)
	}
	if len(catalog.Models) > 0 {
		cfg.AvailableModels = catalog.Models
	}
	if catalog.Default != "" {
		cfg.DefaultModel = catalog.Default
	}
	return nil
}
