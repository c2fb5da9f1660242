package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog is the on-disk form of a profile registry
type Catalog struct {
	DefaultLabel  string        `yaml:"default_label"`
	GasThresholds GasThresholds `yaml:"gas_thresholds"`
	Profiles      []ItemProfile `yaml:"profiles"`
}

// LoadCatalogFile reads a YAML catalog and builds a registry from it.
// Missing sections fall back to the built-in table.
func LoadCatalogFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	return c.Registry()
}

// Registry builds a registry from the catalog
func (c Catalog) Registry() (*Registry, error) {
	if c.DefaultLabel == "" {
		c.DefaultLabel = DefaultLabel
	}
	if c.GasThresholds == (GasThresholds{}) {
		c.GasThresholds = DefaultGasThresholds
	}
	if len(c.Profiles) == 0 {
		c.Profiles = DefaultProfiles
	}
	return NewRegistry(c.Profiles, c.DefaultLabel, c.GasThresholds)
}
