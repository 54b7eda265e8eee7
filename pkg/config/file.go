package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile merges the YAML file at path into the config. The file is how
// the mesh node list and the model routing table are provided; scalar
// fields already set by flags or environment are overridden only if the
// file sets them.
func (c *Config) LoadFile(path string) error {
	f, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	if err := yaml.Unmarshal(f, c); err != nil {
		return fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	return nil
}
