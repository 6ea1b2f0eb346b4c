// pkg/core/load.go
package core

import (
	"bytes"
	"fmt"
	"os"

	"github.com/joeydtaylor/frontctl/pkg/manifest"
	toml "github.com/pelletier/go-toml/v2"
)

// LoadConfig reads, decodes and validates a manifest file.
func LoadConfig(path string) (manifest.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return manifest.Config{}, err
	}
	return ParseConfig(b)
}

// ParseConfig decodes a manifest from memory. Unknown keys are rejected so
// that typos in the manifest surface at startup.
func ParseConfig(b []byte) (manifest.Config, error) {
	var cfg manifest.Config
	dec := toml.NewDecoder(bytes.NewReader(b)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return manifest.Config{}, fmt.Errorf("manifest decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return manifest.Config{}, err
	}
	return cfg, nil
}
