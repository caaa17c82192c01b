// Package yamlcodec provides the canonical YAML embedding of a treefile
// tree: every file-shaped branch is one YAML document whose mappings become
// sub-branches.
package yamlcodec

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const filePerm = 0o644

// Codec implements treefile's codec contract with YAML files.
type Codec struct{}

// LoadFile reads and decodes one YAML file. Decoded mappings come back as
// map[string]any, ready to become branches.
func (Codec) LoadFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("(yaml-codec) failed to read: %w", err)
	}

	var value any
	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("(yaml-codec) failed to decode: %w", err)
	}

	return value, nil
}

// WriteFile encodes a value as one YAML document and writes it to path.
func (Codec) WriteFile(path string, value any) error {
	data, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("(yaml-codec) failed to encode: %w", err)
	}

	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("(yaml-codec) failed to write: %w", err)
	}

	return nil
}
