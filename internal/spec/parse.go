package spec

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse decodes a benchmark definition. Unknown fields are rejected so typos
// fail loudly instead of silently dropping configuration.
func Parse(data []byte) (Definition, error) {
	var def Definition
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&def); err != nil {
		return Definition{}, fmt.Errorf("parse definition: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Definition{}, fmt.Errorf("parse definition: multiple YAML documents are not supported")
		}
		return Definition{}, fmt.Errorf("parse definition: %w", err)
	}
	return def, nil
}

// Load reads, parses, and validates a benchmark definition file.
func Load(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("read definition: %w", err)
	}
	def, err := Parse(data)
	if err != nil {
		return Definition{}, err
	}
	Normalize(&def)
	if err := Validate(&def); err != nil {
		return Definition{}, err
	}
	return def, nil
}
