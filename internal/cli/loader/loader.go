package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/tidwall/sjson"
	"sigs.k8s.io/yaml"
)

// ErrInvalidDescriptor is wrapped by every content error so callers can tell
// a bad file apart from a missing one
var ErrInvalidDescriptor = errors.New("invalid deployment descriptor")

// LoadDescriptor reads a deployment descriptor from disk and returns it as
// JSON. YAML files (.yaml, .yml) are converted. The descriptor is otherwise
// opaque: only well-formedness is checked.
func LoadDescriptor(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("deployment file is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		converted, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse yaml: %v", ErrInvalidDescriptor, err)
		}
		data = converted
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrInvalidDescriptor)
	}
	if !sonic.Valid(data) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidDescriptor)
	}

	return data, nil
}

// ApplyOverrides sets key=value pairs on a descriptor. Keys use dotted paths
// for nested fields. Values that parse as JSON (numbers, booleans, objects)
// are set as-is, anything else is set as a string.
func ApplyOverrides(descriptor []byte, overrides []string) ([]byte, error) {
	out := descriptor
	for _, override := range overrides {
		key, value, ok := strings.Cut(override, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid override %q, expected key=value", override)
		}

		var err error
		if value != "" && sonic.Valid([]byte(value)) {
			out, err = sjson.SetRawBytes(out, key, []byte(value))
		} else {
			out, err = sjson.SetBytes(out, key, value)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to apply override %q: %w", override, err)
		}
	}
	return out, nil
}
