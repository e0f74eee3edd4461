package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// decodeFunc turns raw settings-file bytes into the generic key map.
type decodeFunc func([]byte, *map[string]any) error

// decoders maps a settings-file extension to its decoder.
var decoders = map[string]decodeFunc{
	".yaml": func(b []byte, m *map[string]any) error { return yaml.Unmarshal(b, m) },
	".yml":  func(b []byte, m *map[string]any) error { return yaml.Unmarshal(b, m) },
	".json": func(b []byte, m *map[string]any) error { return json.Unmarshal(b, m) },
}

// FromFile reads a settings file, picking the decoder from the file
// extension (.yaml, .yml, or .json).
func FromFile(path string) (Config, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return Config{}, fmt.Errorf("settings file %s: unrecognized extension %q", path, ext)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read settings file: %w", err)
	}

	var m map[string]any
	if err := decode(raw, &m); err != nil {
		return Config{}, fmt.Errorf("decode settings file %s: %w", path, err)
	}
	return New(m), nil
}

// FromYAML decodes YAML settings bytes.
func FromYAML(data []byte) (Config, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("decode yaml settings: %w", err)
	}
	return New(m), nil
}

// FromJSON decodes JSON settings bytes.
func FromJSON(data []byte) (Config, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("decode json settings: %w", err)
	}
	return New(m), nil
}

// LoadSettings reads a settings file and extracts the typed editor
// settings in one step. Missing or malformed keys fall back to
// DefaultSettings values.
func LoadSettings(path string) (Settings, error) {
	c, err := FromFile(path)
	if err != nil {
		return DefaultSettings(), err
	}
	return SettingsFromConfig(c), nil
}
