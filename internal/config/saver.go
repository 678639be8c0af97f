package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// SaveUI writes the ui section to the config file at path (the default
// location when empty). Every other key in the file is kept as is, so
// flag and environment overrides never end up on disk.
func SaveUI(path string, ui UIConfig) error {
	return saveSections(path, map[string]any{"ui": ui})
}

// saveSections replaces the given top-level keys and preserves the rest.
func saveSections(path string, sections map[string]any) error {
	if path == "" {
		path = ConfigPath()
	}
	if path == "" {
		return errors.New("config: no config path")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	doc := make(map[string]json.RawMessage)
	if data, err := os.ReadFile(path); err == nil && len(data) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
	}

	for key, v := range sections {
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		doc[key] = raw
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
