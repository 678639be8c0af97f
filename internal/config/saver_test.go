package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveUI_PreservesOtherKeys(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	// Keys SaveUI does not own, including a storage section.
	initial := []byte(`{
  "templates": [
    {"name": "Standup", "body": "yesterday / today / blockers"}
  ],
  "storage": {"backend": "bbolt", "path": "/tmp/kept.bolt"},
  "customKey": "should survive"
}`)
	if err := os.WriteFile(path, initial, 0644); err != nil {
		t.Fatal(err)
	}

	if err := SaveUI(path, UIConfig{ShowFooter: true, ShowPreview: false, Theme: "light"}); err != nil {
		t.Fatalf("SaveUI failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal saved config: %v", err)
	}
	for _, key := range []string{"templates", "customKey", "storage", "ui"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("saved config is missing %q", key)
		}
	}

	var templates []map[string]interface{}
	if err := json.Unmarshal(raw["templates"], &templates); err != nil {
		t.Fatalf("unmarshal templates: %v", err)
	}
	if len(templates) != 1 || templates[0]["name"] != "Standup" {
		t.Errorf("templates = %v", templates)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.Storage.Backend != "bbolt" || loaded.Storage.Path != "/tmp/kept.bolt" {
		t.Errorf("storage changed: %+v", loaded.Storage)
	}
	if loaded.UI.ShowPreview || loaded.UI.Theme != "light" {
		t.Errorf("ui = %+v", loaded.UI)
	}
}

func TestSaveUI_DoesNotPersistOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	t.Setenv(EnvDBPath, "/tmp/from-env.db")
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg.UI.ShowPreview = false
	if err := SaveUI(path, cfg.UI); err != nil {
		t.Fatalf("SaveUI failed: %v", err)
	}

	t.Setenv(EnvDBPath, "")
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Storage.Path == "/tmp/from-env.db" {
		t.Error("environment override was written to the config file")
	}
	if loaded.UI.ShowPreview {
		t.Error("showPreview should be saved as false")
	}
}

func TestSaveUI_DefaultPath(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	SetTestConfigPath(path)
	defer ResetTestConfigPath()

	if err := SaveUI("", UIConfig{ShowFooter: false, ShowPreview: true, Theme: "dark"}); err != nil {
		t.Fatalf("SaveUI failed: %v", err)
	}
	loaded, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.UI.ShowFooter {
		t.Error("showFooter should be saved as false")
	}
}
