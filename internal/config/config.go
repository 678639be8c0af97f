package config

import (
	"errors"
	"fmt"
	"strings"
)

// Config is the root configuration structure.
type Config struct {
	Storage StorageConfig `json:"storage"`
	Session SessionConfig `json:"session"`
	Keymap  KeymapConfig  `json:"keymap"`
	UI      UIConfig      `json:"ui"`
}

// StorageConfig selects and locates the note store.
type StorageConfig struct {
	Backend string `json:"backend"` // "sqlite" or "bbolt"
	Path    string `json:"path"`    // database file (supports ~ expansion)
	Driver  string `json:"driver"`  // sqlite only: "sqlite3" (cgo) or "sqlite" (pure Go)
	Watch   bool   `json:"watch"`   // reload the list when another process writes the store
}

// SessionConfig locates the session-scoped UI state mirror.
type SessionConfig struct {
	Dir string `json:"dir"` // "" = system temp dir
	ID  string `json:"id"`  // "" = EUREKA_SESSION_ID env, then parent process
}

// KeymapConfig holds key binding overrides.
type KeymapConfig struct {
	Overrides map[string]string `json:"overrides"`
}

// UIConfig configures UI appearance.
type UIConfig struct {
	ShowFooter  bool   `json:"showFooter"`
	ShowPreview bool   `json:"showPreview"` // markdown preview of the highlighted note
	Theme       string `json:"theme"`       // "dark" or "light"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: "sqlite",
			Path:    "~/.local/share/eureka/eureka.db",
			Driver:  "sqlite3",
			Watch:   true,
		},
		Keymap: KeymapConfig{
			Overrides: make(map[string]string),
		},
		UI: UIConfig{
			ShowFooter:  true,
			ShowPreview: true,
			Theme:       "dark",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case "":
		c.Storage.Backend = "sqlite"
	case "sqlite", "bbolt":
	default:
		return fmt.Errorf("unsupported storage backend %q", c.Storage.Backend)
	}
	switch c.Storage.Driver {
	case "":
		c.Storage.Driver = "sqlite3"
	case "sqlite3", "sqlite":
	default:
		return fmt.Errorf("unsupported sqlite driver %q", c.Storage.Driver)
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		return errors.New("storage path is required")
	}
	if c.UI.Theme == "" {
		c.UI.Theme = "dark"
	}
	if c.Keymap.Overrides == nil {
		c.Keymap.Overrides = make(map[string]string)
	}
	return nil
}
