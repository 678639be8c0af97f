package plugin

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/eureka/internal/config"
	"github.com/marcus/eureka/internal/keymap"
)

// Plugin defines the interface for a screen hosted by the app.
type Plugin interface {
	ID() string
	Name() string
	Init(ctx *Context) error
	Start() tea.Cmd
	Stop()
	Update(msg tea.Msg) (Plugin, tea.Cmd)
	View(width, height int) string
	Commands() []Command
	FocusContext() string
}

// TextInputConsumer is an optional capability for plugins that need
// printable keys forwarded as typed text instead of being intercepted by
// app-level shortcuts.
type TextInputConsumer interface {
	ConsumesTextInput() bool
}

// Context carries shared dependencies into a plugin.
type Context struct {
	Config *config.Config
	// ConfigPath is where UI preferences are saved; "" is the default location.
	ConfigPath string
	Keymap     *keymap.Registry
	Logger     *slog.Logger
}

// Category represents a logical grouping of commands.
type Category string

const (
	CategoryNavigation Category = "Navigation"
	CategoryActions    Category = "Actions"
	CategoryView       Category = "View"
	CategorySearch     Category = "Search"
	CategoryEdit       Category = "Edit"
)

// Command represents a keybinding command exposed by a plugin.
type Command struct {
	ID          string   // Unique identifier (e.g., "delete-note")
	Name        string   // Short name for footer (e.g., "Delete")
	Description string   // Full description
	Category    Category // Logical grouping
	Context     string   // Activation context
	Priority    int      // Footer display priority: 1=highest, 0=default (treated as 99)
}
