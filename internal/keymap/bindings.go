package keymap

// Focus contexts used by the notes screen.
const (
	ContextGlobal = "global"
	ContextList   = "notes-list"
	ContextForm   = "notes-form"
	ContextSearch = "notes-search"
	ContextNotice = "notice"
)

// DefaultBindings returns the default key bindings.
func DefaultBindings() []Binding {
	return []Binding{
		// Global bindings
		{Key: "q", Command: "quit", Context: ContextGlobal},
		{Key: "ctrl+c", Command: "quit", Context: ContextGlobal},
		{Key: "ctrl+h", Command: "toggle-footer", Context: ContextGlobal},

		// Note list
		{Key: "j", Command: "cursor-down", Context: ContextList},
		{Key: "down", Command: "cursor-down", Context: ContextList},
		{Key: "k", Command: "cursor-up", Context: ContextList},
		{Key: "up", Command: "cursor-up", Context: ContextList},
		{Key: "g", Command: "cursor-top", Context: ContextList},
		{Key: "G", Command: "cursor-bottom", Context: ContextList},
		{Key: "n", Command: "new-note", Context: ContextList},
		{Key: "a", Command: "new-note", Context: ContextList},
		{Key: "e", Command: "edit-note", Context: ContextList},
		{Key: "enter", Command: "edit-note", Context: ContextList},
		{Key: "d", Command: "delete-note", Context: ContextList},
		{Key: "/", Command: "search", Context: ContextList},
		{Key: "y", Command: "yank-description", Context: ContextList},
		{Key: "Y", Command: "yank-title", Context: ContextList},
		{Key: "p", Command: "toggle-preview", Context: ContextList},
		{Key: "r", Command: "refresh", Context: ContextList},
		{Key: "esc", Command: "clear-search", Context: ContextList},

		// Entry panel
		{Key: "ctrl+s", Command: "submit", Context: ContextForm},
		{Key: "tab", Command: "next-field", Context: ContextForm},
		{Key: "shift+tab", Command: "next-field", Context: ContextForm},
		{Key: "esc", Command: "close-form", Context: ContextForm},

		// Title search
		{Key: "enter", Command: "confirm", Context: ContextSearch},
		{Key: "esc", Command: "cancel", Context: ContextSearch},

		// Notice overlay
		{Key: "enter", Command: "dismiss", Context: ContextNotice},
		{Key: "esc", Command: "dismiss", Context: ContextNotice},
	}
}

// RegisterDefaults registers all default bindings with the registry.
func RegisterDefaults(r *Registry) {
	for _, b := range DefaultBindings() {
		r.RegisterBinding(b)
	}
}
