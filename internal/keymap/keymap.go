package keymap

import "sort"

// Binding maps a key to a command within a focus context.
type Binding struct {
	Key     string // tea.KeyMsg.String() form, e.g. "ctrl+s"
	Command string
	Context string
}

// Registry resolves keys to commands per context.
type Registry struct {
	// context -> key -> command
	bindings map[string]map[string]string
	// context -> registration order of keys, for stable footers
	order map[string][]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		bindings: make(map[string]map[string]string),
		order:    make(map[string][]string),
	}
}

// RegisterBinding adds or replaces a binding.
func (r *Registry) RegisterBinding(b Binding) {
	ctx, ok := r.bindings[b.Context]
	if !ok {
		ctx = make(map[string]string)
		r.bindings[b.Context] = ctx
	}
	if _, exists := ctx[b.Key]; !exists {
		r.order[b.Context] = append(r.order[b.Context], b.Key)
	}
	ctx[b.Key] = b.Command
}

// ApplyOverrides binds each key to its command in every context that
// already knows the command. Overrides for unknown commands are returned.
func (r *Registry) ApplyOverrides(overrides map[string]string) []string {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var unknown []string
	for _, key := range keys {
		command := overrides[key]
		matched := false
		for context, ctx := range r.bindings {
			for _, c := range ctx {
				if c == command {
					matched = true
					r.RegisterBinding(Binding{Key: key, Command: command, Context: context})
					break
				}
			}
		}
		if !matched {
			unknown = append(unknown, key)
		}
	}
	return unknown
}

// Lookup returns the command bound to key in context, falling back to the
// global context.
func (r *Registry) Lookup(context, key string) (string, bool) {
	if cmd, ok := r.bindings[context][key]; ok {
		return cmd, true
	}
	cmd, ok := r.bindings[ContextGlobal][key]
	return cmd, ok
}

// BindingsForContext returns the bindings of a context in registration order.
func (r *Registry) BindingsForContext(context string) []Binding {
	ctx := r.bindings[context]
	out := make([]Binding, 0, len(ctx))
	for _, key := range r.order[context] {
		out = append(out, Binding{Key: key, Command: ctx[key], Context: context})
	}
	return out
}

// KeysForCommand returns every key bound to command in context.
func (r *Registry) KeysForCommand(context, command string) []string {
	var keys []string
	for _, b := range r.BindingsForContext(context) {
		if b.Command == command {
			keys = append(keys, b.Key)
		}
	}
	return keys
}
