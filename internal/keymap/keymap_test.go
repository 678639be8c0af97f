package keymap

import (
	"reflect"
	"testing"
)

func TestLookup(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	tests := []struct {
		context string
		key     string
		want    string
		ok      bool
	}{
		{ContextList, "d", "delete-note", true},
		{ContextList, "enter", "edit-note", true},
		{ContextForm, "ctrl+s", "submit", true},
		{ContextForm, "q", "quit", true}, // global fallback
		{ContextNotice, "enter", "dismiss", true},
		{ContextForm, "z", "", false},
	}
	for _, tc := range tests {
		got, ok := r.Lookup(tc.context, tc.key)
		if got != tc.want || ok != tc.ok {
			t.Errorf("Lookup(%q, %q) = %q, %v; want %q, %v", tc.context, tc.key, got, ok, tc.want, tc.ok)
		}
	}
}

func TestApplyOverrides(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	unknown := r.ApplyOverrides(map[string]string{
		"x":      "delete-note",
		"ctrl+d": "no-such-command",
	})
	if !reflect.DeepEqual(unknown, []string{"ctrl+d"}) {
		t.Errorf("unknown = %v, want [ctrl+d]", unknown)
	}
	if cmd, _ := r.Lookup(ContextList, "x"); cmd != "delete-note" {
		t.Errorf("override not applied, got %q", cmd)
	}
	if cmd, _ := r.Lookup(ContextList, "d"); cmd != "delete-note" {
		t.Error("default key should still work")
	}
}

func TestBindingsForContextOrder(t *testing.T) {
	r := NewRegistry()
	r.RegisterBinding(Binding{Key: "b", Command: "two", Context: "c"})
	r.RegisterBinding(Binding{Key: "a", Command: "one", Context: "c"})
	r.RegisterBinding(Binding{Key: "b", Command: "three", Context: "c"})

	got := r.BindingsForContext("c")
	want := []Binding{
		{Key: "b", Command: "three", Context: "c"},
		{Key: "a", Command: "one", Context: "c"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BindingsForContext = %v, want %v", got, want)
	}
	if keys := r.KeysForCommand("c", "one"); !reflect.DeepEqual(keys, []string{"a"}) {
		t.Errorf("KeysForCommand = %v", keys)
	}
}
