//nolint:goconst // test cases intentionally repeat strings for readability
package keymap

import (
	"slices"
	"testing"
)

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(Pager)

	tests := []struct {
		key      string
		expected Action
	}{
		{"n", ActionNextPage},
		{" ", ActionNextPage},
		{"right", ActionNextPage},
		{"p", ActionPrevPage},
		{"pgup", ActionPrevPage},
		{"q", ActionQuit},
		{"ctrl+c", ActionQuit},
		{"x", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := r.Resolve(tt.key); got != tt.expected {
				t.Errorf("Resolve(%q) = %q, want %q", tt.key, got, tt.expected)
			}
		})
	}
}

func TestResolver_FirstBindingWins(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionQuit, []string{"q"}, "quit"},
		{ActionNextPage, []string{"q", "n"}, "next"},
	})

	if got := r.Resolve("q"); got != ActionQuit {
		t.Errorf("Resolve(q) = %q, want %q", got, ActionQuit)
	}
	if got := r.Resolve("n"); got != ActionNextPage {
		t.Errorf("Resolve(n) = %q, want %q", got, ActionNextPage)
	}
}

func TestResolver_KeysFor(t *testing.T) {
	r := NewResolver(Pager)

	keys := r.KeysFor(ActionQuit)
	if !slices.Equal(keys, []string{"q", "esc", "ctrl+c"}) {
		t.Errorf("KeysFor(quit) = %v", keys)
	}
	if keys := r.KeysFor("missing"); len(keys) != 0 {
		t.Errorf("KeysFor(missing) = %v, want empty", keys)
	}
}

func TestResolver_Help(t *testing.T) {
	r := NewResolver(Pager)

	want := "n next · p previous · q quit"
	if got := r.Help(); got != want {
		t.Errorf("Help() = %q, want %q", got, want)
	}
}

func TestPager_NoDuplicateKeys(t *testing.T) {
	seen := make(map[string]Action)
	for _, b := range Pager {
		for _, k := range b.Keys {
			if prev, ok := seen[k]; ok {
				t.Errorf("key %q bound to both %q and %q", k, prev, b.Action)
			}
			seen[k] = b.Action
		}
	}
}
