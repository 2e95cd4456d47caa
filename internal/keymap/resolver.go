package keymap

import "strings"

// Resolver maps key strings to actions.
type Resolver struct {
	bindings []Binding
	byKey    map[string]Action
}

// NewResolver creates a resolver from bindings. A key bound twice resolves
// to its first binding.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		bindings: bindings,
		byKey:    make(map[string]Action),
	}
	for _, b := range bindings {
		for _, key := range b.Keys {
			if _, ok := r.byKey[key]; !ok {
				r.byKey[key] = b.Action
			}
		}
	}
	return r
}

// Resolve returns the action for a key, or empty string if not bound.
func (r *Resolver) Resolve(key string) Action {
	return r.byKey[key]
}

// KeysFor returns the keys bound to an action.
func (r *Resolver) KeysFor(action Action) []string {
	var keys []string
	for _, b := range r.bindings {
		if b.Action == action {
			keys = append(keys, b.Keys...)
		}
	}
	return keys
}

// Help renders the first key of every binding with its label, e.g.
// "n next · p previous · q quit".
func (r *Resolver) Help() string {
	parts := make([]string, 0, len(r.bindings))
	for _, b := range r.bindings {
		if len(b.Keys) == 0 {
			continue
		}
		parts = append(parts, b.Keys[0]+" "+b.Help)
	}
	return strings.Join(parts, " · ")
}
