// Package keymap defines the pager's key bindings.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	ActionQuit     Action = "quit"
	ActionNextPage Action = "next_page"
	ActionPrevPage Action = "prev_page"
)

// Binding maps keys to an action. Help is the short label shown in the
// status line.
type Binding struct {
	Action Action
	Keys   []string
	Help   string
}

// Pager contains the pager bindings in status line order.
var Pager = []Binding{
	{ActionNextPage, []string{"n", "l", "j", "right", "down", "pgdown", " "}, "next"},
	{ActionPrevPage, []string{"p", "h", "k", "left", "up", "pgup"}, "previous"},
	{ActionQuit, []string{"q", "esc", "ctrl+c"}, "quit"},
}
