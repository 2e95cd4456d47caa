package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/TwIStOy/external-widget.nvim/internal/errmsg"
	"github.com/TwIStOy/external-widget.nvim/internal/keymap"
	"github.com/TwIStOy/external-widget.nvim/internal/kitty"
	"github.com/TwIStOy/external-widget.nvim/internal/session"
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	pagerKeys = keymap.NewResolver(keymap.Pager)
)

// pageShownMsg reports the end of a render or page change.
type pageShownMsg struct {
	op  errmsg.Op
	err error
}

// pager draws the pages of one image set and flips through them on key
// presses. Graphics go through the session; the view only holds the
// status line.
type pager struct {
	ctx    context.Context
	sess   *session.Session
	set    kitty.ID
	total  int
	index  int
	height int
	err    string
}

func newPager(ctx context.Context, sess *session.Session, set kitty.ID, total int) pager {
	return pager{ctx: ctx, sess: sess, set: set, total: total}
}

func (m pager) run(op errmsg.Op, fn func(context.Context, kitty.ID) error) tea.Cmd {
	ctx, set := m.ctx, m.set
	return func() tea.Msg {
		return pageShownMsg{op: op, err: fn(ctx, set)}
	}
}

func (m pager) Init() tea.Cmd {
	return m.run(errmsg.OpPagesShow, func(ctx context.Context, set kitty.ID) error {
		return m.sess.RenderImageSet(ctx, set, 0, 0)
	})
}

func (m pager) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height

	case tea.KeyMsg:
		switch pagerKeys.Resolve(msg.String()) {
		case keymap.ActionQuit:
			return m, tea.Quit
		case keymap.ActionNextPage:
			return m, m.run(errmsg.OpPagesCycle, m.sess.Next)
		case keymap.ActionPrevPage:
			return m, m.run(errmsg.OpPagesCycle, m.sess.Previous)
		}

	case pageShownMsg:
		m.err = errmsg.Format(msg.op, msg.err)
		if set, ok := m.sess.Images().FindImageSet(m.set); ok {
			m.index = set.Index()
		}
	}
	return m, nil
}

func (m pager) View() string {
	status := statusStyle.Render(fmt.Sprintf("page %d/%d · %s", m.index+1, m.total, pagerKeys.Help()))
	if m.err != "" {
		status = errorStyle.Render(m.err) + statusStyle.Render(" · "+quitHint())
	}
	// Keep the status on the last row; the page is drawn above it.
	return strings.Repeat("\n", max(m.height-statusRows, 0)) + status
}

// quitHint names the keys that leave the pager, e.g. "q/esc/ctrl+c quit".
func quitHint() string {
	return strings.Join(pagerKeys.KeysFor(keymap.ActionQuit), "/") + " quit"
}
