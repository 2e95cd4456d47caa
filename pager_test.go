package main

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TwIStOy/external-widget.nvim/internal/image"
	"github.com/TwIStOy/external-widget.nvim/internal/kitty/kittytest"
	"github.com/TwIStOy/external-widget.nvim/internal/session"
)

func newTestPager(t *testing.T, pages int) (pager, *kittytest.Recorder) {
	t.Helper()
	rec := kittytest.NewRecorder()
	sess := session.New(rec, image.NewManager(image.WithSettleDelay(0)), zerolog.Nop())
	data := make([][]byte, pages)
	for i := range data {
		data[i] = []byte{byte(i)}
	}
	set, err := sess.AddImageSet(data)
	require.NoError(t, err)
	return newPager(context.Background(), sess, set, pages), rec
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// step feeds msg to m and runs the resulting command, feeding its message
// back in.
func step(t *testing.T, m pager, msg tea.Msg) pager {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(pager)
	if cmd != nil {
		next, _ = m.Update(cmd())
		m = next.(pager)
	}
	return m
}

func TestPager_Cycles(t *testing.T) {
	m, rec := newTestPager(t, 3)

	m = step(t, m, m.Init()())
	assert.Equal(t, 1, rec.Count('p'), "init shows the first page")
	assert.Contains(t, m.View(), "page 1/3")

	m = step(t, m, key("n"))
	assert.Equal(t, 1, m.index)
	assert.Contains(t, m.View(), "page 2/3")

	m = step(t, m, key("p"))
	m = step(t, m, key("p"))
	assert.Equal(t, 2, m.index, "previous wraps around")
	assert.Contains(t, m.View(), "page 3/3")
	assert.Empty(t, m.err)
}

func TestPager_Quit(t *testing.T) {
	m, _ := newTestPager(t, 2)

	for _, k := range []tea.KeyMsg{key("q"), {Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		_, cmd := m.Update(k)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestPager_ShowsErrors(t *testing.T) {
	m, _ := newTestPager(t, 2)

	// Cycling before the first render fails.
	m = step(t, m, key("n"))

	assert.Contains(t, m.View(), "Failed to change page")
	assert.Contains(t, m.View(), "q/esc/ctrl+c quit", "errors still show how to leave")
	assert.Equal(t, 0, m.index)
}

func TestPager_StatusOnLastRow(t *testing.T) {
	m, _ := newTestPager(t, 2)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	view := next.(pager).View()

	assert.Equal(t, 23, strings.Count(view, "\n"))
}
