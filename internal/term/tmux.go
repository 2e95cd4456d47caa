package term

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

var (
	tmuxOpen  = []byte("\x1bPtmux;")
	tmuxClose = []byte("\x1b\\")
)

// ErrNotInTmux is returned by TmuxClient queries outside a tmux session.
var ErrNotInTmux = errors.New("not running inside tmux")

// AppendTmuxEscape appends p to b wrapped for tmux passthrough: the
// ESC Ptmux; prefix, every ESC byte doubled, and an ESC \ suffix.
func AppendTmuxEscape(b, p []byte) []byte {
	b = append(b, tmuxOpen...)
	for _, c := range p {
		if c == 0x1b {
			b = append(b, 0x1b, 0x1b)
			continue
		}
		b = append(b, c)
	}
	return append(b, tmuxClose...)
}

// TmuxEscapeWrite writes p to w wrapped for tmux passthrough.
func TmuxEscapeWrite(w io.Writer, p []byte) error {
	buf := make([]byte, 0, len(p)+len(tmuxOpen)+len(tmuxClose)+bytes.Count(p, []byte{0x1b}))
	_, err := w.Write(AppendTmuxEscape(buf, p))
	return err
}

// TmuxClient runs queries against the tmux server of the current session.
type TmuxClient struct {
	// tmuxPath allows overriding the default "tmux" binary path.
	tmuxPath string
}

// TmuxOption configures a TmuxClient.
type TmuxOption func(*TmuxClient)

// WithTmuxPath sets a custom path to the tmux binary.
func WithTmuxPath(path string) TmuxOption {
	return func(c *TmuxClient) {
		c.tmuxPath = path
	}
}

// NewTmuxClient creates a client with the given options.
func NewTmuxClient(opts ...TmuxOption) *TmuxClient {
	c := &TmuxClient{tmuxPath: "tmux"}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *TmuxClient) output(ctx context.Context, args ...string) (string, error) {
	if !InTmux() {
		return "", ErrNotInTmux
	}
	out, err := exec.CommandContext(ctx, c.tmuxPath, args...).Output()
	if err != nil {
		return "", fmt.Errorf("tmux %s: %w", args[0], err)
	}
	return string(out), nil
}

// DisplayMessage expands a tmux format variable such as "pane_tty".
func (c *TmuxClient) DisplayMessage(ctx context.Context, name string) (string, error) {
	out, err := c.output(ctx, "display-message", "-p", "#{"+name+"}")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// PaneTTY returns the tty device of the current pane.
func (c *TmuxClient) PaneTTY(ctx context.Context) (string, error) {
	tty, err := c.DisplayMessage(ctx, "pane_tty")
	if err != nil {
		return "", err
	}
	if tty == "" {
		return "", errors.New("tmux reported an empty pane_tty")
	}
	return tty, nil
}

// AllowsPassthrough reports whether tmux forwards passthrough sequences to
// the outer terminal.
func (c *TmuxClient) AllowsPassthrough(ctx context.Context) (bool, error) {
	out, err := c.output(ctx, "show", "-Apv", "allow-passthrough")
	if err != nil {
		return false, err
	}
	return strings.HasSuffix(out, "on\n") || strings.HasSuffix(out, "all\n"), nil
}
