// Package term owns the connection to the controlling terminal: locating and
// opening its tty, tmux passthrough framing, and terminal size queries.
package term

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	xterm "golang.org/x/term"
)

// Synchronized output mode escapes.
const (
	syncStart = "\x1b[?2026h"
	syncEnd   = "\x1b[?2026l"
)

// ErrNotTerminal is returned by Open when the resolved path is not a terminal.
var ErrNotTerminal = errors.New("not a terminal")

// Multiplexer selects tmux passthrough handling.
type Multiplexer int

const (
	// MultiplexerAuto enables passthrough when running inside tmux.
	MultiplexerAuto Multiplexer = iota
	// MultiplexerTmux always wraps escaped writes for tmux.
	MultiplexerTmux
	// MultiplexerNone never wraps writes.
	MultiplexerNone
)

// ParseMultiplexer parses "auto", "tmux" or "none".
func ParseMultiplexer(s string) (Multiplexer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return MultiplexerAuto, nil
	case "tmux":
		return MultiplexerTmux, nil
	case "none", "off":
		return MultiplexerNone, nil
	}
	return MultiplexerAuto, fmt.Errorf("unknown multiplexer %q", s)
}

// Options configures Open.
type Options struct {
	// TTY is an explicit device path. When empty the tty is looked up:
	// the tmux pane tty inside tmux, otherwise the process's tty.
	TTY         string
	Multiplexer Multiplexer
	// Tmux is the client used for pane lookups. Defaults to NewTmuxClient().
	Tmux   *TmuxClient
	Logger zerolog.Logger
}

// Writer is a buffered handle on the terminal device. It implements
// kitty.Writer. A Writer is not safe for concurrent use.
type Writer struct {
	out    *bufio.Writer
	file   *os.File
	closer io.Closer
	tmux   bool
	tty    string
}

// Open resolves and opens the terminal device for writing. There is no
// reconnect: after a failure the caller opens a new Writer.
func Open(ctx context.Context, opts Options) (*Writer, error) {
	tmux := opts.Multiplexer == MultiplexerTmux ||
		(opts.Multiplexer == MultiplexerAuto && InTmux())

	path := opts.TTY
	explicit := path != ""
	if !explicit {
		var err error
		path, err = lookupTTY(ctx, tmux, opts.Tmux)
		if err != nil {
			return nil, fmt.Errorf("locate tty: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open tty %s: %w", path, err)
	}
	if !explicit && !xterm.IsTerminal(int(f.Fd())) { //nolint:gosec // fd fits in int
		f.Close()
		return nil, fmt.Errorf("open tty %s: %w", path, ErrNotTerminal)
	}

	opts.Logger.Info().Str("tty", path).Bool("tmux", tmux).Msg("terminal writer opened")

	return &Writer{
		out:    bufio.NewWriter(f),
		file:   f,
		closer: f,
		tmux:   tmux,
		tty:    path,
	}, nil
}

// NewWriter wraps an arbitrary io.Writer. tmux enables passthrough framing
// for escaped writes.
func NewWriter(w io.Writer, tmux bool) *Writer {
	tw := &Writer{out: bufio.NewWriter(w), tmux: tmux}
	if c, ok := w.(io.Closer); ok {
		tw.closer = c
	}
	if f, ok := w.(*os.File); ok {
		tw.file = f
		tw.tty = f.Name()
	}
	return tw
}

// WriteAll writes p. When escape is set and the writer runs under tmux,
// p is wrapped in a tmux passthrough envelope.
func (w *Writer) WriteAll(p []byte, escape bool) error {
	var err error
	if escape && w.tmux {
		err = TmuxEscapeWrite(w.out, p)
	} else {
		_, err = w.out.Write(p)
	}
	if err != nil {
		return fmt.Errorf("write tty %s: %w", w.tty, err)
	}
	return nil
}

// Flush hands buffered bytes to the OS. It does not wait for the terminal
// to process them.
func (w *Writer) Flush() error {
	if err := w.out.Flush(); err != nil {
		return fmt.Errorf("flush tty %s: %w", w.tty, err)
	}
	return nil
}

// BeginSync asks the terminal to hold rendering until EndSync.
func (w *Writer) BeginSync() error {
	if err := w.WriteAll([]byte(syncStart), false); err != nil {
		return err
	}
	return w.Flush()
}

// EndSync releases a BeginSync.
func (w *Writer) EndSync() error {
	if err := w.WriteAll([]byte(syncEnd), false); err != nil {
		return err
	}
	return w.Flush()
}

// Size reports the size of the terminal the writer is attached to.
func (w *Writer) Size() (SizeInfo, error) {
	if w.file == nil {
		return SizeInfo{}, ErrNotTerminal
	}
	return SizeOf(int(w.file.Fd())) //nolint:gosec // fd fits in int
}

// TTY returns the device path, empty for wrapped writers.
func (w *Writer) TTY() string { return w.tty }

// Tmux reports whether escaped writes get tmux passthrough framing.
func (w *Writer) Tmux() bool { return w.tmux }

// Close flushes and closes the underlying device.
func (w *Writer) Close() error {
	ferr := w.out.Flush()
	if w.closer == nil {
		return ferr
	}
	if err := w.closer.Close(); err != nil {
		return err
	}
	return ferr
}

func lookupTTY(ctx context.Context, tmux bool, client *TmuxClient) (string, error) {
	if tmux {
		if client == nil {
			client = NewTmuxClient()
		}
		return client.PaneTTY(ctx)
	}

	cmd := exec.CommandContext(ctx, "tty")
	cmd.Stdin = os.Stdin
	out, err := cmd.Output()
	path := strings.TrimSpace(string(out))
	if err != nil || path == "" || !strings.HasPrefix(path, "/") {
		// stdin is not a terminal; the controlling terminal is still reachable.
		return "/dev/tty", nil
	}
	return path, nil
}
