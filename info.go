package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/TwIStOy/external-widget.nvim/internal/config"
	"github.com/TwIStOy/external-widget.nvim/internal/term"
)

var labelStyle = lipgloss.NewStyle().Bold(true).Width(10)

func newInfoCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Report terminal capabilities and configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, logFile, err := loadConfig(*flags)
			if err != nil {
				return err
			}
			defer logFile.Close()

			return writeInfo(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}
}

func writeInfo(ctx context.Context, out io.Writer, cfg *config.Config) error {
	line := func(label, value string) {
		fmt.Fprintln(out, labelStyle.Render(label)+value)
	}

	tty := cfg.Terminal.TTY
	if tty == "" {
		tty = "detected at startup"
	}
	line("tty", tty)
	line("kitty", yesNo(term.KittySupported()))
	line("ssh", yesNo(term.InSSH()))
	line("tmux", tmuxInfo(ctx))
	line("grid", gridInfo())
	line("settle", cfg.SettleDelay().String())
	line("chunk", humanize.IBytes(uint64(cfg.ChunkSize()))) //nolint:gosec // positive by validation
	line("log", fmt.Sprintf("%s (%s)", cfg.LogFile(), cfg.LogLevel()))
	line("cache", cacheInfo(cfg))
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func tmuxInfo(ctx context.Context) string {
	if !term.InTmux() {
		return "no"
	}
	client := term.NewTmuxClient()
	pane, err := client.PaneTTY(ctx)
	if err != nil {
		pane = "unknown pane"
	}
	allowed, err := client.AllowsPassthrough(ctx)
	switch {
	case err != nil:
		return fmt.Sprintf("yes, %s, passthrough unknown: %v", pane, err)
	case !allowed:
		return fmt.Sprintf("yes, %s, passthrough off (set -g allow-passthrough on)", pane)
	}
	return fmt.Sprintf("yes, %s, passthrough on", pane)
}

func gridInfo() string {
	size, err := term.Size()
	if err != nil && size.Cols == 0 {
		return "unknown: " + err.Error()
	}
	grid := fmt.Sprintf("%dx%d cells", size.Cols, size.Rows)
	if errors.Is(err, term.ErrNoPixelSize) {
		return grid + ", pixel size not reported"
	}
	return fmt.Sprintf("%s, %dx%d px, cell %.1fx%.1f px",
		grid, size.ScreenWidth, size.ScreenHeight, size.CellWidth, size.CellHeight)
}

func cacheInfo(cfg *config.Config) string {
	if !cfg.CacheEnabled() {
		return "disabled"
	}
	size, entries, err := dirUsage(cfg.CacheDir())
	if err != nil {
		return fmt.Sprintf("%s (empty)", cfg.CacheDir())
	}
	return fmt.Sprintf("%s (%s in %d entries)", cfg.CacheDir(), humanize.IBytes(uint64(size)), entries) //nolint:gosec // sizes are non-negative
}

// dirUsage returns the total file size below dir and the number of its
// direct subdirectories.
func dirUsage(dir string) (size int64, entries int, err error) {
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && filepath.Dir(path) == dir {
				entries++
			}
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		size += info.Size()
		return nil
	})
	return size, entries, err
}
