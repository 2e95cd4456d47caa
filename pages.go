package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/TwIStOy/external-widget.nvim/internal/errmsg"
	"github.com/TwIStOy/external-widget.nvim/internal/pages"
)

// statusRows is the number of rows the pager keeps free for its status line.
const statusRows = 1

func newPagesCmd(flags *globalFlags) *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "pages FILE",
		Short: "Page through a tall image one screen at a time",
		Long:  "Split an image into screen-sized pages and browse them with n/p, q to quit.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPages(cmd.Context(), *flags, args[0], noCache)
		},
	}
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "do not read or write the page cache")
	return cmd
}

func runPages(ctx context.Context, flags globalFlags, path string, noCache bool) error {
	a, err := openApp(ctx, flags)
	if err != nil {
		return err
	}
	defer a.Close()

	width, height, err := a.viewport(1, 1, statusRows)
	if err != nil {
		return err
	}

	var cache *pages.Cache
	if a.cfg.CacheEnabled() && !noCache {
		if cache, err = pages.NewCache(a.cfg.CacheDir()); err != nil {
			a.log.Warn().Err(err).Str("dir", a.cfg.CacheDir()).Msg("page cache disabled")
		}
	}

	pngs, err := pages.NewSplitter(cache).File(path, width, height)
	if err != nil && pngs == nil {
		return errmsg.ErrorWith(errmsg.OpPagesSplit, path, err)
	}
	if err != nil {
		a.log.Warn().Msg(errmsg.FormatWith(errmsg.OpPagesCache, path, err))
	}

	set, err := a.sess.AddImageSet(pngs)
	if err != nil {
		return errmsg.Error(errmsg.OpPagesSplit, err)
	}
	a.log.Info().
		Str("file", path).
		Int("pages", len(pngs)).
		Int("width", width).
		Int("height", height).
		Msg("pages ready")

	a.sess.SetAnchor(1, 1)
	p := tea.NewProgram(newPager(ctx, a.sess, set, len(pngs)), tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := p.Run()

	if err := a.sess.DeleteImageSet(set, true); err != nil {
		a.log.Warn().Err(err).Msg("delete pages")
	}
	return runErr
}
