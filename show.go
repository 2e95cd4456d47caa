package main

import (
	"bytes"
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/TwIStOy/external-widget.nvim/internal/errmsg"
	"github.com/TwIStOy/external-widget.nvim/internal/kitty"
	"github.com/TwIStOy/external-widget.nvim/internal/pages"
)

type showOptions struct {
	row, col int
	x, y     uint32
	z        int32
	fit      bool
	id       uint32
}

func newShowCmd(flags *globalFlags) *cobra.Command {
	var opts showOptions

	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Display an image",
		Long: "Display an image at the cursor, or at --row/--col. Non-PNG images are converted;\n" +
			"--fit scales the image down to the visible terminal area.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), *flags, opts, args[0])
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.row, "row", 0, "1-based row to draw at (default: cursor)")
	f.IntVar(&opts.col, "col", 0, "1-based column to draw at (default: cursor)")
	f.Uint32Var(&opts.x, "x", 0, "pixel offset inside the first cell")
	f.Uint32Var(&opts.y, "y", 0, "pixel offset inside the first cell")
	f.Int32Var(&opts.z, "z", 0, "z-index; negative draws below text")
	f.BoolVar(&opts.fit, "fit", false, "scale down to the visible terminal area")
	f.Uint32Var(&opts.id, "id", 0, "terminal image id, for a later delete (default: next free)")
	return cmd
}

func runShow(ctx context.Context, flags globalFlags, opts showOptions, path string) error {
	a, err := openApp(ctx, flags)
	if err != nil {
		return err
	}
	defer a.Close()

	var maxW, maxH int
	if opts.fit {
		if maxW, maxH, err = a.viewport(opts.row, opts.col, 0); err != nil {
			return err
		}
	}

	a.sess.SetAnchor(opts.row, opts.col)
	build := func(context.Context) ([]byte, error) {
		return loadPNG(path, maxW, maxH)
	}
	id := kitty.ID(opts.id)
	if id == 0 {
		id = a.sess.StartImage(ctx, build)
	} else {
		a.sess.StartImageWithID(ctx, id, build)
	}
	if err := a.sess.Wait(); err != nil {
		return errmsg.Error(errmsg.OpImageRead, err)
	}
	if err := a.sess.RenderImage(ctx, id, opts.x, opts.y, opts.z); err != nil {
		return errmsg.Error(errmsg.OpImageShow, err)
	}

	a.log.Info().Str("file", path).Uint32("image", uint32(id)).Msg("image shown")
	return nil
}

// loadPNG reads an image file as PNG, scaled down to maxW x maxH pixels
// when both are positive. PNG files that need no scaling are passed through.
func loadPNG(path string, maxW, maxH int) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the user
	if err != nil {
		return nil, err
	}
	scale := maxW > 0 && maxH > 0
	if pages.IsPNG(data) && !scale {
		return data, nil
	}

	img, err := pages.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if scale {
		if img, err = pages.Fit(img, maxW, maxH); err != nil {
			return nil, err
		}
	}
	return pages.PNG(img)
}
