package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/TwIStOy/external-widget.nvim/internal/errmsg"
	"github.com/TwIStOy/external-widget.nvim/internal/kitty"
)

func newDeleteCmd(flags *globalFlags) *cobra.Command {
	var hard bool

	cmd := &cobra.Command{
		Use:   "delete ID...",
		Short: "Delete images by id",
		Long: "Remove the placements of the given image ids, e.g. ids passed to show --id.\n" +
			"--hard also frees the image data held by the terminal.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), *flags)
			if err != nil {
				return err
			}
			defer a.Close()

			for _, id := range ids {
				if err := a.sess.DeleteTerminalImage(id, hard); err != nil {
					return errmsg.ErrorWith(errmsg.OpImageDelete, id.String(), err)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&hard, "hard", false, "free the image data too")
	return cmd
}

func parseIDs(args []string) ([]kitty.ID, error) {
	ids := make([]kitty.ID, 0, len(args))
	for _, arg := range args {
		n, err := strconv.ParseUint(arg, 10, 32)
		if err != nil || n == 0 {
			return nil, fmt.Errorf("invalid image id %q", arg)
		}
		ids = append(ids, kitty.ID(n))
	}
	return ids, nil
}
