package main

import (
	"github.com/spf13/cobra"

	"github.com/TwIStOy/external-widget.nvim/internal/errmsg"
)

func newClearCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every image on the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), *flags)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.sess.ClearAll(); err != nil {
				return errmsg.Error(errmsg.OpTerminalClear, err)
			}
			return nil
		},
	}
}
