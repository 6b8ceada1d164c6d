package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [targets...]",
		Short: "Rebuild targets whenever their sources or headers change",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			window, _ := cmd.Flags().GetDuration("debounce")
			return c.app.Watch(cmd.Context(), app.WatchOptions{
				BuildOptions: c.buildOptions(args),
				Window:       window,
			})
		},
	}
	addRebuildFlag(cmd)
	cmd.Flags().Duration("debounce", 0, "Wait this long after the last change before rebuilding")
	return cmd
}
