package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <target> [-- args...]",
		Short: "Build an executable target and run it",
		Long: "Build an executable target and run it. Arguments after -- are passed to the program " +
			"instead of the args declared in the manifest.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var programArgs []string
			if dash := cmd.ArgsLenAtDash(); dash >= 0 {
				programArgs = append([]string{}, args[dash:]...)
				args = args[:dash]
			}
			if len(args) != 1 {
				return cmd.Help()
			}

			return c.app.Run(cmd.Context(), app.RunOptions{
				Manifest:   c.settings.Manifest,
				Target:     args[0],
				Args:       programArgs,
				Sequential: c.settings.Sequential,
				Rebuild:    c.settings.Rebuild,
				MetricsOut: c.settings.MetricsOut,
			})
		},
	}
	addRebuildFlag(cmd)
	return cmd
}
