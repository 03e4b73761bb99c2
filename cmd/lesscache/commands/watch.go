package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/lesscache/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [stylesheets...]",
		Short: "Recompile stylesheets whenever a LESS file changes",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			jobs, _ := cmd.Flags().GetInt("jobs")
			ui, _ := cmd.Flags().GetBool("ui")
			return c.app.Watch(cmd.Context(), args, app.Options{
				ConfigPath: configPath(cmd),
				Force:      force,
				Jobs:       jobs,
				UI:         ui,
			})
		},
	}
	cmd.Flags().BoolP("force", "f", false, "Recompile everything once on start")
	cmd.Flags().IntP("jobs", "j", 1, "Number of stylesheets compiled in parallel")
	cmd.Flags().Bool("ui", false, "Show a live terminal view")
	return cmd
}
