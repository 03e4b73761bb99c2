package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/lesscache/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the build info store and, optionally, the CSS caches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, _ := cmd.Flags().GetBool("store")
			outputs, _ := cmd.Flags().GetBool("outputs")
			return c.app.Clean(cmd.Context(), app.CleanOptions{
				ConfigPath: configPath(cmd),
				Store:      store,
				Outputs:    outputs,
			})
		},
	}
	cmd.Flags().Bool("store", true, "Remove the build info store")
	cmd.Flags().Bool("outputs", false, "Remove the compiled CSS files")
	return cmd
}
