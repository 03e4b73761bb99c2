package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newURLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "url PATH",
		Short: "Translate a file path to its public URL, or back with --reverse",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reverse, _ := cmd.Flags().GetBool("reverse")

			var (
				result string
				err    error
			)
			if reverse {
				result, err = c.app.Path(configPath(cmd), args[0])
			} else {
				result, err = c.app.URL(configPath(cmd), args[0])
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), result)
			return err
		},
	}
	cmd.Flags().BoolP("reverse", "r", false, "Translate a URL to a file path")
	return cmd
}
