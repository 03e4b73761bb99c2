package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/lesscache/internal/app"
)

func (c *CLI) newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [stylesheets...]",
		Short: "Report whether each CSS cache is fresh, stale or missing",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			privileged, _ := cmd.Flags().GetBool("privileged")
			statuses, err := c.app.Status(cmd.Context(), args, app.Options{
				ConfigPath: configPath(cmd),
				Privileged: privileged,
			})
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "STYLESHEET\tSTATE\tSOURCES\tNEWEST\tCACHED")
			for _, st := range statuses {
				cached := "-"
				if !st.Decision.Cache.ModTime.IsZero() {
					cached = st.Decision.Cache.ModTime.Format(time.RFC3339)
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
					st.Name, st.Decision.State, st.Sources, st.Decision.Newest.Path, cached)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolP("privileged", "p", false, "Rescan monitored directories")
	return cmd
}
