// Package commands implements the CLI commands for lesscache.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/lesscache/internal/app"
	"go.trai.ch/lesscache/internal/build"
	"go.trai.ch/lesscache/internal/core/domain"
)

// Verbosity toggles debug logging.
type Verbosity interface {
	SetVerbose(verbose bool)
}

// CLI represents the command line interface for lesscache.
type CLI struct {
	app       *app.App
	verbosity Verbosity
	rootCmd   *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App, verbosity Verbosity) *CLI {
	rootCmd := &cobra.Command{
		Use:           "lesscache",
		Short:         "Compile LESS stylesheets into an mtime-checked CSS cache",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", "", "Project file, or a directory to search for "+domain.ProjectFileName)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	c := &CLI{
		app:       a,
		verbosity: verbosity,
		rootCmd:   rootCmd,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose && c.verbosity != nil {
			c.verbosity.SetVerbose(true)
		}
	}

	rootCmd.AddCommand(c.newCompileCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newURLCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOut redirects command output. Used for testing.
func (c *CLI) SetOut(w io.Writer) {
	c.rootCmd.SetOut(w)
}

func configPath(cmd *cobra.Command) string {
	p, _ := cmd.Flags().GetString("config")
	return p
}
