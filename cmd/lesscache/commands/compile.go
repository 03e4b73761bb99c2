package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.trai.ch/lesscache/internal/app"
	"go.trai.ch/lesscache/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [stylesheets...]",
		Short: "Compile stylesheets whose CSS cache is stale",
		Long: "Compile the named stylesheets of the project file, or all of them.\n" +
			"With --file, compile a single LESS file that need not be declared in the project file.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := compileOptions(cmd)
			printCSS, _ := cmd.Flags().GetBool("print")
			out := cmd.OutOrStdout()

			if file, _ := cmd.Flags().GetString("file"); file != "" {
				if len(args) > 0 {
					return zerr.New("stylesheet names cannot be combined with --file")
				}
				req, err := fileRequest(cmd, file)
				if err != nil {
					return err
				}
				res, err := c.app.CompileFile(cmd.Context(), req, opts)
				if err != nil {
					return err
				}
				return printResults(out, []*domain.Result{res}, nil, printCSS)
			}

			results, err := c.app.Compile(cmd.Context(), args, opts)
			if printErr := printResults(out, results, c.app.Failed(), printCSS); printErr != nil {
				return printErr
			}
			return err
		},
	}
	cmd.Flags().BoolP("force", "f", false, "Recompile even when the cache is fresh")
	cmd.Flags().BoolP("privileged", "p", false, "Rescan monitored directories")
	cmd.Flags().IntP("jobs", "j", 1, "Number of stylesheets compiled in parallel")
	cmd.Flags().Bool("ui", false, "Show a live terminal view")
	cmd.Flags().Bool("print", false, "Write the CSS to stdout instead of a summary")
	cmd.Flags().String("file", "", "Compile a single LESS file")
	cmd.Flags().String("out", "", "Output path for --file (default <file>.css)")
	cmd.Flags().StringArray("monitor", nil, "Extra file invalidating the cache of --file (repeatable)")
	cmd.Flags().String("monitor-dir", "", "Directory invalidating the cache of --file")
	cmd.Flags().StringArray("option", nil, "Compiler option key=value for --file (repeatable)")
	cmd.Flags().StringArray("var", nil, "LESS variable name=value for --file (repeatable)")
	return cmd
}

func compileOptions(cmd *cobra.Command) app.Options {
	force, _ := cmd.Flags().GetBool("force")
	privileged, _ := cmd.Flags().GetBool("privileged")
	jobs, _ := cmd.Flags().GetInt("jobs")
	ui, _ := cmd.Flags().GetBool("ui")
	return app.Options{
		ConfigPath: configPath(cmd),
		Force:      force,
		Privileged: privileged,
		Jobs:       jobs,
		UI:         ui,
	}
}

func fileRequest(cmd *cobra.Command, file string) (domain.Request, error) {
	out, _ := cmd.Flags().GetString("out")
	monitor, _ := cmd.Flags().GetStringArray("monitor")
	monitorDir, _ := cmd.Flags().GetString("monitor-dir")
	rawOptions, _ := cmd.Flags().GetStringArray("option")
	rawVars, _ := cmd.Flags().GetStringArray("var")

	options, err := parseOptions(rawOptions)
	if err != nil {
		return domain.Request{}, err
	}
	vars, err := parseVars(rawVars)
	if err != nil {
		return domain.Request{}, err
	}

	return domain.Request{
		Source:     file,
		Output:     out,
		Monitor:    monitor,
		MonitorDir: monitorDir,
		Options:    options,
		Vars:       vars,
	}, nil
}

// parseOptions turns key=value pairs into parser options. A bare key is a flag.
func parseOptions(raw []string) (domain.ParserOptions, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	options := make(domain.ParserOptions, len(raw))
	for _, kv := range raw {
		k, v, _ := strings.Cut(kv, "=")
		k = strings.TrimSpace(k)
		if k == "" {
			return nil, zerr.With(zerr.New("invalid compiler option"), "option", kv)
		}
		options[k] = v
	}
	return options, nil
}

// parseVars turns name=value pairs into LESS variables.
func parseVars(raw []string) (domain.Variables, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	vars := make(domain.Variables, len(raw))
	for _, kv := range raw {
		k, v, ok := strings.Cut(kv, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, zerr.With(zerr.New("invalid variable, expected name=value"), "var", kv)
		}
		vars[k] = v
	}
	return vars, nil
}

// printResults writes one row per result and per failed stylesheet, or the
// CSS of every result when printCSS is set.
func printResults(w io.Writer, results []*domain.Result, failed []string, printCSS bool) error {
	if printCSS {
		for _, res := range results {
			if res == nil {
				continue
			}
			if _, err := io.WriteString(w, res.CSS); err != nil {
				return err
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, res := range results {
		if res == nil {
			continue
		}
		state := "cached"
		if res.Compiled {
			state = "compiled"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", res.Name, state, res.Output, res.OutputURL)
	}
	for _, name := range failed {
		_, _ = fmt.Fprintf(tw, "%s\tfailed\t\t\n", name)
	}
	return tw.Flush()
}
