package domain

import "time"

// Request describes a single LESS compilation.
type Request struct {
	// Name identifies the request in the build info store. It defaults to the source path.
	Name string
	// Source is the LESS entry point, absolute or relative to the project root.
	Source string
	// Output is the CSS cache file. It defaults to DefaultOutputPath(Source).
	Output string
	// Monitor lists extra files whose modification invalidates the cache.
	Monitor []string
	// MonitorDir is scanned recursively for files whose modification invalidates the cache.
	MonitorDir string
	// Options are forwarded to the compiler untouched.
	Options ParserOptions
	// Vars override LESS variables of the stylesheet.
	Vars Variables
	// Force skips the freshness check.
	Force bool
}

// Key returns the name under which the request is recorded.
func (r *Request) Key() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Source
}

// Result is the outcome of a compile request.
type Result struct {
	Name      string
	Source    string
	Output    string
	SourceURL string
	OutputURL string
	CSS       string
	// Version is the hash of CSS, used to version OutputURL.
	Version string
	// Compiled reports whether the compiler ran. It is false when the cache was served.
	Compiled bool
}

// Status reports the freshness of a request without compiling it.
type Status struct {
	Name     string
	Source   string
	Output   string
	Decision Decision
	// Sources is the number of files that contributed to the decision.
	Sources   int
	CheckedAt time.Time
}

// CompileJob is the unit of work handed to the compiler.
type CompileJob struct {
	// Executable names the compiler binary. Empty means DefaultCompiler.
	Executable string
	// Source is the absolute path of the LESS entry point.
	Source string
	// Dir is the working directory of the compiler, usually the project root.
	Dir string
	// Options are forwarded to the compiler.
	Options ParserOptions
	// Vars are passed as --modify-var flags after the options.
	Vars Variables
	// Env overrides entries of the compiler's process environment.
	Env map[string]string
}

// Args returns the compiler arguments: options, variables, then the source.
func (j CompileJob) Args() []string {
	args := append(j.Options.Args(), j.Vars.Args()...)
	return append(args, j.Source)
}
