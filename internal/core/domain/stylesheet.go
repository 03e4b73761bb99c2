package domain

import (
	"maps"
	"slices"
	"strings"
)

// Stylesheet is a named LESS entry point declared in the project file.
type Stylesheet struct {
	Name       string
	Source     string
	Output     string
	Monitor    []string
	MonitorDir string
	Options    ParserOptions
	Vars       Variables
}

// Request converts the stylesheet definition into a compile request.
func (s *Stylesheet) Request() Request {
	return Request{
		Name:       s.Name,
		Source:     s.Source,
		Output:     s.Output,
		Monitor:    slices.Clone(s.Monitor),
		MonitorDir: s.MonitorDir,
		Options:    s.Options.Clone(),
		Vars:       s.Vars.Clone(),
	}
}

// ParserOptions are opaque settings forwarded to the LESS compiler.
// Keys are flag names without the leading dashes.
type ParserOptions map[string]string

// Clone returns a copy of the options.
func (o ParserOptions) Clone() ParserOptions {
	if o == nil {
		return nil
	}
	return maps.Clone(o)
}

// Merge returns a new set of options where the entries of override win over o.
func (o ParserOptions) Merge(override ParserOptions) ParserOptions {
	if len(o) == 0 && len(override) == 0 {
		return nil
	}
	merged := make(ParserOptions, len(o)+len(override))
	maps.Copy(merged, o)
	maps.Copy(merged, override)
	return merged
}

// Args renders the options as command line flags in key order.
// A value of "" or "true" yields a bare flag and "false" drops the flag.
func (o ParserOptions) Args() []string {
	keys := slices.Sorted(maps.Keys(o))
	args := make([]string, 0, len(keys))
	for _, k := range keys {
		name := "--" + strings.TrimLeft(k, "-")
		switch v := o[k]; strings.ToLower(v) {
		case "", "true":
			args = append(args, name)
		case "false":
		default:
			args = append(args, name+"="+v)
		}
	}
	return args
}

// Variables are LESS global variables set from outside the stylesheet, the
// equivalent of lessc's --modify-var. Names are given without the leading @.
type Variables map[string]string

// Clone returns a copy of the variables.
func (v Variables) Clone() Variables {
	if v == nil {
		return nil
	}
	return maps.Clone(v)
}

// Merge returns a new set of variables where the entries of override win over v.
func (v Variables) Merge(override Variables) Variables {
	if len(v) == 0 && len(override) == 0 {
		return nil
	}
	merged := make(Variables, len(v)+len(override))
	maps.Copy(merged, v)
	maps.Copy(merged, override)
	return merged
}

// Args renders one --modify-var flag per variable, in name order.
func (v Variables) Args() []string {
	names := slices.Sorted(maps.Keys(v))
	args := make([]string, 0, len(names))
	for _, name := range names {
		args = append(args, "--modify-var="+strings.TrimPrefix(name, "@")+"="+v[name])
	}
	return args
}
