// Package domain contains the core domain models for LESS compilation and cache freshness.
package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Project is a loaded project file.
type Project struct {
	// Root is the absolute file system root. Relative stylesheet paths are resolved against it.
	Root string
	// RootURL is the public URL under which Root is served.
	RootURL string
	// VersionedURLs appends a content hash to output URLs.
	VersionedURLs bool
	// Compiler is the LESS compiler executable.
	Compiler string
	// Options apply to every stylesheet and are overridden by per-stylesheet options.
	Options ParserOptions
	// Vars apply to every stylesheet and are overridden by per-stylesheet vars.
	Vars Variables
	// CompilerEnv overrides entries of the compiler's process environment.
	CompilerEnv map[string]string

	stylesheets []*Stylesheet
}

// NewProject creates an empty project rooted at root.
func NewProject(root string) *Project {
	return &Project{Root: root, Compiler: DefaultCompiler}
}

// AddStylesheet adds a stylesheet, keeping the list ordered by name.
func (p *Project) AddStylesheet(s *Stylesheet) error {
	if strings.TrimSpace(s.Source) == "" {
		return zerr.With(zerr.Wrap(ErrMissingSource, "invalid stylesheet"), "stylesheet", s.Name)
	}
	i, found := slices.BinarySearchFunc(p.stylesheets, s.Name, func(e *Stylesheet, name string) int {
		return strings.Compare(e.Name, name)
	})
	if found {
		return zerr.With(zerr.Wrap(ErrStylesheetAlreadyExists, "invalid stylesheet"), "stylesheet", s.Name)
	}
	p.stylesheets = slices.Insert(p.stylesheets, i, s)
	return nil
}

// Stylesheets returns all stylesheets ordered by name.
func (p *Project) Stylesheets() []*Stylesheet {
	return p.stylesheets
}

// Stylesheet returns the stylesheet with the given name.
func (p *Project) Stylesheet(name string) (*Stylesheet, error) {
	for _, s := range p.stylesheets {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, zerr.With(zerr.Wrap(ErrStylesheetNotFound, "unknown stylesheet"), "stylesheet", name)
}

// Select returns the named stylesheets, or all of them when names is empty.
func (p *Project) Select(names []string) ([]*Stylesheet, error) {
	if len(names) == 0 {
		return p.stylesheets, nil
	}
	selected := make([]*Stylesheet, 0, len(names))
	for _, name := range names {
		s, err := p.Stylesheet(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, s)
	}
	return selected, nil
}

// Request builds the compile request for s with the project options and vars applied.
func (p *Project) Request(s *Stylesheet) Request {
	req := s.Request()
	req.Options = p.Options.Merge(s.Options)
	req.Vars = p.Vars.Merge(s.Vars)
	return req
}
