// Package config provides the project file loader for lesscache.
package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"

	"go.trai.ch/lesscache/internal/core/domain"
	"go.trai.ch/lesscache/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the project file version understood by the loader.
const SupportedVersion = "1"

var validStylesheetNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger   ports.Logger
	FS       FileSystem
	Filename string
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{
		Logger:   logger,
		FS:       NewOSFS(),
		Filename: domain.ProjectFileName,
	}
}

// Load reads the project file at path. A directory is searched upwards for
// the project file name.
func (l *Loader) Load(path string) (*domain.Project, error) {
	configPath, err := l.findConfiguration(path)
	if err != nil {
		return nil, err
	}
	return l.loadProjectfile(configPath)
}

func (l *Loader) findConfiguration(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to resolve config path"), "path", path)
	}

	info, err := l.FS.Stat(abs)
	if err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, err.Error()), "path", abs)
	}
	if !info.IsDir() {
		return abs, nil
	}

	currentDir := abs
	for {
		candidate := filepath.Join(currentDir, l.Filename)
		if fi, statErr := l.FS.Stat(candidate); statErr == nil && !fi.IsDir() {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "no project file in directory or parents"), "cwd", abs)
}

func (l *Loader) loadProjectfile(configPath string) (*domain.Project, error) {
	data, err := l.FS.ReadFile(configPath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "path", configPath)
	}

	var pf Projectfile
	if parseErr := yaml.Unmarshal(data, &pf); parseErr != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, parseErr.Error()), "path", configPath)
	}

	if pf.Version != SupportedVersion {
		l.Logger.Warn(fmt.Sprintf("unsupported version in %s, assuming %q", filepath.Base(configPath), SupportedVersion),
			"version", pf.Version)
	}

	project := domain.NewProject(resolveRoot(configPath, pf.Root))
	project.RootURL = pf.RootURL
	if project.RootURL == "" {
		project.RootURL = "/"
	}
	project.VersionedURLs = pf.VersionedURLs
	if pf.Compiler != "" {
		project.Compiler = pf.Compiler
	}
	project.CompilerEnv = pf.CompilerEnv
	project.Options = domain.ParserOptions(pf.Options)
	project.Vars = domain.Variables(pf.Vars)

	// Map iteration order is random; sort names so validation errors are deterministic.
	names := make([]string, 0, len(pf.Stylesheets))
	for name := range pf.Stylesheets {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		dto := pf.Stylesheets[name]
		if err := validateStylesheetName(name); err != nil {
			return nil, err
		}

		s := buildStylesheet(name, dto)
		if s.Output != "" && s.Output == s.Source {
			return nil, zerr.With(zerr.Wrap(domain.ErrOutputIsSource, "invalid stylesheet"), "stylesheet", name)
		}

		if err := project.AddStylesheet(s); err != nil {
			return nil, err
		}
	}

	l.Logger.Debug("loaded project file", "path", configPath, "stylesheets", len(names))
	return project, nil
}

func buildStylesheet(name string, dto StylesheetDTO) *domain.Stylesheet {
	return &domain.Stylesheet{
		Name:       name,
		Source:     cleanPath(dto.Source),
		Output:     cleanPath(dto.Output),
		Monitor:    canonicalizePaths(dto.Monitor),
		MonitorDir: cleanPath(dto.MonitorDir),
		Options:    domain.ParserOptions(dto.Options),
		Vars:       domain.Variables(dto.Vars),
	}
}

func cleanPath(p string) string {
	if p == "" {
		return ""
	}
	return filepath.Clean(filepath.FromSlash(p))
}

// canonicalizePaths sorts, cleans and deduplicates monitor paths.
func canonicalizePaths(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}

	cleaned := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		cleaned = append(cleaned, cleanPath(p))
	}
	slices.Sort(cleaned)
	return slices.Compact(cleaned)
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}

// validateStylesheetName rejects names that cannot be used on the command line.
func validateStylesheetName(name string) error {
	if !validStylesheetNameRegex.MatchString(name) {
		return zerr.With(zerr.Wrap(domain.ErrInvalidStylesheetName, "invalid stylesheet"), "stylesheet", name)
	}
	return nil
}
