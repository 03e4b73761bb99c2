package domain

import (
	"path/filepath"
	"strings"
)

const (
	// StateDirName is the name of the directory holding lesscache metadata.
	StateDirName = ".lesscache"

	// StoreDirName is the name of the build info store directory.
	StoreDirName = "store"

	// ProjectFileName is the default name of the project configuration file.
	ProjectFileName = "lesscache.yaml"

	// DefaultCompiler is the LESS compiler executable used when none is configured.
	DefaultCompiler = "lessc"

	// SourceExt is the extension of LESS sources. Monitored directories are
	// scanned for files with this extension only.
	SourceExt = ".less"

	// OutputExt is appended to the source path when no output path is configured.
	OutputExt = ".css"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultStorePath returns the default path for the build info store.
// It joins .lesscache and store.
func DefaultStorePath() string {
	return filepath.Join(StateDirName, StoreDirName)
}

// DefaultOutputPath returns the cache path used for a source without an explicit output.
func DefaultOutputPath(source string) string {
	return source + OutputExt
}

// IsCSS reports whether path already names a CSS file, which is served without compiling.
func IsCSS(path string) bool {
	return strings.EqualFold(filepath.Ext(path), OutputExt)
}
