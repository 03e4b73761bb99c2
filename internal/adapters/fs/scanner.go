package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/lesscache/internal/core/domain"
	"go.trai.ch/lesscache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Scanner = (*Scanner)(nil)

// Scanner reads modification times and lists monitored directories.
type Scanner struct {
	walker  *Walker
	ignores []string
}

// NewScanner creates a new Scanner. Files whose base name matches one of
// ignores are left out of directory scans.
func NewScanner(walker *Walker, ignores ...string) *Scanner {
	return &Scanner{walker: walker, ignores: ignores}
}

// Stat returns the modification time of the file at path.
// A missing file is reported through the boolean, not as an error.
func (s *Scanner) Stat(path string) (domain.Stamp, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return domain.Stamp{Path: path}, false, nil
		}
		return domain.Stamp{}, false, zerr.With(zerr.Wrap(err, "failed to stat file"), "path", path)
	}
	if info.IsDir() {
		return domain.Stamp{}, false, zerr.With(zerr.Wrap(domain.ErrSourceIsDirectory, "failed to stat file"), "path", path)
	}
	return domain.Stamp{Path: path, ModTime: info.ModTime()}, true, nil
}

// ScanDir lists the LESS sources below dir. Other files, such as compiled
// output or temporary files written next to the sources, are skipped.
// A missing directory yields no files.
func (s *Scanner) ScanDir(dir string) ([]string, error) {
	if _, err := os.Stat(dir); errors.Is(err, iofs.ErrNotExist) {
		return nil, nil
	}

	var files []string
	for path, err := range s.walker.WalkFiles(dir, s.ignores) {
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to scan directory"), "dir", dir)
		}
		if !strings.EqualFold(filepath.Ext(path), domain.SourceExt) {
			continue
		}
		files = append(files, path)
	}
	return files, nil
}
