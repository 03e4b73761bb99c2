// Package urlmap translates between paths under the project root and public URLs.
package urlmap

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/lesscache/internal/core/domain"
	"go.trai.ch/lesscache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.URLMapper = (*Mapper)(nil)

// Mapper maps the directory root to the public URL base.
type Mapper struct {
	root string
	base *url.URL
}

// New creates a Mapper for root served at rootURL. An empty rootURL means "/".
func New(root, rootURL string) (*Mapper, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve root"), "root", root)
	}

	if rootURL == "" {
		rootURL = "/"
	}
	base, err := url.Parse(rootURL)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid root url"), "root_url", rootURL)
	}
	base.RawQuery = ""
	base.Fragment = ""
	base.RawPath = ""
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	return &Mapper{root: filepath.Clean(absRoot), base: base}, nil
}

// Root returns the absolute file system root.
func (m *Mapper) Root() string {
	return m.root
}

// ToURL returns the public URL of path. Relative paths are taken relative to the root.
func (m *Mapper) ToURL(p string) (string, error) {
	if !filepath.IsAbs(p) {
		p = filepath.Join(m.root, p)
	}
	rel, err := filepath.Rel(m.root, filepath.Clean(p))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", zerr.With(zerr.Wrap(domain.ErrPathOutsideRoot, "cannot map path to url"), "path", p)
	}

	u := *m.base
	if rel != "." {
		u.Path = m.base.Path + filepath.ToSlash(rel)
	}
	return u.String(), nil
}

// ToPath returns the file system path served at rawURL. Both absolute URLs
// and root-relative URLs are accepted. Query strings and fragments are ignored.
func (m *Mapper) ToPath(rawURL string) (string, error) {
	outside := func() error {
		return zerr.With(zerr.Wrap(domain.ErrPathOutsideRoot, "cannot map url to path"), "url", rawURL)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "invalid url"), "url", rawURL)
	}

	if u.Host != "" || u.Scheme != "" {
		if !strings.EqualFold(u.Scheme, m.base.Scheme) || !strings.EqualFold(u.Host, m.base.Host) {
			return "", outside()
		}
	}

	p := u.Path
	if p+"/" == m.base.Path {
		p = m.base.Path
	}
	if !strings.HasPrefix(p, m.base.Path) {
		return "", outside()
	}

	rel := strings.TrimPrefix(p, m.base.Path)
	if rel == "" {
		return m.root, nil
	}
	cleaned := path.Clean(rel)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") || strings.HasPrefix(cleaned, "/") {
		return "", outside()
	}

	return filepath.Join(m.root, filepath.FromSlash(cleaned)), nil
}
