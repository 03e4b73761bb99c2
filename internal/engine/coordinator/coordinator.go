// Package coordinator decides whether a LESS stylesheet needs compiling and
// serves or refreshes its CSS cache file.
package coordinator

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/lesscache/internal/core/domain"
	"go.trai.ch/lesscache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Builder = (*Coordinator)(nil)

// Site describes the project a coordinator compiles for.
type Site struct {
	// Root is the directory relative paths are resolved against. Empty means the working directory.
	Root string
	// Compiler is the compiler executable. Empty means domain.DefaultCompiler.
	Compiler string
	// CompilerEnv overrides entries of the compiler's process environment.
	CompilerEnv map[string]string
	// VersionedURLs appends ?v=<hash> to output URLs.
	VersionedURLs bool
	// URLs maps paths to public URLs. Nil disables URL mapping.
	URLs ports.URLMapper
}

// Coordinator compiles single requests. It is safe for concurrent use as
// long as concurrent requests write different outputs.
type Coordinator struct {
	compiler   ports.Compiler
	store      ports.BuildInfoStore
	scanner    ports.Scanner
	hasher     ports.Hasher
	authorizer ports.Authorizer
	telemetry  ports.Telemetry
	logger     ports.Logger

	site Site
	now  func() time.Time
}

// New creates a Coordinator bound to the working directory.
func New(
	compiler ports.Compiler,
	store ports.BuildInfoStore,
	scanner ports.Scanner,
	hasher ports.Hasher,
	authorizer ports.Authorizer,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Coordinator {
	return &Coordinator{
		compiler:   compiler,
		store:      store,
		scanner:    scanner,
		hasher:     hasher,
		authorizer: authorizer,
		telemetry:  telemetry,
		logger:     logger,
		now:        time.Now,
	}
}

// ForSite returns a copy of c that compiles for site.
func (c *Coordinator) ForSite(site Site) *Coordinator {
	cp := *c
	cp.site = site
	return &cp
}

// plan is a request with every path resolved.
type plan struct {
	name       string
	root       string
	source     domain.Stamp
	output     string
	monitor    []string
	monitorDir string
	options    domain.ParserOptions
	vars       domain.Variables
	force      bool
	// passthrough marks a CSS source that is served as is.
	passthrough bool
}

// gathered holds the contributing sources of a plan.
type gathered struct {
	stamps    []domain.Stamp
	monitored []string
	scanned   bool
	prev      *domain.BuildInfo
}

// Compile serves the cached CSS of req when it is fresh and compiles it otherwise.
func (c *Coordinator) Compile(ctx context.Context, req domain.Request) (*domain.Result, error) {
	p, err := c.resolve(req)
	if err != nil {
		_, vertex := c.telemetry.Record(ctx, req.Key())
		vertex.Complete(err)
		return nil, err
	}

	ctx, vertex := c.telemetry.Record(ctx, p.name)
	res, err := c.compile(ctx, vertex, p)
	vertex.Complete(err)
	return res, err
}

// Check reports the freshness of req without compiling it.
func (c *Coordinator) Check(ctx context.Context, req domain.Request) (*domain.Status, error) {
	p, err := c.resolve(req)
	if err != nil {
		return nil, err
	}
	g, err := c.gather(ctx, nil, p)
	if err != nil {
		return nil, err
	}
	decision, err := c.decide(p, g)
	if err != nil {
		return nil, err
	}
	return &domain.Status{
		Name:      p.name,
		Source:    p.source.Path,
		Output:    p.output,
		Decision:  decision,
		Sources:   len(g.stamps),
		CheckedAt: c.now(),
	}, nil
}

func (c *Coordinator) compile(ctx context.Context, vertex ports.Vertex, p plan) (*domain.Result, error) {
	g, err := c.gather(ctx, vertex, p)
	if err != nil {
		return nil, err
	}

	decision, err := c.decide(p, g)
	if err != nil {
		return nil, err
	}

	var css []byte
	compiled := false
	if p.passthrough || (decision.Fresh() && !p.force) {
		css, err = os.ReadFile(p.output)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrCacheReadFailed, err.Error()), "path", p.output)
		}
		vertex.Cached()
		if p.passthrough {
			c.logger.Debug("serving css source", "stylesheet", p.name, "source", p.source.Path)
		} else {
			c.logger.Debug("serving cached css", "stylesheet", p.name, "output", p.output)
		}
	} else {
		css, err = c.build(ctx, vertex, p, decision)
		if err != nil {
			return nil, err
		}
		compiled = true
	}

	version := c.hasher.HashBytes(css)
	if compiled || g.scanned {
		c.record(p, g, version, compiled)
	}

	return &domain.Result{
		Name:      p.name,
		Source:    p.source.Path,
		Output:    p.output,
		SourceURL: c.url(p.source.Path, ""),
		OutputURL: c.url(p.output, version),
		CSS:       string(css),
		Version:   version,
		Compiled:  compiled,
	}, nil
}

// resolve validates req and turns its paths into absolute paths. A request
// without monitored files or directory monitors the directory of its source.
func (c *Coordinator) resolve(req domain.Request) (plan, error) {
	root, err := c.root()
	if err != nil {
		return plan{}, err
	}

	if strings.TrimSpace(req.Source) == "" {
		return plan{}, zerr.Wrap(domain.ErrMissingSource, "invalid request")
	}
	source := resolvePath(root, req.Source)
	stamp, exists, err := c.scanner.Stat(source)
	if err != nil {
		return plan{}, err
	}
	if !exists {
		return plan{}, zerr.With(zerr.Wrap(domain.ErrSourceNotFound, "cannot compile"), "path", source)
	}

	name := req.Name
	if name == "" {
		name = source
	}

	if domain.IsCSS(source) {
		return plan{name: name, root: root, source: stamp, output: source, passthrough: true}, nil
	}

	output := domain.DefaultOutputPath(source)
	if req.Output != "" {
		output = resolvePath(root, req.Output)
	}
	if output == source {
		return plan{}, zerr.With(zerr.Wrap(domain.ErrOutputIsSource, "invalid request"), "path", source)
	}

	monitor := make([]string, 0, len(req.Monitor))
	for _, m := range req.Monitor {
		if m != "" {
			monitor = append(monitor, resolvePath(root, m))
		}
	}

	var monitorDir string
	switch {
	case req.MonitorDir != "":
		monitorDir = resolvePath(root, req.MonitorDir)
	case len(monitor) == 0:
		// Without explicit dependencies the imports are assumed to live next to the source.
		monitorDir = filepath.Dir(source)
	}

	return plan{
		name:       name,
		root:       root,
		source:     stamp,
		output:     output,
		monitor:    monitor,
		monitorDir: monitorDir,
		options:    req.Options,
		vars:       req.Vars,
		force:      req.Force,
	}, nil
}

// gather collects the stamps of every file contributing to p.
func (c *Coordinator) gather(ctx context.Context, vertex ports.Vertex, p plan) (gathered, error) {
	g := gathered{stamps: []domain.Stamp{p.source}}

	prev, err := c.store.Get(p.root, p.name)
	if err != nil {
		c.logger.Warn("ignoring unreadable build info", "stylesheet", p.name, "error", err.Error())
		prev = nil
	}
	g.prev = prev

	for _, m := range p.monitor {
		stamp, exists, statErr := c.scanner.Stat(m)
		if statErr != nil {
			return g, statErr
		}
		if !exists {
			c.logger.Warn("monitored file not found", "stylesheet", p.name, "path", m)
			if vertex != nil {
				vertex.Log(domain.LogLevelWarn, "monitored file not found: "+m)
			}
			continue
		}
		g.stamps = append(g.stamps, stamp)
	}

	if p.monitorDir == "" {
		return g, nil
	}

	if c.authorizer.Privileged(ctx) {
		files, scanErr := c.scanner.ScanDir(p.monitorDir)
		if scanErr != nil {
			return g, scanErr
		}
		g.monitored = slices.DeleteFunc(files, func(f string) bool { return f == p.output })
		g.scanned = true
		c.logger.Debug("scanned monitored directory", "stylesheet", p.name, "dir", p.monitorDir, "files", len(g.monitored))
	} else if prev != nil {
		g.monitored = prev.Monitored
	} else {
		c.logger.Debug("monitored directory never scanned, skipping", "stylesheet", p.name, "dir", p.monitorDir)
	}

	for _, f := range g.monitored {
		stamp, exists, statErr := c.scanner.Stat(f)
		if statErr != nil {
			return g, statErr
		}
		if !exists {
			// Deleted since the last scan.
			continue
		}
		g.stamps = append(g.stamps, stamp)
	}

	return g, nil
}

func (c *Coordinator) decide(p plan, g gathered) (domain.Decision, error) {
	cache, exists, err := c.scanner.Stat(p.output)
	if err != nil {
		return domain.Decision{}, err
	}
	if !exists {
		return domain.Evaluate(nil, g.stamps), nil
	}
	return domain.Evaluate(&cache, g.stamps), nil
}

// build runs the compiler and writes its output to the cache file.
func (c *Coordinator) build(ctx context.Context, vertex ports.Vertex, p plan, decision domain.Decision) ([]byte, error) {
	reason := string(decision.State)
	if p.force {
		reason = "forced"
	}
	c.logger.Debug("compiling stylesheet", "stylesheet", p.name, "reason", reason, "newest", decision.Newest.Path)

	css, err := c.compiler.Compile(ctx, domain.CompileJob{
		Executable: c.site.Compiler,
		Source:     p.source.Path,
		Dir:        p.root,
		Options:    p.options,
		Vars:       p.vars,
		Env:        c.site.CompilerEnv,
	}, vertex.Stderr())
	if err != nil {
		return nil, zerr.With(err, "stylesheet", p.name)
	}

	if err := writeAtomic(p.output, css); err != nil {
		return nil, err
	}

	vertex.Log(domain.LogLevelInfo, "wrote "+p.output)
	c.logger.Info("compiled stylesheet", "stylesheet", p.name, "output", p.output)
	return css, nil
}

// record stores what the next request needs: the monitored file list of the
// last privileged scan and the hash of the last compiled output.
func (c *Coordinator) record(p plan, g gathered, version string, compiled bool) {
	info := domain.BuildInfo{
		Stylesheet: p.name,
		Source:     p.source.Path,
		Output:     p.output,
	}
	if g.prev != nil {
		info.OutputHash = g.prev.OutputHash
		info.Monitored = g.prev.Monitored
		info.ScannedAt = g.prev.ScannedAt
		info.Timestamp = g.prev.Timestamp
	}

	now := c.now()
	if compiled {
		info.OutputHash = version
		info.Timestamp = now
	}
	if g.scanned {
		info.Monitored = g.monitored
		info.ScannedAt = now
	}

	if err := c.store.Put(p.root, info); err != nil {
		c.logger.Warn("failed to record build info", "stylesheet", p.name, "error", err.Error())
	}
}

// url maps path to its public URL. Unmappable paths yield an empty URL.
func (c *Coordinator) url(path, version string) string {
	if c.site.URLs == nil {
		return ""
	}
	u, err := c.site.URLs.ToURL(path)
	if err != nil {
		c.logger.Debug("path has no public url", "path", path, "error", err.Error())
		return ""
	}
	if version != "" && c.site.VersionedURLs {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + "v=" + version
	}
	return u
}

func (c *Coordinator) root() (string, error) {
	root := c.site.Root
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to resolve root"), "root", root)
	}
	return abs, nil
}

func resolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

// writeAtomic writes data to path through a temporary file in the same
// directory, so readers never observe a partially written cache.
func writeAtomic(path string, data []byte) error {
	fail := func(err error) error {
		return zerr.With(zerr.Wrap(domain.ErrCacheWriteFailed, err.Error()), "path", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return fail(err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fail(err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fail(err)
	}
	if err := tmp.Chmod(domain.FilePerm); err != nil {
		_ = tmp.Close()
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		return fail(err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fail(err)
	}
	return nil
}
