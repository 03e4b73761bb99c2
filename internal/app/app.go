// Package app implements the application layer for lesscache.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vito/progrock"
	"go.trai.ch/lesscache/internal/adapters/privilege" //nolint:depguard // Wired in app layer
	"go.trai.ch/lesscache/internal/adapters/urlmap"    //nolint:depguard // Wired in app layer
	"go.trai.ch/lesscache/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/lesscache/internal/core/domain"
	"go.trai.ch/lesscache/internal/core/ports"
	"go.trai.ch/lesscache/internal/engine/coordinator"
	"go.trai.ch/lesscache/internal/engine/scheduler"
	"go.trai.ch/lesscache/internal/tui"
	"go.trai.ch/zerr"
)

// TapeSubscriber is implemented by telemetry backends whose progress can be
// followed by the terminal view.
type TapeSubscriber interface {
	Subscribe(w progrock.Writer) (unsubscribe func())
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	coordinator  *coordinator.Coordinator
	scheduler    *scheduler.Scheduler
	telemetry    ports.Telemetry
	logger       ports.Logger
	newWatcher   watcher.Factory
	tapes        TapeSubscriber
	teaOptions   []tea.ProgramOption
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	coord *coordinator.Coordinator,
	sched *scheduler.Scheduler,
	telemetry ports.Telemetry,
	log ports.Logger,
	newWatcher watcher.Factory,
) *App {
	tapes, _ := telemetry.(TapeSubscriber)
	return &App{
		configLoader: loader,
		coordinator:  coord,
		scheduler:    sched,
		telemetry:    telemetry,
		logger:       log,
		newWatcher:   newWatcher,
		tapes:        tapes,
	}
}

// WithTeaOptions configures the terminal view. Used for testing.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// Options configure a compile, status or watch run.
type Options struct {
	// ConfigPath is the project file, or a directory to search from. Empty means the working directory.
	ConfigPath string
	// Force recompiles even when the cache is fresh.
	Force bool
	// Privileged allows rescanning monitored directories.
	Privileged bool
	// Jobs is the number of stylesheets compiled at once.
	Jobs int
	// UI shows a live terminal view instead of log lines. It is ignored when
	// the telemetry backend cannot be followed.
	UI bool
}

// Close flushes the telemetry session.
func (a *App) Close() error {
	return a.telemetry.Close()
}

// Compile compiles the named stylesheets of the project, or all of them when names is empty.
func (a *App) Compile(ctx context.Context, names []string, opts Options) ([]*domain.Result, error) {
	project, builder, err := a.open(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	reqs, err := requests(project, names, opts.Force)
	if err != nil {
		return nil, err
	}

	ctx = privilege.WithPrivileged(ctx, opts.Privileged)

	var results []*domain.Result
	err = a.withUI(ctx, opts.UI, func(ctx context.Context) error {
		var runErr error
		results, runErr = a.scheduler.Run(ctx, builder, reqs, opts.Jobs)
		return runErr
	})
	return results, err
}

// Failed returns the names of the stylesheets that failed in the last
// Compile, in name order.
func (a *App) Failed() []string {
	var failed []string
	for name, status := range a.scheduler.Statuses() {
		if status == domain.StatusFailed {
			failed = append(failed, name)
		}
	}
	slices.Sort(failed)
	return failed
}

// CompileFile compiles a single ad-hoc request. Relative paths are resolved
// against the project root when a project file is found and against the
// working directory otherwise. Project-wide options and vars apply beneath
// the request's own.
func (a *App) CompileFile(ctx context.Context, req domain.Request, opts Options) (*domain.Result, error) {
	project, builder, err := a.open(opts.ConfigPath)
	switch {
	case err == nil:
		req.Options = project.Options.Merge(req.Options)
		req.Vars = project.Vars.Merge(req.Vars)
	case opts.ConfigPath == "" && errors.Is(err, domain.ErrConfigNotFound):
		a.logger.Debug("no project file, compiling relative to the working directory")
		builder = a.coordinator.ForSite(coordinator.Site{})
	default:
		return nil, err
	}

	req.Force = req.Force || opts.Force
	ctx = privilege.WithPrivileged(ctx, opts.Privileged)
	return builder.Compile(ctx, req)
}

// Status reports the freshness of the named stylesheets without compiling them.
func (a *App) Status(ctx context.Context, names []string, opts Options) ([]*domain.Status, error) {
	project, builder, err := a.open(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	reqs, err := requests(project, names, false)
	if err != nil {
		return nil, err
	}

	ctx = privilege.WithPrivileged(ctx, opts.Privileged)
	statuses := make([]*domain.Status, 0, len(reqs))
	for _, req := range reqs {
		st, err := builder.Check(ctx, req)
		if err != nil {
			return nil, zerr.With(err, "stylesheet", req.Key())
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

// Watch compiles the selected stylesheets and recompiles them whenever a
// LESS file below the project root changes, until ctx is canceled. Watch
// runs privileged so monitored directories are rescanned on every change.
func (a *App) Watch(ctx context.Context, names []string, opts Options) error {
	project, builder, err := a.open(opts.ConfigPath)
	if err != nil {
		return err
	}

	reqs, err := requests(project, names, opts.Force)
	if err != nil {
		return err
	}
	ctx = privilege.WithPrivileged(ctx, true)

	return a.withUI(ctx, opts.UI, func(ctx context.Context) error {
		return a.watch(ctx, project, builder, reqs, opts.Jobs)
	})
}

func (a *App) watch(
	ctx context.Context,
	project *domain.Project,
	builder ports.Builder,
	reqs []domain.Request,
	jobs int,
) error {
	rebuild := func() {
		if _, err := a.scheduler.Run(ctx, builder, reqs, jobs); err != nil && ctx.Err() == nil {
			a.logger.Error(err)
		}
	}
	rebuild()

	// Only the first pass honors Force.
	for i := range reqs {
		reqs[i].Force = false
	}

	w, err := a.newWatcher()
	if err != nil {
		return err
	}
	if err := w.Start(ctx, project.Root); err != nil {
		_ = w.Stop()
		return err
	}

	go func() {
		<-ctx.Done()
		_ = w.Stop()
	}()

	a.logger.Info("watching for changes", "root", project.Root, "stylesheets", len(reqs))

	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(paths []string) {
		a.logger.Debug("change detected", "files", len(paths), "first", paths[0])
		rebuild()
	})
	for ev := range w.Events() {
		debouncer.Add(ev.Path)
	}

	return nil
}

// withUI runs fn, showing its progress in the terminal view when enabled.
// Quitting the view cancels the context passed to fn.
func (a *App) withUI(ctx context.Context, enabled bool, fn func(context.Context) error) error {
	if !enabled || a.tapes == nil {
		return fn(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	feed := tui.NewFeed()
	unsubscribe := a.tapes.Subscribe(feed)
	// Closing the feed first releases a recorder blocked on a full feed.
	stop := func() {
		_ = feed.Close()
		unsubscribe()
	}

	done := make(chan error, 1)
	go func() {
		defer stop()
		done <- fn(ctx)
	}()

	_, uiErr := tea.NewProgram(tui.NewModel(feed), a.teaOptions...).Run()

	// The view may have quit first; unblock fn and wait for it.
	cancel()
	stop()
	fnErr := <-done

	if uiErr != nil {
		return errors.Join(fnErr, zerr.Wrap(uiErr, "terminal view failed"))
	}
	return fnErr
}

// URL returns the public URL of path.
func (a *App) URL(configPath, path string) (string, error) {
	mapper, err := a.mapper(configPath)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, "failed to resolve path"), "path", path)
		}
		path = abs
	}
	return mapper.ToURL(path)
}

// Path returns the file system path served at url.
func (a *App) Path(configPath, url string) (string, error) {
	mapper, err := a.mapper(configPath)
	if err != nil {
		return "", err
	}
	return mapper.ToPath(url)
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	ConfigPath string
	// Store removes the build info store.
	Store bool
	// Outputs removes the CSS cache files of every stylesheet.
	Outputs bool
}

// Clean removes the build info store and compiled outputs.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	project, err := a.configLoader.Load(configPathOrCwd(opts.ConfigPath))
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	var errs error
	remove := func(path, what string) {
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, fmt.Sprintf("failed to remove %s", what)), "path", path))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", what), "path", path)
	}

	if opts.Store {
		remove(filepath.Join(project.Root, domain.DefaultStorePath()), "build info store")
	}

	if opts.Outputs {
		for _, s := range project.Stylesheets() {
			remove(outputPath(project.Root, s), "css cache")
		}
	}

	return errs
}

// open loads the project and binds the coordinator to it.
func (a *App) open(configPath string) (*domain.Project, *coordinator.Coordinator, error) {
	project, err := a.configLoader.Load(configPathOrCwd(configPath))
	if err != nil {
		return nil, nil, zerr.Wrap(err, "failed to load configuration")
	}

	mapper, err := urlmap.New(project.Root, project.RootURL)
	if err != nil {
		return nil, nil, err
	}

	return project, a.coordinator.ForSite(coordinator.Site{
		Root:          project.Root,
		Compiler:      project.Compiler,
		CompilerEnv:   project.CompilerEnv,
		VersionedURLs: project.VersionedURLs,
		URLs:          mapper,
	}), nil
}

func (a *App) mapper(configPath string) (*urlmap.Mapper, error) {
	project, err := a.configLoader.Load(configPathOrCwd(configPath))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return urlmap.New(project.Root, project.RootURL)
}

func requests(project *domain.Project, names []string, force bool) ([]domain.Request, error) {
	sheets, err := project.Select(names)
	if err != nil {
		return nil, err
	}
	reqs := make([]domain.Request, 0, len(sheets))
	for _, s := range sheets {
		req := project.Request(s)
		req.Force = force
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func outputPath(root string, s *domain.Stylesheet) string {
	source := s.Source
	if !filepath.IsAbs(source) {
		source = filepath.Join(root, source)
	}
	if s.Output == "" {
		return domain.DefaultOutputPath(source)
	}
	if filepath.IsAbs(s.Output) {
		return s.Output
	}
	return filepath.Join(root, s.Output)
}

func configPathOrCwd(p string) string {
	if p == "" {
		return "."
	}
	return p
}
