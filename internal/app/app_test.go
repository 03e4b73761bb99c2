package app_test

import (
	"context"
	"errors"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lesscache/internal/adapters/cas"
	"go.trai.ch/lesscache/internal/adapters/fs"
	"go.trai.ch/lesscache/internal/adapters/privilege"
	"go.trai.ch/lesscache/internal/adapters/telemetry"
	"go.trai.ch/lesscache/internal/adapters/telemetry/progrock"
	"go.trai.ch/lesscache/internal/app"
	"go.trai.ch/lesscache/internal/core/domain"
	"go.trai.ch/lesscache/internal/core/ports"
	"go.trai.ch/lesscache/internal/core/ports/mocks"
	"go.trai.ch/lesscache/internal/engine/coordinator"
	"go.trai.ch/lesscache/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

var past = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	root     string
	project  *domain.Project
	loader   *mocks.MockConfigLoader
	compiler *mocks.MockCompiler
	watcher  *mocks.MockWatcher
	logger   *mocks.MockLogger
	coord    *coordinator.Coordinator
	app      *app.App
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	h := &harness{
		root:     t.TempDir(),
		loader:   mocks.NewMockConfigLoader(ctrl),
		compiler: mocks.NewMockCompiler(ctrl),
		watcher:  mocks.NewMockWatcher(ctrl),
	}

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Error(gomock.Any()).AnyTimes()

	h.project = domain.NewProject(h.root)
	h.project.RootURL = "/assets/"
	h.project.VersionedURLs = true
	require.NoError(t, h.project.AddStylesheet(&domain.Stylesheet{Name: "theme", Source: "theme.less"}))
	require.NoError(t, h.project.AddStylesheet(&domain.Stylesheet{
		Name:       "admin",
		Source:     "admin.less",
		Output:     filepath.Join("public", "admin.css"),
		MonitorDir: "partials",
	}))
	h.write(t, "theme.less")
	h.write(t, "admin.less")
	h.write(t, filepath.Join("partials", "forms.less"))

	h.logger = mockLogger
	coord := coordinator.New(
		h.compiler,
		cas.NewStore(),
		fs.NewScanner(fs.NewWalker()),
		fs.NewHasher(),
		privilege.New(false),
		telemetry.NewNoOp(),
		mockLogger,
	)
	h.coord = coord
	h.app = app.New(
		h.loader,
		coord,
		scheduler.NewScheduler(mockLogger),
		telemetry.NewNoOp(),
		mockLogger,
		func() (ports.Watcher, error) { return h.watcher, nil },
	)
	return h
}

func (h *harness) write(t *testing.T, rel string) string {
	t.Helper()
	path := filepath.Join(h.root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("@c: red;"), 0o600))
	require.NoError(t, os.Chtimes(path, past, past))
	return path
}

func (h *harness) expectLoad() {
	h.loader.EXPECT().Load(".").Return(h.project, nil).AnyTimes()
}

func (h *harness) compileReturnsSourceName() *gomock.Call {
	return h.compiler.EXPECT().Compile(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, job domain.CompileJob, _ io.Writer) ([]byte, error) {
			return []byte("/* " + filepath.Base(job.Source) + " */"), nil
		})
}

func TestApp_Compile_All(t *testing.T) {
	h := newHarness(t)
	h.expectLoad()
	h.compileReturnsSourceName().Times(2)

	results, err := h.app.Compile(context.Background(), nil, app.Options{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	admin, theme := results[0], results[1]
	assert.Equal(t, "admin", admin.Name)
	assert.True(t, admin.Compiled)
	assert.Equal(t, filepath.Join(h.root, "public", "admin.css"), admin.Output)
	assert.Equal(t, "/assets/public/admin.css?v="+admin.Version, admin.OutputURL)

	assert.Equal(t, "/* theme.less */", theme.CSS)
	assert.Equal(t, "/assets/theme.less.css?v="+theme.Version, theme.OutputURL)
	assert.Equal(t, "/assets/theme.less", theme.SourceURL)

	// Second run serves the caches.
	results, err = h.app.Compile(context.Background(), nil, app.Options{})
	require.NoError(t, err)
	assert.False(t, results[0].Compiled)
	assert.False(t, results[1].Compiled)
}

func TestApp_Compile_Named(t *testing.T) {
	h := newHarness(t)
	h.expectLoad()
	h.compileReturnsSourceName().Times(1)

	results, err := h.app.Compile(context.Background(), []string{"theme"}, app.Options{Jobs: 4})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "theme", results[0].Name)
}

func TestApp_Compile_UnknownStylesheet(t *testing.T) {
	h := newHarness(t)
	h.expectLoad()

	_, err := h.app.Compile(context.Background(), []string{"missing"}, app.Options{})
	require.ErrorIs(t, err, domain.ErrStylesheetNotFound)
}

func TestApp_Compile_ConfigLoaderError(t *testing.T) {
	h := newHarness(t)
	h.loader.EXPECT().Load("custom.yaml").Return(nil, zerr.Wrap(domain.ErrConfigParseFailed, "bad yaml"))

	_, err := h.app.Compile(context.Background(), nil, app.Options{ConfigPath: "custom.yaml"})
	require.ErrorIs(t, err, domain.ErrConfigParseFailed)
}

func TestApp_Compile_PrivilegedRescansMonitorDir(t *testing.T) {
	h := newHarness(t)
	h.expectLoad()
	h.compileReturnsSourceName().Times(2)

	_, err := h.app.Compile(context.Background(), []string{"admin"}, app.Options{})
	require.NoError(t, err)

	store := cas.NewStore()
	info, err := store.Get(h.root, "admin")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Empty(t, info.Monitored, "unprivileged run must not scan")

	_, err = h.app.Compile(context.Background(), []string{"admin"}, app.Options{Privileged: true, Force: true})
	require.NoError(t, err)

	info, err = store.Get(h.root, "admin")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, []string{filepath.Join(h.root, "partials", "forms.less")}, info.Monitored)
}

func TestApp_Compile_BatchFailure(t *testing.T) {
	h := newHarness(t)
	h.expectLoad()
	h.compiler.EXPECT().Compile(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, zerr.Wrap(domain.ErrCompileFailed, "exit status 1")).Times(2)

	_, err := h.app.Compile(context.Background(), nil, app.Options{})
	require.ErrorIs(t, err, domain.ErrBatchFailed)
	require.ErrorIs(t, err, domain.ErrCompileFailed)
	assert.Equal(t, []string{"admin", "theme"}, h.app.Failed())
}

func TestApp_CompileFile_WithoutProject(t *testing.T) {
	h := newHarness(t)
	t.Chdir(h.root)
	h.loader.EXPECT().Load(".").Return(nil, zerr.Wrap(domain.ErrConfigNotFound, "none"))
	h.compileReturnsSourceName()

	src := filepath.Join(h.root, "theme.less")
	res, err := h.app.CompileFile(context.Background(), domain.Request{Source: src}, app.Options{})
	require.NoError(t, err)
	assert.True(t, res.Compiled)
	assert.Equal(t, src+".css", res.Output)
	assert.Empty(t, res.OutputURL)
}

func TestApp_CompileFile_WithProject(t *testing.T) {
	h := newHarness(t)
	h.expectLoad()
	h.compileReturnsSourceName()

	res, err := h.app.CompileFile(context.Background(), domain.Request{
		Source: "theme.less",
		Output: "out.css",
	}, app.Options{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(h.root, "out.css"), res.Output)
	assert.Equal(t, "/assets/out.css?v="+res.Version, res.OutputURL)
}

func TestApp_CompileFile_ProjectVarsAndEnv(t *testing.T) {
	h := newHarness(t)
	h.project.Vars = domain.Variables{"primary": "red", "gutter": "10px"}
	h.project.CompilerEnv = map[string]string{"NODE_PATH": "node_modules"}
	h.expectLoad()
	h.compiler.EXPECT().Compile(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, job domain.CompileJob, _ io.Writer) ([]byte, error) {
			assert.Equal(t, domain.Variables{"primary": "blue", "gutter": "10px"}, job.Vars)
			assert.Equal(t, map[string]string{"NODE_PATH": "node_modules"}, job.Env)
			return []byte("a{}"), nil
		})

	_, err := h.app.CompileFile(context.Background(), domain.Request{
		Source: "theme.less",
		Vars:   domain.Variables{"primary": "blue"},
	}, app.Options{})
	require.NoError(t, err)
}

func TestApp_CompileFile_ExplicitConfigMissing(t *testing.T) {
	h := newHarness(t)
	h.loader.EXPECT().Load("missing.yaml").Return(nil, zerr.Wrap(domain.ErrConfigNotFound, "none"))

	_, err := h.app.CompileFile(context.Background(), domain.Request{Source: "x.less"}, app.Options{ConfigPath: "missing.yaml"})
	require.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestApp_Status(t *testing.T) {
	h := newHarness(t)
	h.expectLoad()
	h.compileReturnsSourceName()

	_, err := h.app.Compile(context.Background(), []string{"theme"}, app.Options{})
	require.NoError(t, err)

	statuses, err := h.app.Status(context.Background(), nil, app.Options{})
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, "admin", statuses[0].Name)
	assert.Equal(t, domain.FreshnessMissing, statuses[0].Decision.State)
	assert.Equal(t, "theme", statuses[1].Name)
	assert.Equal(t, domain.FreshnessFresh, statuses[1].Decision.State)
}

func TestApp_URLAndPath(t *testing.T) {
	h := newHarness(t)
	h.expectLoad()

	u, err := h.app.URL("", filepath.Join(h.root, "public", "admin.css"))
	require.NoError(t, err)
	assert.Equal(t, "/assets/public/admin.css", u)

	p, err := h.app.Path("", "/assets/public/admin.css?v=123")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(h.root, "public", "admin.css"), p)

	_, err = h.app.Path("", "/elsewhere/admin.css")
	require.ErrorIs(t, err, domain.ErrPathOutsideRoot)
}

func TestApp_Clean(t *testing.T) {
	h := newHarness(t)
	h.expectLoad()
	h.compileReturnsSourceName().Times(2)

	_, err := h.app.Compile(context.Background(), nil, app.Options{})
	require.NoError(t, err)
	require.DirExists(t, filepath.Join(h.root, domain.DefaultStorePath()))

	require.NoError(t, h.app.Clean(context.Background(), app.CleanOptions{Store: true, Outputs: true}))

	assert.NoDirExists(t, filepath.Join(h.root, domain.DefaultStorePath()))
	assert.NoFileExists(t, filepath.Join(h.root, "theme.less.css"))
	assert.NoFileExists(t, filepath.Join(h.root, "public", "admin.css"))
	assert.FileExists(t, filepath.Join(h.root, "theme.less"))
}

func TestApp_Watch(t *testing.T) {
	h := newHarness(t)
	h.expectLoad()

	recompiled := make(chan struct{})
	var recompiledAt time.Time
	calls := 0
	h.compiler.EXPECT().Compile(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ domain.CompileJob, _ io.Writer) ([]byte, error) {
			calls++
			if calls == 2 {
				recompiledAt = time.Now()
				close(recompiled)
			}
			return []byte("a{}"), nil
		}).Times(2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.watcher.EXPECT().Start(gomock.Any(), h.root).Return(nil)
	h.watcher.EXPECT().Stop().Return(nil).AnyTimes()
	h.watcher.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(yield func(ports.WatchEvent) bool) {
		future := time.Now().Add(time.Hour)
		src := filepath.Join(h.root, "theme.less")
		require.NoError(t, os.Chtimes(src, future, future))

		if !yield(ports.WatchEvent{Path: src, Operation: ports.OpWrite}) {
			return
		}
		select {
		case <-recompiled:
		case <-time.After(5 * time.Second):
			t.Error("timed out waiting for recompile")
		}
	}))

	err := h.app.Watch(ctx, []string{"theme"}, app.Options{})
	require.NoError(t, err)

	// The rebuild runs on the debouncer goroutine; wait for it to record its result.
	store := cas.NewStore()
	assert.Eventually(t, func() bool {
		info, err := store.Get(h.root, "theme")
		return err == nil && info != nil && !info.Timestamp.Before(recompiledAt)
	}, 5*time.Second, 10*time.Millisecond)
}

func TestApp_Watch_StartError(t *testing.T) {
	h := newHarness(t)
	h.expectLoad()
	h.compileReturnsSourceName()

	h.watcher.EXPECT().Start(gomock.Any(), h.root).Return(errors.New("too many open files"))
	h.watcher.EXPECT().Stop().Return(nil)

	err := h.app.Watch(context.Background(), []string{"theme"}, app.Options{})
	require.Error(t, err)
}

func TestApp_Compile_UI(t *testing.T) {
	h := newHarness(t)
	h.expectLoad()
	h.compileReturnsSourceName().Times(2)

	recorder := progrock.New()
	a := app.New(
		h.loader,
		h.coord,
		scheduler.NewScheduler(h.logger),
		recorder,
		h.logger,
		func() (ports.Watcher, error) { return h.watcher, nil },
	).WithTeaOptions(
		tea.WithInput(strings.NewReader("")),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
		tea.WithoutRenderer(),
	)

	results, err := a.Compile(context.Background(), nil, app.Options{UI: true})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Compiled)
	require.NoError(t, a.Close())
}

func TestApp_Compile_UIIgnoredWithoutTape(t *testing.T) {
	h := newHarness(t)
	h.expectLoad()
	h.compileReturnsSourceName().Times(1)

	results, err := h.app.Compile(context.Background(), []string{"theme"}, app.Options{UI: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
}
