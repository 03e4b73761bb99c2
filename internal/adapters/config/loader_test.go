package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lesscache/internal/adapters/config"
	"go.trai.ch/lesscache/internal/core/domain"
	"go.trai.ch/lesscache/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func newLoader(t *testing.T) (*config.Loader, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	return config.NewLoader(mockLogger), mockLogger
}

func writeProjectfile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, domain.ProjectFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Success(t *testing.T) {
	content := `
version: "1"
root: site
root_url: https://example.com/static
versioned_urls: true
compiler: node_modules/.bin/lessc
compiler_env:
  NODE_PATH: node_modules
options:
  strict-math: "on"
vars:
  primary: "#336699"
  gutter: 12px
stylesheets:
  theme:
    source: theme/main.less
    output: public/theme.css
    monitor: [theme/vars.less, theme/mixins.less, theme/vars.less]
    monitor_dir: theme/partials
    options:
      compress: "true"
    vars:
      primary: "#993366"
  admin:
    source: admin/admin.less
`
	tmpDir := t.TempDir()
	configPath := writeProjectfile(t, tmpDir, content)

	loader, _ := newLoader(t)
	project, err := loader.Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmpDir, "site"), project.Root)
	assert.Equal(t, "https://example.com/static", project.RootURL)
	assert.True(t, project.VersionedURLs)
	assert.Equal(t, "node_modules/.bin/lessc", project.Compiler)
	assert.Equal(t, domain.ParserOptions{"strict-math": "on"}, project.Options)
	assert.Equal(t, domain.Variables{"primary": "#336699", "gutter": "12px"}, project.Vars)
	assert.Equal(t, map[string]string{"NODE_PATH": "node_modules"}, project.CompilerEnv)

	sheets := project.Stylesheets()
	require.Len(t, sheets, 2)
	assert.Equal(t, "admin", sheets[0].Name)
	assert.Equal(t, filepath.Join("admin", "admin.less"), sheets[0].Source)
	assert.Empty(t, sheets[0].Output)

	theme := sheets[1]
	assert.Equal(t, "theme", theme.Name)
	assert.Equal(t, filepath.Join("theme", "main.less"), theme.Source)
	assert.Equal(t, filepath.Join("public", "theme.css"), theme.Output)
	assert.Equal(t, []string{filepath.Join("theme", "mixins.less"), filepath.Join("theme", "vars.less")}, theme.Monitor)
	assert.Equal(t, filepath.Join("theme", "partials"), theme.MonitorDir)
	assert.Equal(t, domain.ParserOptions{"compress": "true"}, theme.Options)
	assert.Equal(t, domain.Variables{"primary": "#993366"}, theme.Vars)
	assert.Equal(t, domain.Variables{"primary": "#993366", "gutter": "12px"}, project.Request(theme).Vars)
}

func TestLoad_Defaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := writeProjectfile(t, tmpDir, `
version: "1"
stylesheets:
  theme:
    source: main.less
`)

	loader, _ := newLoader(t)
	project, err := loader.Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, tmpDir, project.Root)
	assert.Equal(t, "/", project.RootURL)
	assert.False(t, project.VersionedURLs)
	assert.Equal(t, domain.DefaultCompiler, project.Compiler)
}

func TestLoad_DiscoversFromSubdirectory(t *testing.T) {
	tmpDir := t.TempDir()
	writeProjectfile(t, tmpDir, `
version: "1"
stylesheets:
  theme:
    source: main.less
`)
	nested := filepath.Join(tmpDir, "theme", "partials")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	loader, _ := newLoader(t)
	project, err := loader.Load(nested)
	require.NoError(t, err)

	assert.Equal(t, tmpDir, project.Root)
	require.Len(t, project.Stylesheets(), 1)
}

func TestLoad_AbsoluteRoot(t *testing.T) {
	tmpDir := t.TempDir()
	other := t.TempDir()
	configPath := writeProjectfile(t, tmpDir, "version: \"1\"\nroot: "+other+"\n")

	loader, _ := newLoader(t)
	project, err := loader.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, other, project.Root)
}

func TestLoad_UnsupportedVersionWarns(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := writeProjectfile(t, tmpDir, `version: "2"`)

	loader, mockLogger := newLoader(t)
	mockLogger.EXPECT().Warn(gomock.Any(), "version", "2").Times(1)

	_, err := loader.Load(configPath)
	require.NoError(t, err)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("Not Found", func(t *testing.T) {
		loader, _ := newLoader(t)
		_, err := loader.Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.ErrorIs(t, err, domain.ErrConfigNotFound)
	})

	t.Run("Invalid YAML", func(t *testing.T) {
		configPath := writeProjectfile(t, t.TempDir(), `
version: "1"
stylesheets:
  theme:
    monitor: [a.less  # Unclosed list
`)
		loader, _ := newLoader(t)
		_, err := loader.Load(configPath)
		require.ErrorIs(t, err, domain.ErrConfigParseFailed)
	})

	t.Run("Missing Source", func(t *testing.T) {
		configPath := writeProjectfile(t, t.TempDir(), `
version: "1"
stylesheets:
  theme:
    output: theme.css
`)
		loader, _ := newLoader(t)
		_, err := loader.Load(configPath)
		require.ErrorIs(t, err, domain.ErrMissingSource)
	})

	t.Run("Output Is Source", func(t *testing.T) {
		configPath := writeProjectfile(t, t.TempDir(), `
version: "1"
stylesheets:
  theme:
    source: main.less
    output: ./main.less
`)
		loader, _ := newLoader(t)
		_, err := loader.Load(configPath)
		require.ErrorIs(t, err, domain.ErrOutputIsSource)
	})

	t.Run("Invalid Name", func(t *testing.T) {
		configPath := writeProjectfile(t, t.TempDir(), `
version: "1"
stylesheets:
  "bad name":
    source: main.less
`)
		loader, _ := newLoader(t)
		_, err := loader.Load(configPath)
		require.ErrorIs(t, err, domain.ErrInvalidStylesheetName)

		var zErr *zerr.Error
		require.True(t, errors.As(err, &zErr))
		assert.Equal(t, "bad name", zErr.Metadata()["stylesheet"])
	})
}
