// Package lessc provides the compiler adapter that shells out to the lessc binary.
package lessc

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/lesscache/internal/core/domain"
	"go.trai.ch/lesscache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Compiler = (*Compiler)(nil)

// Compiler implements ports.Compiler by running an external LESS compiler
// that prints CSS on stdout, such as lessc from the less npm package.
type Compiler struct {
	logger ports.Logger
}

// NewCompiler creates a new Compiler.
func NewCompiler(logger ports.Logger) *Compiler {
	return &Compiler{logger: logger}
}

// Compile runs `<executable> [options...] [--modify-var=...] <source>` with
// job.Env applied over the process environment and returns its stdout.
// Compiler stderr is streamed to diag and attached to the returned error.
func (c *Compiler) Compile(ctx context.Context, job domain.CompileJob, diag io.Writer) ([]byte, error) {
	name := job.Executable
	if name == "" {
		name = domain.DefaultCompiler
	}

	cmdEnv := resolveEnvironment(os.Environ(), job.Env)

	// Resolve the executable path using the resolved environment's PATH.
	executable := name
	if !filepath.IsAbs(name) && !strings.ContainsRune(name, filepath.Separator) {
		lp, err := lookPath(name, cmdEnv)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "less compiler not found"), "executable", name)
		}
		executable = lp
	}

	args := job.Args()
	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // executable comes from the project file

	// Keep the original command name in Args[0].
	cmd.Args[0] = name
	cmd.Dir = job.Dir
	cmd.Env = cmdEnv

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	if diag == nil {
		diag = io.Discard
	}
	cmd.Stderr = io.MultiWriter(&stderr, diag)

	c.logger.Debug("running less compiler", "executable", executable, "args", strings.Join(args, " "))

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}

		wrapped := zerr.With(zerr.Wrap(domain.ErrCompileFailed, err.Error()), "exit_code", exitCode)
		wrapped = zerr.With(wrapped, "source", job.Source)
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			wrapped = zerr.With(wrapped, "stderr", msg)
		}
		return nil, wrapped
	}

	return stdout.Bytes(), nil
}

// resolveEnvironment applies overrides on top of the system environment.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(overrides))
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range overrides {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH entry of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
