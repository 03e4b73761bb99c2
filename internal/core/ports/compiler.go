// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/lesscache/internal/core/domain"
)

// Compiler turns a LESS source file into CSS.
//
//go:generate go run go.uber.org/mock/mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type Compiler interface {
	// Compile compiles job.Source and returns the CSS.
	//
	// The job options are forwarded to the underlying compiler without interpretation.
	// Diagnostics emitted by the compiler are written to diag.
	Compile(ctx context.Context, job domain.CompileJob, diag io.Writer) ([]byte, error)
}
