package ports

import (
	"context"

	"go.trai.ch/lesscache/internal/core/domain"
)

// Builder handles single compile requests, serving the CSS cache when it is fresh.
//
//go:generate go run go.uber.org/mock/mockgen -source=builder.go -destination=mocks/mock_builder.go -package=mocks
type Builder interface {
	// Compile returns the CSS for req, compiling it when the cache is stale or missing.
	Compile(ctx context.Context, req domain.Request) (*domain.Result, error)

	// Check reports the freshness of req without compiling it.
	Check(ctx context.Context, req domain.Request) (*domain.Status, error)
}
