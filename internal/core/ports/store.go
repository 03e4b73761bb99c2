package ports

import "go.trai.ch/lesscache/internal/core/domain"

// BuildInfoStore defines the interface for storing and retrieving build information.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type BuildInfoStore interface {
	// Get retrieves the build info recorded under name in the project at root.
	// Returns nil, nil if not found.
	Get(root, name string) (*domain.BuildInfo, error)

	// Put stores the build info in the project at root.
	Put(root string, info domain.BuildInfo) error
}
