package ports

import "context"

// Authorizer decides whether the caller may trigger expensive work.
//
//go:generate go run go.uber.org/mock/mockgen -source=authorizer.go -destination=mocks/mock_authorizer.go -package=mocks
type Authorizer interface {
	// Privileged reports whether the caller in ctx is allowed to rescan monitored directories.
	Privileged(ctx context.Context) bool
}
