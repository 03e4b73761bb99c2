package ports

import "go.trai.ch/lesscache/internal/core/domain"

// Scanner reads modification times from the file system.
//
//go:generate go run go.uber.org/mock/mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type Scanner interface {
	// Stat returns the stamp of the file at path.
	// The boolean is false when the file does not exist.
	Stat(path string) (domain.Stamp, bool, error)

	// ScanDir lists the LESS sources below dir, recursively, in lexical order.
	ScanDir(dir string) ([]string, error)
}

// Hasher computes content hashes.
type Hasher interface {
	// HashBytes returns the hex encoded hash of b.
	HashBytes(b []byte) string
}
