package ports

import "go.trai.ch/lesscache/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the project file at path. When path is a directory, the
	// project file is searched for in it and its parents.
	Load(path string) (*domain.Project, error)
}
