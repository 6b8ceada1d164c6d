package ports

import "go.trai.ch/kiln/internal/core/domain"

// ManifestLoader defines the interface for loading the project manifest.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ManifestLoader interface {
	// Load reads the manifest at path and returns the validated project.
	Load(path string) (*domain.Project, error)
}
