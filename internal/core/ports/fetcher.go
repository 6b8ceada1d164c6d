package ports

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
)

// Fetcher downloads and unpacks external dependencies.
//
//go:generate go run go.uber.org/mock/mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type Fetcher interface {
	// Fetch downloads url to dest. It returns domain.FetchAlreadyExists without touching the
	// network when dest is already present.
	Fetch(ctx context.Context, url, dest string, kind domain.FetchKind) (domain.FetchStatus, error)

	// Decompress unpacks an archive next to itself and returns the summed tool exit codes.
	Decompress(ctx context.Context, path string) (int, error)
}
