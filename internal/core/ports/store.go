package ports

import "go.trai.ch/kiln/internal/core/domain"

// BuildRecordStore defines the interface for storing and retrieving per-target build outcomes.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type BuildRecordStore interface {
	// Get retrieves the last record for a target.
	// Returns nil, nil if not found.
	Get(target string) (*domain.BuildRecord, error)

	// Put stores the record, replacing any previous record for the same target.
	Put(record domain.BuildRecord) error

	// List returns every record ordered by target name.
	List() ([]domain.BuildRecord, error)
}
