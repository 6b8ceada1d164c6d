// Package cas implements the build record store: the last outcome of every target, kept in a
// flat JSON file under .kiln.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BuildRecordStore = (*Store)(nil)

// Store implements ports.BuildRecordStore using a flat JSON file.
type Store struct {
	path  string
	mu    sync.RWMutex
	cache map[string]domain.BuildRecord
}

// NewStore creates a new Store backed by the file at the given path.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:  filepath.Clean(path),
		cache: make(map[string]domain.BuildRecord),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrRecordStoreRead, err), "failed to read build records"), "path", s.path)
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrRecordStoreRead, err), "failed to decode build records"), "path", s.path)
	}

	return nil
}

// saveLocked writes the cache to disk. The caller must hold mu.
func (s *Store) saveLocked() error {
	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return zerr.Wrap(errors.Join(domain.ErrRecordStoreWrite, err), "failed to encode build records")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrRecordStoreWrite, err), "failed to create directory for build records"), "path", s.path)
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(s.path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrRecordStoreWrite, err), "failed to write build records"), "path", s.path)
	}

	return nil
}

// Get retrieves the last record of a target. It returns nil, nil when there is none.
func (s *Store) Get(target string) (*domain.BuildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.cache[target]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// Put stores the record, replacing the previous record of the same target.
func (s *Store) Put(record domain.BuildRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache[record.Target] = record
	return s.saveLocked()
}

// List returns every record ordered by target name.
func (s *Store) List() ([]domain.BuildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]domain.BuildRecord, 0, len(s.cache))
	for _, r := range s.cache {
		records = append(records, r)
	}
	slices.SortFunc(records, func(a, b domain.BuildRecord) int {
		return strings.Compare(a.Target, b.Target)
	})
	return records, nil
}
