package domain

import (
	"path/filepath"
	"strings"
	"unique"
)

// SourcePath is an interned, cleaned source file path.
// Interning makes membership checks on the ordered source set cheap comparisons of handles.
type SourcePath struct {
	h unique.Handle[string]
}

// NewSourcePath creates a SourcePath from a path, cleaning it first.
func NewSourcePath(path string) SourcePath {
	return SourcePath{
		h: unique.Make(filepath.Clean(path)),
	}
}

// String returns the cleaned path.
func (p SourcePath) String() string {
	var zero unique.Handle[string]
	if p.h == zero {
		return ""
	}
	return p.h.Value()
}

// Handle returns the underlying unique.Handle[string].
func (p SourcePath) Handle() unique.Handle[string] {
	return p.h
}

// Stem returns the file name without directory and extension.
func (p SourcePath) Stem() string {
	base := filepath.Base(p.String())
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// MarshalText implements encoding.TextMarshaler.
func (p SourcePath) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *SourcePath) UnmarshalText(text []byte) error {
	*p = NewSourcePath(string(text))
	return nil
}
