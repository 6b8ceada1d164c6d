// Package staleness decides which sources need recompiling by comparing modification times.
package staleness

import (
	"errors"
	"io/fs"
	"os"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// Decision is the verdict for one source file.
type Decision int

const (
	// UpToDate means the artifact is at least as new as the source.
	UpToDate Decision = iota
	// Stale means the source must be recompiled.
	Stale
)

// String returns a human-readable decision.
func (d Decision) String() string {
	if d == Stale {
		return "stale"
	}
	return "up to date"
}

// Engine compares a source with its compiled artifact.
//
// Only modification times are compared. Changes to headers a source includes are not detected.
type Engine struct {
	incremental bool
	stat        func(string) (fs.FileInfo, error)
}

// New creates an Engine. With incremental false every source is stale.
func New(incremental bool) *Engine {
	return &Engine{
		incremental: incremental,
		stat:        os.Stat,
	}
}

// Decide reports whether source must be recompiled into artifact.
//
// A missing artifact is stale. A source strictly newer than its artifact is stale. Equal
// modification times are up to date.
func (e *Engine) Decide(source, artifact string) (Decision, error) {
	if !e.incremental {
		return Stale, nil
	}

	artifactInfo, err := e.stat(artifact)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Stale, nil
		}
		return Stale, zerr.With(zerr.Wrap(errors.Join(domain.ErrStatFailed, err), "failed to read artifact time"), "path", artifact)
	}

	sourceInfo, err := e.stat(source)
	if err != nil {
		return Stale, zerr.With(zerr.Wrap(errors.Join(domain.ErrStatFailed, err), "failed to read source time"), "path", source)
	}

	if sourceInfo.ModTime().After(artifactInfo.ModTime()) {
		return Stale, nil
	}
	return UpToDate, nil
}

// IsNewer reports whether path a was modified strictly after path b.
// A missing b counts as older than any existing a.
func IsNewer(a, b string) (bool, error) {
	d, err := New(true).Decide(a, b)
	return d == Stale, err
}
