package domain

import "strings"

// FetchKind selects how a dependency is downloaded.
type FetchKind string

const (
	// FetchHTTP downloads a single file over HTTP(S).
	FetchHTTP FetchKind = "http"
	// FetchGit clones a git repository.
	FetchGit FetchKind = "git"
)

// ParseFetchKind resolves a manifest fetch kind. The empty string means FetchHTTP.
func ParseFetchKind(s string) (FetchKind, bool) {
	switch FetchKind(strings.ToLower(s)) {
	case "", FetchHTTP:
		return FetchHTTP, true
	case FetchGit:
		return FetchGit, true
	default:
		return "", false
	}
}

// FetchStatus is the non-error outcome of a fetch.
type FetchStatus int

const (
	// FetchDone means the destination was created by this fetch.
	FetchDone FetchStatus = iota
	// FetchAlreadyExists means the destination was present and nothing was downloaded.
	FetchAlreadyExists
)

// String returns a human-readable status.
func (s FetchStatus) String() string {
	if s == FetchAlreadyExists {
		return "already exists"
	}
	return "fetched"
}

// Dependency is an external input fetched before targets are built.
type Dependency struct {
	Name    string
	URL     string
	Kind    FetchKind
	Dest    string
	Extract bool
}
