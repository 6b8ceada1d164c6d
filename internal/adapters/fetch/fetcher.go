// Package fetch downloads, clones and unpacks external dependencies.
package fetch

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/invoke"
	"go.trai.ch/zerr"
)

var _ ports.Fetcher = (*Fetcher)(nil)

// Fetcher implements ports.Fetcher with wget or curl for HTTP and go-git for repositories.
type Fetcher struct {
	shell    ports.Shell
	logger   ports.Logger
	tracer   ports.Tracer
	lookPath func(string) (string, error)
	clone    CloneFunc
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTracer sets the tracer fetch spans are started on.
func WithTracer(tracer ports.Tracer) Option {
	return func(f *Fetcher) {
		f.tracer = tracer
	}
}

// WithLookPath replaces the PATH lookup used to pick between wget and curl.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(f *Fetcher) {
		f.lookPath = fn
	}
}

// WithCloner replaces the function git dependencies are cloned with.
func WithCloner(fn CloneFunc) Option {
	return func(f *Fetcher) {
		f.clone = fn
	}
}

// New creates a Fetcher running its tools through shell.
func New(shell ports.Shell, logger ports.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		shell:    shell,
		logger:   logger,
		tracer:   telemetry.NewNoOpTracer(),
		lookPath: exec.LookPath,
		clone:    GitClone,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads url to dest.
//
// An existing dest is left untouched and reported as domain.FetchAlreadyExists. HTTP downloads
// use wget when it is on PATH and curl otherwise. A non-zero tool exit is returned as an error
// wrapping domain.ErrFetchFailed.
func (f *Fetcher) Fetch(ctx context.Context, url, dest string, kind domain.FetchKind) (domain.FetchStatus, error) {
	if FileExists(dest) {
		f.logger.Info(dest + " already exists")
		return domain.FetchAlreadyExists, nil
	}

	ctx, span := f.tracer.Start(ctx, "fetch",
		ports.WithAttribute("url", url),
		ports.WithAttribute("kind", string(kind)),
	)
	defer span.End()

	if parent := filepath.Dir(dest); parent != "." {
		if err := f.MakeDirIfNotExists(parent); err != nil {
			span.RecordError(err)
			return domain.FetchDone, err
		}
	}

	var err error
	switch kind {
	case domain.FetchGit:
		f.logger.Info("cloning " + url)
		if cloneErr := f.clone(ctx, url, dest); cloneErr != nil {
			err = zerr.Wrap(errors.Join(domain.ErrFetchFailed, cloneErr), "git clone failed")
		}
	case domain.FetchHTTP:
		err = f.download(url, dest)
	default:
		err = zerr.With(zerr.Wrap(domain.ErrUnknownFetchKind, "cannot fetch"), "kind", string(kind))
	}

	if err != nil {
		span.RecordError(err)
		return domain.FetchDone, zerr.With(zerr.With(err, "url", url), "dest", dest)
	}
	return domain.FetchDone, nil
}

func (f *Fetcher) download(url, dest string) error {
	cmd := invoke.New(f.shell, f.logger)
	if _, err := f.lookPath("wget"); err == nil {
		cmd.Append("wget", "-O", dest, url)
	} else {
		cmd.Append("curl", "-L", "-o", dest, url)
	}

	out, err := cmd.RunCapturingOutput()
	if err != nil {
		return err
	}
	if out.ExitCode != 0 {
		for _, line := range out.Stderr {
			f.logger.Error(zerr.New(line))
		}
		return zerr.With(zerr.Wrap(domain.ErrFetchFailed, "download failed"), "exit_code", out.ExitCode)
	}
	return nil
}

// archiveTools maps an archive extension to the command unpacking it into dir.
var archiveTools = map[string]func(path, dir string) []string{
	".gz":  func(path, _ string) []string { return []string{"gzip", "-dkf", path} },
	".tar": func(path, dir string) []string { return []string{"tar", "-xf", path, "-C", dir} },
	".tgz": func(path, dir string) []string { return []string{"tar", "-xzf", path, "-C", dir} },
	".zip": func(path, dir string) []string { return []string{"unzip", "-o", path, "-d", dir} },
	".rar": func(path, dir string) []string { return []string{"unrar", "x", "-o+", path, dir + string(filepath.Separator)} },
}

// Decompress unpacks path next to itself and returns the sum of the tools' exit codes.
//
// Extensions are peeled one at a time, so x.tar.gz is gunzipped to x.tar which is then
// extracted. A path whose last extension is not an archive is domain.ErrUnsupportedArchive.
func (f *Fetcher) Decompress(ctx context.Context, path string) (int, error) {
	ext := filepath.Ext(path)
	if _, ok := archiveTools[ext]; !ok {
		return 0, zerr.With(zerr.Wrap(domain.ErrUnsupportedArchive, "cannot decompress"), "path", path)
	}

	_, span := f.tracer.Start(ctx, "decompress", ports.WithAttribute("path", path))
	defer span.End()

	dir := filepath.Dir(path)
	total := 0
	for current := path; ; {
		tool, ok := archiveTools[ext]
		if !ok {
			break
		}

		code, err := invoke.New(f.shell, f.logger, tool(current, dir)...).Run()
		if err != nil {
			span.RecordError(err)
			return total, err
		}
		total += code

		current = strings.TrimSuffix(current, ext)
		ext = filepath.Ext(current)
	}

	span.SetAttribute("exit_code", total)
	return total, nil
}

// MakeDirIfNotExists creates path and its parents with `mkdir -p` unless it already exists.
func (f *Fetcher) MakeDirIfNotExists(path string) error {
	if FileExists(path) {
		return nil
	}
	code, err := invoke.New(f.shell, f.logger, "mkdir", "-p", path).Run()
	if err != nil {
		return err
	}
	if code != 0 {
		err := zerr.With(zerr.Wrap(domain.ErrOutputDirCreate, "mkdir failed"), "path", path)
		return zerr.With(err, "exit_code", code)
	}
	return nil
}
