package target

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/engine/invoke"
	"go.trai.ch/zerr"
)

// SetOutputDir sets the directory artifacts are written to, creating it with `mkdir -p` when
// missing. A trailing separator is appended when absent.
func (b *Build) SetOutputDir(path string) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := b.makeDir(path); err != nil {
			return err
		}
	case err != nil:
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrStatFailed, err), "failed to inspect output directory"), "path", path)
	case !info.IsDir():
		return zerr.With(zerr.Wrap(domain.ErrNotADirectory, "output directory is a file"), "path", path)
	}

	b.outputDir = withSeparator(path)
	return nil
}

// makeDir runs `mkdir -p path`.
func (b *Build) makeDir(path string) error {
	code, err := invoke.New(b.shell, b.logger, "mkdir", "-p", path).Run()
	if err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrOutputDirCreate, err), "mkdir could not run"), "path", path)
	}
	if code != 0 {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrOutputDirCreate, "mkdir failed"), "path", path), "exit_code", code)
	}
	return nil
}

// AppendSourceFile registers source files. Directories are rejected; files that are not C or C++
// sources are ignored, as are sources already registered. When any path is rejected nothing is
// registered.
func (b *Build) AppendSourceFile(paths ...string) error {
	for _, path := range paths {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return zerr.With(zerr.Wrap(domain.ErrNotAFile, "source is a directory"), "path", path)
		}
	}
	for _, path := range paths {
		b.addSource(path)
	}
	return nil
}

func (b *Build) addSource(path string) {
	if !domain.IsSourceFile(path) {
		return
	}
	src := domain.NewSourcePath(path)
	if _, ok := b.sourceSet[src.Handle()]; ok {
		return
	}
	b.sourceSet[src.Handle()] = struct{}{}
	b.sources = append(b.sources, src)
}

// AppendSourceDir registers every source file in dir, descending into subdirectories when
// recursive is set. Files are visited in lexical order; .git directories are skipped.
func (b *Build) AppendSourceDir(dir string, recursive bool) error {
	if err := requireDir(dir); err != nil {
		return err
	}

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to walk source directory"), "path", path)
		}
		if d.IsDir() {
			if path == dir {
				return nil
			}
			if !recursive || d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		b.addSource(path)
		return nil
	})
}

// AppendIncludeDir registers include directories. Every subdirectory is registered as well,
// recursively, ahead of the directory containing it. When any directory is rejected nothing is
// registered.
func (b *Build) AppendIncludeDir(dirs ...string) error {
	if err := requireDirs(dirs); err != nil {
		return err
	}
	var tree []string
	for _, dir := range dirs {
		var err error
		if tree, err = appendIncludeTree(tree, dir); err != nil {
			return err
		}
	}
	b.includeDirs = append(b.includeDirs, tree...)
	return nil
}

func appendIncludeTree(tree []string, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return tree, zerr.With(zerr.Wrap(err, "failed to read include directory"), "path", dir)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if tree, err = appendIncludeTree(tree, filepath.Join(dir, entry.Name())); err != nil {
			return tree, err
		}
	}
	return append(tree, dir), nil
}

// AppendLinkDir registers library search directories. When any directory is rejected nothing is
// registered.
func (b *Build) AppendLinkDir(dirs ...string) error {
	if err := requireDirs(dirs); err != nil {
		return err
	}
	b.linkDirs = append(b.linkDirs, dirs...)
	return nil
}

func requireDirs(dirs []string) error {
	for _, dir := range dirs {
		if err := requireDir(dir); err != nil {
			return err
		}
	}
	return nil
}

func requireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return zerr.With(zerr.Wrap(domain.ErrNotADirectory, "expected a directory"), "path", path)
	}
	return nil
}
