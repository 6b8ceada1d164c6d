package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

const manifestTemplate = `name: %s
targets:
  - name: %s
    sourceDirs: [src]
    recursive: true
    warnings: true
`

const mainTemplate = `#include <iostream>

int main() {
    std::cout << "Hello World!" << std::endl;
    return 0;
}
`

// Init creates a new project named name in the directory dir: a manifest with one executable
// target, src/main.cpp and an empty build directory.
func (a *App) Init(dir, name string) error {
	manifest := filepath.Join(dir, domain.ManifestFileName)
	if _, err := os.Stat(manifest); err == nil {
		return zerr.With(zerr.Wrap(domain.ErrProjectExists, "cannot create project"), "path", manifest)
	}

	a.logger.Info("generating " + name + "...")

	for _, sub := range []string{"build", "src"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), domain.DirPerm); err != nil {
			return zerr.With(zerr.Wrap(errors.Join(domain.ErrOutputDirCreate, err), "cannot create project"), "path", dir)
		}
	}

	files := map[string]string{
		manifest:                               fmt.Sprintf(manifestTemplate, name, name),
		filepath.Join(dir, "src", "main.cpp"): mainTemplate,
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), domain.FilePerm); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to write project file"), "path", path)
		}
	}
	return nil
}
