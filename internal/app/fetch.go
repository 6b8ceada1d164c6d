package app

import (
	"context"
	"fmt"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Fetch downloads and unpacks the manifest's dependencies without building anything.
func (a *App) Fetch(ctx context.Context, manifest string) error {
	project, err := a.loader.Load(manifest)
	if err != nil {
		return zerr.Wrap(err, "failed to load manifest")
	}
	return a.fetchDependencies(ctx, project.Dependencies)
}

// fetchDependencies fetches every dependency on its own goroutine. A dependency marked for
// extraction is decompressed once its download finished; one that already existed is not.
func (a *App) fetchDependencies(ctx context.Context, deps []domain.Dependency) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, dep := range deps {
		g.Go(func() error {
			return a.fetchOne(ctx, dep)
		})
	}
	return g.Wait()
}

func (a *App) fetchOne(ctx context.Context, dep domain.Dependency) error {
	status, err := a.fetcher.Fetch(ctx, dep.URL, dep.Dest, dep.Kind)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to fetch dependency"), "dependency", dep.Name)
	}
	if status == domain.FetchAlreadyExists {
		return nil
	}

	if dep.Extract {
		code, err := a.fetcher.Decompress(ctx, dep.Dest)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to decompress dependency"), "dependency", dep.Name)
		}
		if code != 0 {
			err := zerr.With(zerr.Wrap(domain.ErrFetchFailed, "decompression failed"), "dependency", dep.Name)
			return zerr.With(err, "exit_code", code)
		}
	}

	a.logger.Info(fmt.Sprintf("fetched %s into %s", dep.Name, dep.Dest))
	return nil
}
