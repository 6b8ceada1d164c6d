package app

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"go.trai.ch/kiln/internal/adapters/watcher" //nolint:depguard // debouncer is wired in app layer
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// headerExtensions lists the extensions of files whose change triggers a rebuild besides sources.
var headerExtensions = []string{".h", ".hh", ".hpp", ".hxx"}

// WatchOptions configures the Watch method.
type WatchOptions struct {
	BuildOptions
	// Window is the debounce window, watcher.DefaultDebounceWindow when zero.
	Window time.Duration
}

// Watch builds the selected targets, then rebuilds them whenever a source or header below one of
// their directories changes, until ctx is done. Build failures are logged and watching goes on.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	project, err := a.loader.Load(opts.Manifest)
	if err != nil {
		return zerr.Wrap(err, "failed to load manifest")
	}
	specs, err := selectTargets(project, opts.Targets)
	if err != nil {
		return err
	}
	roots := watchRoots(specs)
	if len(roots) == 0 {
		return zerr.Wrap(domain.ErrNothingToWatch, "cannot watch")
	}

	a.rebuild(ctx, opts.BuildOptions)

	if err := a.watcher.Start(ctx, roots...); err != nil {
		return zerr.Wrap(err, "failed to start watcher")
	}

	window := opts.Window
	if window == 0 {
		window = watcher.DefaultDebounceWindow
	}
	trigger := make(chan []string)
	debouncer := watcher.NewDebouncer(window, func(paths []string) {
		select {
		case trigger <- paths:
		case <-ctx.Done():
		}
	})

	forwarded := make(chan struct{})
	go func() {
		defer close(forwarded)
		for ev := range a.watcher.Events() {
			if triggersRebuild(ev.Path) {
				debouncer.Add(ev.Path)
			}
		}
	}()

	a.logger.Info(fmt.Sprintf("watching %d directories for changes", len(roots)))
	for {
		select {
		case <-ctx.Done():
			err := a.watcher.Stop()
			<-forwarded
			return err
		case paths := <-trigger:
			a.logger.Info(fmt.Sprintf("%d file(s) changed, rebuilding", len(paths)))
			a.rebuild(ctx, opts.BuildOptions)
		}
	}
}

func (a *App) rebuild(ctx context.Context, opts BuildOptions) {
	if err := a.Build(ctx, opts); err != nil {
		a.logger.Error(err)
	}
}

// watchRoots returns the sorted, distinct directories holding the targets' sources and headers.
func watchRoots(specs []domain.TargetSpec) []string {
	var roots []string
	for _, spec := range specs {
		roots = append(roots, spec.SourceDirs...)
		roots = append(roots, spec.IncludeDirs...)
		for _, src := range spec.Sources {
			roots = append(roots, filepath.Dir(src))
		}
	}
	for i, root := range roots {
		roots[i] = filepath.Clean(root)
	}
	slices.Sort(roots)
	return slices.Compact(roots)
}

func triggersRebuild(path string) bool {
	return domain.IsSourceFile(path) || slices.Contains(headerExtensions, filepath.Ext(path))
}
