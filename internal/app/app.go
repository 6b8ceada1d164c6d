// Package app implements the application layer for kiln.
package app

import (
	"io"
	"os"
	"time"

	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/target"
)

// Metrics records build metrics and can export them in the Prometheus text format.
type Metrics interface {
	ports.Recorder
	WriteTextfile(path string) error
}

// App represents the main application logic.
type App struct {
	loader  ports.ManifestLoader
	fetcher ports.Fetcher
	store   ports.BuildRecordStore
	watcher ports.Watcher
	logger  ports.Logger
	shell   ports.Shell
	tracer  ports.Tracer
	metrics Metrics

	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
}

// New creates a new App instance.
func New(
	loader ports.ManifestLoader,
	fetcher ports.Fetcher,
	store ports.BuildRecordStore,
	watcher ports.Watcher,
	logger ports.Logger,
	shell ports.Shell,
	tracer ports.Tracer,
	metrics Metrics,
) *App {
	return &App{
		loader:  loader,
		fetcher: fetcher,
		store:   store,
		watcher: watcher,
		logger:  logger,
		shell:   shell,
		tracer:  tracer,
		metrics: metrics,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		now:     time.Now,
	}
}

// WithOutput sets where run targets and status tables write. Used for testing.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithClock replaces the clock build records are stamped with. Used for testing.
func (a *App) WithClock(now func() time.Time) *App {
	a.now = now
	return a
}

// newBuild creates the build configuration every target of one command is built with.
func (a *App) newBuild(name string) *target.Build {
	return target.New(name, a.logger, a.shell,
		target.WithTracer(a.tracer),
		target.WithRecorder(a.metrics),
		target.WithOutput(a.stdout, a.stderr),
	)
}
