package app

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/engine/target"
	"go.trai.ch/zerr"
)

// BuildOptions configures the Build method.
type BuildOptions struct {
	Manifest string
	// Targets selects targets by name. Empty means every target in manifest order.
	Targets []string
	// Sequential compiles one source at a time regardless of the manifest.
	Sequential bool
	// Rebuild recompiles every source regardless of object timestamps.
	Rebuild bool
	// MetricsOut is a Prometheus text file written after the build, if set.
	MetricsOut string
}

// Build fetches the manifest's dependencies and builds the selected targets in order.
//
// Building stops at the first target whose compile or link step fails. That failure is
// returned as a *FailedBuildError.
func (a *App) Build(ctx context.Context, opts BuildOptions) (err error) {
	defer func() { err = errors.Join(err, a.exportMetrics(opts.MetricsOut)) }()

	project, err := a.loadProject(ctx, opts.Manifest)
	if err != nil {
		return err
	}

	specs, err := selectTargets(project, opts.Targets)
	if err != nil {
		return err
	}

	var b *target.Build
	for _, spec := range specs {
		if b == nil {
			b = a.newBuild(spec.Name)
		}
		if err := configure(b, spec, opts.Sequential, opts.Rebuild); err != nil {
			return err
		}

		report, err := b.Build(ctx)
		a.record(report)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "build failed"), "target", spec.Name)
		}
		if err := failureOf(report); err != nil {
			return err
		}
		if !report.UpToDate() {
			a.logger.Info(fmt.Sprintf("built %s (%d compiled) in %s", report.Artifact, len(report.Compiled), report.Duration))
		}
	}

	return nil
}

// RunOptions configures the Run method.
type RunOptions struct {
	Manifest string
	Target   string
	// Args are passed to the program. Nil means the manifest's args.
	Args       []string
	Sequential bool
	Rebuild    bool
	MetricsOut string
}

// Run builds one executable target and runs it. A non-zero exit status of the program is
// returned as a *FailedBuildError with StageRun.
func (a *App) Run(ctx context.Context, opts RunOptions) (err error) {
	defer func() { err = errors.Join(err, a.exportMetrics(opts.MetricsOut)) }()

	project, err := a.loadProject(ctx, opts.Manifest)
	if err != nil {
		return err
	}

	specs, err := selectTargets(project, []string{opts.Target})
	if err != nil {
		return err
	}
	spec := specs[0]

	b := a.newBuild(spec.Name)
	if err := configure(b, spec, opts.Sequential, opts.Rebuild); err != nil {
		return err
	}

	args := opts.Args
	if args == nil {
		args = spec.RunArgs
	}

	report, err := b.BuildAndRun(ctx, args...)
	a.record(report)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "run failed"), "target", spec.Name)
	}
	return failureOf(report)
}

// loadProject loads the manifest and fetches its dependencies.
func (a *App) loadProject(ctx context.Context, manifest string) (*domain.Project, error) {
	project, err := a.loader.Load(manifest)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load manifest")
	}
	if err := a.fetchDependencies(ctx, project.Dependencies); err != nil {
		return nil, err
	}
	return project, nil
}

// selectTargets returns the named targets in the order given, or every target when names is empty.
func selectTargets(project *domain.Project, names []string) ([]domain.TargetSpec, error) {
	if len(names) == 0 {
		return project.Targets, nil
	}

	specs := make([]domain.TargetSpec, 0, len(names))
	for _, name := range names {
		spec, ok := project.Target(name)
		if !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrUnknownTarget, "cannot select target"), "target", name)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// configure resets b and applies spec to it.
func configure(b *target.Build, spec domain.TargetSpec, sequential, rebuild bool) error {
	b.Clear(spec.Name)
	b.SetBuildType(spec.Type)
	b.SetCompiler(spec.Compiler)
	b.SetStd(spec.Standard)
	b.SetParallel(spec.Parallel && !sequential)
	b.SetIncremental(spec.Incremental && !rebuild)
	b.SetExportCompileCommands(spec.ExportCompileCommands)
	b.AppendLinkFile(spec.Links...)
	b.AppendFlag(spec.Flags...)
	if spec.Warnings {
		b.EnableWarnings()
	}

	if err := b.SetOutputDir(spec.OutputDir); err != nil {
		return err
	}
	if err := b.AppendIncludeDir(spec.IncludeDirs...); err != nil {
		return err
	}
	if err := b.AppendLinkDir(spec.LinkDirs...); err != nil {
		return err
	}
	if err := b.AppendSourceFile(spec.Sources...); err != nil {
		return err
	}
	for _, dir := range spec.SourceDirs {
		if err := b.AppendSourceDir(dir, spec.Recursive); err != nil {
			return err
		}
	}
	return nil
}

// record persists the outcome of a build. Store failures are logged, not returned.
func (a *App) record(report domain.BuildReport) {
	if report.BuildID == "" {
		return
	}
	if err := a.store.Put(domain.NewBuildRecord(report, a.now())); err != nil {
		a.logger.Error(err)
	}
}

func (a *App) exportMetrics(path string) error {
	if path == "" {
		return nil
	}
	return a.metrics.WriteTextfile(path)
}
