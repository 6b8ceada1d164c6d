package target

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/invoke"
	"go.trai.ch/kiln/internal/engine/linker"
	"go.trai.ch/kiln/internal/engine/scheduler"
	"go.trai.ch/kiln/internal/engine/staleness"
	"go.trai.ch/zerr"
)

// Build compiles the stale sources and, when anything was compiled, links the artifact.
//
// Compiler, linker and archiver exit statuses are reported in the BuildReport. The error is
// non-nil only when the build could not be carried out: a process could not be spawned, a file
// could not be inspected or compile_commands.json could not be written.
func (b *Build) Build(ctx context.Context) (domain.BuildReport, error) {
	start := time.Now()
	report := domain.BuildReport{
		BuildID:  uuid.NewString(),
		Target:   b.name,
		Artifact: b.Artifact(),
	}

	ctx, span := b.tracer.Start(ctx, "build",
		ports.WithAttribute("target", b.name),
		ports.WithAttribute("build_id", report.BuildID),
	)
	defer span.End()

	report, err := b.build(ctx, report)
	report.Duration = time.Since(start)

	outcome := ports.OutcomeSuccess
	switch {
	case err != nil:
		span.RecordError(err)
		outcome = ports.OutcomeFailed
	case !report.Succeeded():
		span.RecordError(zerr.With(zerr.New("build failed"), "stage", string(report.Stage)))
		outcome = ports.OutcomeFailed
	case report.UpToDate():
		outcome = ports.OutcomeUpToDate
	}
	span.SetAttribute("exit_code", report.ExitCode)
	b.recorder.ObserveBuild(b.name, report.Duration, outcome)

	return report, err
}

func (b *Build) build(ctx context.Context, report domain.BuildReport) (domain.BuildReport, error) {
	objectDir := b.outputDir + domain.ObjectDirName + "/"
	if err := b.makeDir(objectDir); err != nil {
		return report, err
	}

	sources := b.Sources()
	objects := objectNames(objectDir, sources)
	decide := staleness.New(b.incremental)

	var jobs []*domain.CompileJob
	commands := make([]domain.CompileCommand, 0, len(sources))
	for _, src := range sources {
		obj := objects[src]
		tokens := b.compileCommand(src, obj)
		commands = append(commands, domain.CompileCommand{
			Command: invoke.New(b.shell, b.logger, tokens...).String(),
			File:    src,
			Output:  obj,
		})

		decision, err := decide.Decide(src, obj)
		if err != nil {
			return report, err
		}
		if decision == staleness.Stale {
			jobs = append(jobs, domain.NewCompileJob(src, obj, tokens))
		}
	}

	if b.export {
		if err := b.writeCompileCommands(commands); err != nil {
			return report, err
		}
	}

	if len(jobs) == 0 {
		b.logger.Info(fmt.Sprintf("target %s already up to date", b.name))
		return report, nil
	}

	mode := scheduler.Parallel
	if !b.parallel {
		mode = scheduler.Sequential
	}
	summary, err := scheduler.NewScheduler(b.shell, b.logger, b.tracer, b.recorder).Run(ctx, jobs, mode)
	for _, job := range jobs[:summary.Launched] {
		report.Compiled = append(report.Compiled, job.Source)
	}
	if err != nil {
		return report, err
	}
	if summary.Failed != nil {
		report.ExitCode = summary.Failed.ExitCode
		report.Stage = domain.StageCompile
		report.Stderr = summary.Failed.Stderr
		return report, nil
	}

	linkSpec := b.linkSpec()
	for _, src := range sources {
		linkSpec.Objects = append(linkSpec.Objects, objects[src])
	}
	res, err := linker.New(b.shell, b.logger, b.tracer, b.recorder).Link(ctx, linkSpec)
	if err != nil {
		return report, err
	}
	if res.ExitCode != 0 {
		report.ExitCode = res.ExitCode
		report.Stage = domain.StageLink
		report.Stderr = res.Stderr
		return report, nil
	}

	report.Linked = true
	return report, nil
}

// compileCommand returns the tokens compiling src into obj.
func (b *Build) compileCommand(src, obj string) []string {
	tokens := make([]string, 0, 6+len(b.includeDirs)+len(b.linkDirs)+len(b.links)+len(b.flags))
	tokens = append(tokens, b.compiler.Driver)
	for _, dir := range b.includeDirs {
		tokens = append(tokens, "-I"+dir)
	}
	for _, dir := range b.linkDirs {
		tokens = append(tokens, "-L"+dir)
	}
	for _, lib := range b.links {
		tokens = append(tokens, "-l"+lib)
	}
	tokens = append(tokens, b.flags...)
	if b.standard.AppliesTo(src) {
		tokens = append(tokens, b.standard.VersionFlag)
	}
	return append(tokens, "-c", "-o", obj, src)
}

func (b *Build) linkSpec() linker.Spec {
	return linker.Spec{
		Name:      b.name,
		Type:      b.buildType,
		Compiler:  b.compiler,
		OutputDir: b.outputDir,
		LinkDirs:  b.linkDirs,
		Links:     b.links,
	}
}

// writeCompileCommands writes one entry per registered source to compile_commands.json.
func (b *Build) writeCompileCommands(commands []domain.CompileCommand) error {
	path := b.outputDir + domain.CompileCommandsFileName

	wd, err := os.Getwd()
	if err != nil {
		return zerr.Wrap(errors.Join(domain.ErrCompileCommandsWrite, err), "failed to resolve working directory")
	}
	for i := range commands {
		commands[i].Directory = wd
	}

	data, err := json.MarshalIndent(commands, "", "  ")
	if err != nil {
		return zerr.Wrap(errors.Join(domain.ErrCompileCommandsWrite, err), "failed to encode compile commands")
	}
	if err := os.WriteFile(filepath.Clean(path), append(data, '\n'), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrCompileCommandsWrite, err), "failed to write compile commands"), "path", path)
	}
	return nil
}

// BuildAndRun builds the target and, when the build succeeded, runs the executable with args,
// streaming its output. The report carries the program's exit status with StageRun.
func (b *Build) BuildAndRun(ctx context.Context, args ...string) (domain.BuildReport, error) {
	if b.buildType == domain.Library {
		return domain.BuildReport{Target: b.name}, zerr.With(zerr.Wrap(domain.ErrCannotRunLibrary, "build and run rejected"), "target", b.name)
	}

	report, err := b.Build(ctx)
	if err != nil || !report.Succeeded() {
		return report, err
	}

	_, span := b.tracer.Start(ctx, "run", ports.WithAttribute("target", b.name))
	defer span.End()

	code, err := invoke.New(b.shell, b.logger, report.Artifact).Append(args...).RunRedirectingOutput(b.stdout, b.stderr)
	span.SetAttribute("exit_code", code)
	if err != nil {
		span.RecordError(err)
		return report, zerr.With(zerr.Wrap(err, "failed to run target"), "target", b.name)
	}

	report.ExitCode = code
	report.Stage = domain.StageRun
	return report, nil
}
