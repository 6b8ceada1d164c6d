// Package linker turns compiled objects into the target artifact.
package linker

import (
	"context"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/invoke"
	"go.trai.ch/zerr"
)

// Archiver is the tool static libraries are created with.
const Archiver = "ar"

// Spec describes one link step.
type Spec struct {
	Name      string
	Type      domain.BuildType
	Compiler  domain.Compiler
	OutputDir string
	Objects   []string
	LinkDirs  []string
	Links     []string
}

// Artifact returns the path the link step writes.
// OutputDir is expected to end with a path separator.
func (s Spec) Artifact() string {
	if s.Type == domain.Library {
		return s.OutputDir + "lib" + s.Name + ".a"
	}
	return s.OutputDir + s.Name
}

// Command returns the tokens of the link command.
//
// Executables are linked by the compiler driver with every object, then each link directory and
// library. Static libraries are archived with `ar rvs`; link directories and libraries do not
// apply to them.
func Command(spec Spec) []string {
	if spec.Type == domain.Library {
		tokens := make([]string, 0, 3+len(spec.Objects))
		tokens = append(tokens, Archiver, "rvs", spec.Artifact())
		return append(tokens, spec.Objects...)
	}

	tokens := make([]string, 0, 3+len(spec.Objects)+2*(len(spec.LinkDirs)+len(spec.Links)))
	tokens = append(tokens, spec.Compiler.Driver)
	tokens = append(tokens, spec.Objects...)
	for _, dir := range spec.LinkDirs {
		tokens = append(tokens, "-L", dir)
	}
	for _, lib := range spec.Links {
		tokens = append(tokens, "-l", lib)
	}
	return append(tokens, "-o", spec.Artifact())
}

// Result is the outcome of a link step.
type Result struct {
	ExitCode int
	Stderr   []string
	Artifact string
}

// Linker runs link commands.
type Linker struct {
	shell    ports.Shell
	logger   ports.Logger
	tracer   ports.Tracer
	recorder ports.Recorder
}

// New creates a Linker with the given dependencies.
func New(shell ports.Shell, logger ports.Logger, tracer ports.Tracer, recorder ports.Recorder) *Linker {
	return &Linker{
		shell:    shell,
		logger:   logger,
		tracer:   tracer,
		recorder: recorder,
	}
}

// Link runs the link command for spec. A non-zero exit status is reported in the Result with the
// captured stderr; the error is non-nil only when the process could not be run.
func (l *Linker) Link(ctx context.Context, spec Spec) (Result, error) {
	_, span := l.tracer.Start(ctx, "link",
		ports.WithAttribute("target", spec.Name),
		ports.WithAttribute("type", spec.Type.String()),
		ports.WithAttribute("objects", len(spec.Objects)),
	)
	defer span.End()

	start := time.Now()
	out, err := invoke.New(l.shell, l.logger, Command(spec)...).RunCapturingOutput()
	elapsed := time.Since(start)

	res := Result{ExitCode: out.ExitCode, Stderr: out.Stderr, Artifact: spec.Artifact()}
	span.SetAttribute("exit_code", out.ExitCode)

	if err != nil {
		l.recorder.ObserveLink(elapsed, false)
		span.RecordError(err)
		return res, zerr.With(zerr.Wrap(err, "link step could not run"), "target", spec.Name)
	}

	if out.ExitCode != 0 {
		l.recorder.ObserveLink(elapsed, false)
		failure := zerr.With(zerr.With(zerr.New("link failed"), "target", spec.Name), "exit_code", out.ExitCode)
		span.RecordError(failure)
		l.logger.Error(failure)
		for _, line := range out.Stderr {
			l.logger.Error(zerr.New(line))
		}
		return res, nil
	}

	l.recorder.ObserveLink(elapsed, true)
	return res, nil
}
