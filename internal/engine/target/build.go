// Package target implements the build configuration of one C/C++ target.
package target

import (
	"io"
	"os"
	"slices"
	"strings"
	"unique"

	"go.trai.ch/kiln/internal/adapters/metrics"   //nolint:depguard // default recorder
	"go.trai.ch/kiln/internal/adapters/telemetry" //nolint:depguard // default tracer
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

// Build is the configuration of one target: its sources, search paths, toolchain and output.
//
// A Build is not safe for concurrent use. It may be reused for another target with Clear.
type Build struct {
	logger   ports.Logger
	shell    ports.Shell
	tracer   ports.Tracer
	recorder ports.Recorder
	stdout   io.Writer
	stderr   io.Writer

	name        string
	compiler    domain.Compiler
	standard    domain.Standard
	buildType   domain.BuildType
	outputDir   string
	sources     []domain.SourcePath
	sourceSet   map[unique.Handle[string]]struct{}
	includeDirs []string
	linkDirs    []string
	links       []string
	flags       []string

	parallel    bool
	incremental bool
	export      bool
}

// Option configures the collaborators of a Build.
type Option func(*Build)

// WithTracer sets the tracer spans are started on.
func WithTracer(tracer ports.Tracer) Option {
	return func(b *Build) {
		b.tracer = tracer
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder ports.Recorder) Option {
	return func(b *Build) {
		b.recorder = recorder
	}
}

// WithOutput sets where BuildAndRun streams the program's output, os.Stdout and os.Stderr by
// default.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(b *Build) {
		b.stdout = stdout
		b.stderr = stderr
	}
}

// New creates a Build named name with the default configuration: g++, C++20, an executable in
// ./build/, parallel and incremental compilation, and compile_commands.json export.
func New(name string, logger ports.Logger, shell ports.Shell, opts ...Option) *Build {
	b := &Build{
		logger:   logger,
		shell:    shell,
		tracer:   telemetry.NewNoOpTracer(),
		recorder: metrics.NoopRecorder{},
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.Clear(name)
	return b
}

// Clear resets the configuration to the defaults and renames the target.
func (b *Build) Clear(name string) {
	b.name = name
	b.compiler = domain.GPP
	b.standard = domain.CXX20
	b.buildType = domain.Executable
	b.outputDir = domain.DefaultOutputDir
	b.sources = nil
	b.sourceSet = make(map[unique.Handle[string]]struct{})
	b.includeDirs = nil
	b.linkDirs = nil
	b.links = nil
	b.flags = nil
	b.parallel = true
	b.incremental = true
	b.export = true
}

// Name returns the target name.
func (b *Build) Name() string { return b.name }

// OutputDir returns the output directory, always ending with a separator.
func (b *Build) OutputDir() string { return b.outputDir }

// BuildType returns the kind of artifact the target produces.
func (b *Build) BuildType() domain.BuildType { return b.buildType }

// Sources returns the registered sources in registration order.
func (b *Build) Sources() []string {
	out := make([]string, 0, len(b.sources))
	for _, src := range b.sources {
		out = append(out, src.String())
	}
	return out
}

// IncludeDirs returns the registered include directories.
func (b *Build) IncludeDirs() []string { return slices.Clone(b.includeDirs) }

// LinkDirs returns the registered link directories.
func (b *Build) LinkDirs() []string { return slices.Clone(b.linkDirs) }

// Links returns the registered libraries.
func (b *Build) Links() []string { return slices.Clone(b.links) }

// Flags returns the compiler flags, each with its leading dash.
func (b *Build) Flags() []string { return slices.Clone(b.flags) }

// Artifact returns the path of the executable or static library.
func (b *Build) Artifact() string {
	return b.linkSpec().Artifact()
}

// SetParallel selects whether stale sources are compiled together.
func (b *Build) SetParallel(parallel bool) { b.parallel = parallel }

// SetIncremental selects whether up-to-date objects are reused.
func (b *Build) SetIncremental(incremental bool) { b.incremental = incremental }

// SetStd sets the language standard.
func (b *Build) SetStd(std domain.Standard) { b.standard = std }

// SetCompiler sets the compiler driver.
func (b *Build) SetCompiler(compiler domain.Compiler) { b.compiler = compiler }

// SetBuildType sets the kind of artifact produced.
func (b *Build) SetBuildType(buildType domain.BuildType) { b.buildType = buildType }

// SetExportCompileCommands selects whether compile_commands.json is written.
func (b *Build) SetExportCompileCommands(export bool) { b.export = export }

// EnableWarnings adds -Wall and -Wextra.
func (b *Build) EnableWarnings() {
	b.AppendFlag("Wall", "Wextra")
}

// AppendFlag adds compiler flags given without their leading dash.
func (b *Build) AppendFlag(flags ...string) {
	for _, f := range flags {
		b.flags = append(b.flags, "-"+f)
	}
}

// AppendLinkFile adds libraries to link against, by name without the lib prefix.
func (b *Build) AppendLinkFile(libs ...string) {
	b.links = append(b.links, libs...)
}

// withSeparator returns path ending with exactly one trailing slash.
func withSeparator(path string) string {
	if strings.HasSuffix(path, "/") {
		return path
	}
	return path + "/"
}
