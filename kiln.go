// Package kiln lets C and C++ projects be built from ordinary Go programs.
//
// A build program creates a Build, configures its sources and flags, and calls Build or
// BuildAndRun:
//
//	func main() {
//		if err := kiln.RebuildSelf("./build-program", "build.go", os.Args[1:]...); err != nil {
//			log.Fatal(err)
//		}
//		b := kiln.New("hello", kiln.NewLogger(), kiln.NewSystemShell())
//		_ = b.AppendSourceDir("src", true)
//		report, err := b.Build(context.Background())
//		...
//	}
package kiln

import (
	"go.trai.ch/kiln/internal/adapters/fetch"
	"go.trai.ch/kiln/internal/adapters/logger"
	"go.trai.ch/kiln/internal/adapters/shell"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/bootstrap"
	"go.trai.ch/kiln/internal/engine/target"
)

type (
	// Build is the configuration of one C/C++ target.
	Build = target.Build
	// Option configures the collaborators of a Build.
	Option = target.Option
	// Report is the outcome of Build or BuildAndRun.
	Report = domain.BuildReport
	// Compiler identifies a compiler driver.
	Compiler = domain.Compiler
	// Standard is a language standard.
	Standard = domain.Standard
	// BuildType selects the kind of artifact a target produces.
	BuildType = domain.BuildType
	// Logger receives progress and errors.
	Logger = ports.Logger
	// Shell runs command lines.
	Shell = ports.Shell
	// OS identifies the host operating system family.
	OS = domain.OS
	// Arch identifies the host CPU architecture.
	Arch = domain.Arch
)

// Compiler drivers and language standards.
var (
	GCC     = domain.GCC
	GPP     = domain.GPP
	Clang   = domain.Clang
	ClangPP = domain.ClangPP

	C89   = domain.C89
	C99   = domain.C99
	C11   = domain.C11
	C17   = domain.C17
	CXX11 = domain.CXX11
	CXX14 = domain.CXX14
	CXX17 = domain.CXX17
	CXX20 = domain.CXX20
	CXX23 = domain.CXX23
)

// Build types.
const (
	Executable = domain.Executable
	Library    = domain.Library
)

var (
	// WithTracer sets the tracer a Build starts spans on.
	WithTracer = target.WithTracer
	// WithRecorder sets the metrics recorder of a Build.
	WithRecorder = target.WithRecorder
	// WithOutput sets where BuildAndRun streams the program's output.
	WithOutput = target.WithOutput
)

// New creates a Build named name with the defaults: g++, C++20, an executable in ./build/,
// parallel and incremental compilation.
func New(name string, log Logger, sh Shell, opts ...Option) *Build {
	return target.New(name, log, sh, opts...)
}

// NewSystemShell returns a Shell running commands through the user's $SHELL.
func NewSystemShell() Shell {
	return shell.New()
}

// NewLogger returns the default text logger writing to stderr.
func NewLogger() *logger.Logger {
	return logger.New()
}

// RebuildSelf recompiles the build program binary from source when source is newer, relaunches
// it with args and exits with its status. It returns nil when binary is up to date.
func RebuildSelf(binary, source string, args ...string) error {
	return bootstrap.New(NewSystemShell(), NewLogger()).RebuildSelf(binary, source, args...)
}

// FileExists reports whether anything exists at path.
func FileExists(path string) bool {
	return fetch.FileExists(path)
}

// ReadLines returns the lines of the file at path.
func ReadLines(path string) ([]string, error) {
	return fetch.ReadLines(path)
}

// SplitString splits s on delim.
func SplitString(s string, delim rune) []string {
	return fetch.SplitString(s, delim)
}

// CurrentOS returns the operating system kiln was compiled for.
func CurrentOS() OS {
	return domain.CurrentOS()
}

// CurrentArch returns the architecture kiln was compiled for.
func CurrentArch() Arch {
	return domain.CurrentArch()
}
