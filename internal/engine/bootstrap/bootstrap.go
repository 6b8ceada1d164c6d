// Package bootstrap rebuilds and relaunches a build program whose source changed.
package bootstrap

import (
	"errors"
	"io"
	"os"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/invoke"
	"go.trai.ch/kiln/internal/engine/staleness"
	"go.trai.ch/zerr"
)

// RebuildFunc returns the tokens of the command that compiles source into binary.
type RebuildFunc func(binary, source string) []string

// GoBuild is the default RebuildFunc: `go build -o <binary> <source>`.
func GoBuild(binary, source string) []string {
	return []string{"go", "build", "-o", binary, source}
}

// Bootstrap checks a running build program against its source.
type Bootstrap struct {
	shell   ports.Shell
	logger  ports.Logger
	rebuild RebuildFunc
	exit    func(int)
	stdout  io.Writer
	stderr  io.Writer
}

// Option configures a Bootstrap.
type Option func(*Bootstrap)

// WithRebuildCommand replaces the command used to recompile the build program.
func WithRebuildCommand(fn RebuildFunc) Option {
	return func(b *Bootstrap) {
		b.rebuild = fn
	}
}

// WithExit replaces the function used to terminate the process, os.Exit by default.
func WithExit(exit func(int)) Option {
	return func(b *Bootstrap) {
		b.exit = exit
	}
}

// WithOutput sets where the relaunched program's output is streamed, os.Stdout and os.Stderr
// by default.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(b *Bootstrap) {
		b.stdout = stdout
		b.stderr = stderr
	}
}

// New creates a Bootstrap.
func New(shell ports.Shell, logger ports.Logger, opts ...Option) *Bootstrap {
	b := &Bootstrap{
		shell:   shell,
		logger:  logger,
		rebuild: GoBuild,
		exit:    os.Exit,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// RebuildSelf recompiles binary from source when source is strictly newer, relaunches it with
// args and terminates the process with the relaunched program's exit code.
//
// When binary is up to date RebuildSelf returns nil and the caller carries on. When the rebuild
// fails the process terminates with the rebuild's exit code after logging its stderr. The
// returned error is non-nil only when the files cannot be inspected or a process cannot be
// spawned.
func (b *Bootstrap) RebuildSelf(binary, source string, args ...string) error {
	stale, err := staleness.IsNewer(source, binary)
	if err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrSelfRebuildFailed, err), "failed to compare build program with its source"), "binary", binary)
	}
	if !stale {
		return nil
	}

	b.logger.Info("rebuilding " + binary + " from " + source)

	out, err := invoke.New(b.shell, b.logger, b.rebuild(binary, source)...).RunCapturingOutput()
	if err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrSelfRebuildFailed, err), "rebuild could not run"), "binary", binary)
	}
	if out.ExitCode != 0 {
		b.logger.Error(zerr.With(zerr.New("rebuild failed"), "exit_code", out.ExitCode))
		for _, line := range out.Stderr {
			b.logger.Error(zerr.New(line))
		}
		b.exit(out.ExitCode)
		return nil
	}

	relaunch := invoke.New(b.shell, b.logger, binary).Append(args...)
	code, err := relaunch.RunRedirectingOutput(b.stdout, b.stderr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "relaunch failed"), "binary", binary)
	}

	b.exit(code)
	return nil
}
