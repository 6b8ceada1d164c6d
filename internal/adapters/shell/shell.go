// Package shell provides the system shell adapter used to spawn child processes.
package shell

import (
	"errors"
	"io"
	"os"
	"os/exec"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultShell is used when $SHELL is unset.
const DefaultShell = "/bin/sh"

var _ ports.Shell = (*System)(nil)

// System implements ports.Shell by running command lines through `<shell> -c`.
type System struct {
	path string
}

// New creates a System using the invoking user's $SHELL, falling back to DefaultShell.
func New() *System {
	path := os.Getenv("SHELL")
	if path == "" {
		path = DefaultShell
	}
	return &System{path: path}
}

// NewWithPath creates a System that uses the given shell binary.
func NewWithPath(path string) *System {
	return &System{path: path}
}

// Path returns the shell binary command lines are passed to.
func (s *System) Path() string {
	return s.path
}

// Start launches commandLine in the shell.
//
// Non-file writers make os/exec copy the child's output from pipes on its own goroutines, so
// both streams are drained while the child runs and a full pipe buffer cannot stall it.
func (s *System) Start(commandLine string, stdout, stderr io.Writer) (ports.Process, error) {
	cmd := exec.Command(s.path, "-c", commandLine) //nolint:gosec // command lines are assembled by the build program
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		spawnErr := zerr.Wrap(errors.Join(domain.ErrProcessSpawn, err), "failed to start shell")
		return nil, zerr.With(zerr.With(spawnErr, "shell", s.path), "command", commandLine)
	}

	return &process{cmd: cmd}, nil
}

type process struct {
	cmd *exec.Cmd
}

// Wait blocks until the child exits and its output has been copied.
func (p *process) Wait() (int, error) {
	err := p.cmd.Wait()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// ExitCode is -1 when the child was killed by a signal.
		return exitErr.ExitCode(), nil
	}

	return -1, zerr.Wrap(errors.Join(domain.ErrProcessWait, err), "command failed")
}
