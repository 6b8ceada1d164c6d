// Package ports defines the core interfaces for the application.
package ports

import "io"

// Shell starts command lines in the user's shell.
//
//go:generate go run go.uber.org/mock/mockgen -source=shell.go -destination=mocks/mock_shell.go -package=mocks
type Shell interface {
	// Start launches commandLine and returns once the child is running.
	//
	// stdout and stderr receive the child's output while it runs. A nil writer discards the stream.
	// Start returns an error wrapping domain.ErrProcessSpawn when the child cannot be launched.
	Start(commandLine string, stdout, stderr io.Writer) (Process, error)
}

// Process is a running child started by a Shell.
type Process interface {
	// Wait blocks until the child exits and all of its output has been written.
	// A non-zero exit status is returned as the code with a nil error.
	Wait() (int, error)
}
