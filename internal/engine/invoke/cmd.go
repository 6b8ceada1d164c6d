// Package invoke implements command invocations: token lists run as one external process.
package invoke

import (
	"io"
	"slices"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

// Cmd is an ordered, mutable list of command line tokens bound to a shell and a logger.
//
// Tokens are joined with single spaces and handed to the shell as-is. No escaping is performed;
// callers are responsible for token safety.
type Cmd struct {
	shell  ports.Shell
	logger ports.Logger
	tokens []string
}

// New creates a Cmd holding the given tokens.
func New(shell ports.Shell, logger ports.Logger, tokens ...string) *Cmd {
	return &Cmd{
		shell:  shell,
		logger: logger,
		tokens: slices.Clone(tokens),
	}
}

// Append adds tokens verbatim to the end of the command.
func (c *Cmd) Append(tokens ...string) *Cmd {
	c.tokens = append(c.tokens, tokens...)
	return c
}

// Clear empties the token list so the Cmd can be reused.
func (c *Cmd) Clear() {
	c.tokens = c.tokens[:0]
}

// Len returns the number of tokens.
func (c *Cmd) Len() int {
	return len(c.tokens)
}

// Tokens returns a copy of the tokens.
func (c *Cmd) Tokens() []string {
	return slices.Clone(c.tokens)
}

// String joins the tokens with a single space.
func (c *Cmd) String() string {
	return strings.Join(c.tokens, " ")
}

// Run executes the command, discards its output and returns its exit code.
func (c *Cmd) Run() (int, error) {
	proc, err := c.start(nil, nil)
	if err != nil {
		return -1, err
	}
	return proc.Wait()
}

// RunAsync starts the command and returns a handle resolving to its exit code.
func (c *Cmd) RunAsync() *Future[int] {
	proc, err := c.start(nil, nil)
	if err != nil {
		return Resolved(-1, err)
	}
	return Go(proc.Wait)
}

// RunCapturingOutput executes the command and returns its exit code and output lines.
func (c *Cmd) RunCapturingOutput() (domain.Output, error) {
	return c.RunAsyncCapturingOutput().Await()
}

// RunAsyncCapturingOutput starts the command with both streams collected into lines while it runs.
func (c *Cmd) RunAsyncCapturingOutput() *Future[domain.Output] {
	stdout := &lineWriter{}
	stderr := &lineWriter{}

	proc, err := c.start(stdout, stderr)
	if err != nil {
		return Resolved(domain.Output{ExitCode: -1}, err)
	}

	return Go(func() (domain.Output, error) {
		code, err := proc.Wait()
		return domain.Output{
			ExitCode: code,
			Stdout:   stdout.Lines(),
			Stderr:   stderr.Lines(),
		}, err
	})
}

// RunRedirectingOutput executes the command streaming its output into the given writers.
func (c *Cmd) RunRedirectingOutput(stdout, stderr io.Writer) (int, error) {
	return c.RunAsyncRedirectingOutput(stdout, stderr).Await()
}

// RunAsyncRedirectingOutput starts the command streaming its output into the given writers.
func (c *Cmd) RunAsyncRedirectingOutput(stdout, stderr io.Writer) *Future[int] {
	proc, err := c.start(stdout, stderr)
	if err != nil {
		return Resolved(-1, err)
	}
	return Go(proc.Wait)
}

// start logs the command line and launches it. The line is taken at call time, so later
// mutations of the Cmd do not affect a process that is already running.
func (c *Cmd) start(stdout, stderr io.Writer) (ports.Process, error) {
	if len(c.tokens) == 0 {
		return nil, domain.ErrEmptyCommand
	}

	line := c.String()
	c.logger.Info(line)

	return c.shell.Start(line, stdout, stderr)
}
