// Package shelltest provides an in-memory ports.Shell for engine tests.
package shelltest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

var _ ports.Shell = (*Shell)(nil)

// Script is the canned behavior of a command line.
type Script struct {
	Exit     int
	Stdout   []string
	Stderr   []string
	SpawnErr error
}

type rule struct {
	substr string
	script Script
}

// Shell records every started command line and replays scripted results.
//
// Lines that match no rule exit with status zero. When CreateOutputs is set, `mkdir -p` lines
// create their directory and the file named after "-o" (or the archive after "ar rvs") is
// created once the process finishes, so mtime based decisions see fresh artifacts.
type Shell struct {
	CreateOutputs bool

	mu      sync.Mutex
	rules   []rule
	lines   []string
	gate    chan struct{}
	running int
	peak    int
}

// New creates an empty Shell.
func New() *Shell {
	return &Shell{}
}

// On scripts every line containing substr. Later rules take precedence.
func (s *Shell) On(substr string, script Script) *Shell {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = append(s.rules, rule{substr: substr, script: script})
	return s
}

// Hold makes every Wait block until the returned release function is called.
func (s *Shell) Hold() (release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gate := make(chan struct{})
	s.gate = gate
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// Lines returns the command lines started so far, in start order.
func (s *Shell) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.lines)
}

// Running returns the number of started processes that have not finished.
func (s *Shell) Running() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Peak returns the largest number of processes that were running at once.
func (s *Shell) Peak() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peak
}

// Start implements ports.Shell.
func (s *Shell) Start(commandLine string, stdout, stderr io.Writer) (ports.Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	script := s.match(commandLine)
	if script.SpawnErr != nil {
		return nil, script.SpawnErr
	}

	s.lines = append(s.lines, commandLine)
	s.running++
	s.peak = max(s.peak, s.running)

	return &process{
		shell:  s,
		line:   commandLine,
		script: script,
		stdout: stdout,
		stderr: stderr,
		gate:   s.gate,
	}, nil
}

func (s *Shell) match(line string) Script {
	for i := len(s.rules) - 1; i >= 0; i-- {
		if strings.Contains(line, s.rules[i].substr) {
			return s.rules[i].script
		}
	}
	return Script{}
}

func (s *Shell) finished() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running--
}

type process struct {
	shell  *Shell
	line   string
	script Script
	stdout io.Writer
	stderr io.Writer
	gate   chan struct{}
}

func (p *process) Wait() (int, error) {
	if p.gate != nil {
		<-p.gate
	}
	defer p.shell.finished()

	writeLines(p.stdout, p.script.Stdout)
	writeLines(p.stderr, p.script.Stderr)

	if p.script.Exit == 0 && p.shell.CreateOutputs {
		if dir, ok := strings.CutPrefix(p.line, "mkdir -p "); ok {
			if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
				return -1, err
			}
		} else if out := OutputOf(p.line); out != "" {
			if err := touch(out); err != nil {
				return -1, err
			}
		}
	}
	return p.script.Exit, nil
}

func writeLines(w io.Writer, lines []string) {
	if w == nil {
		return
	}
	for _, line := range lines {
		_, _ = fmt.Fprintln(w, line)
	}
}

// OutputOf returns the artifact a compile, link or archive line writes, or "".
func OutputOf(line string) string {
	fields := strings.Fields(line)
	for i, f := range fields {
		if f == "-o" && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	if len(fields) >= 3 && fields[0] == "ar" {
		return fields[2]
	}
	return ""
}

func touch(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return err
	}
	return os.WriteFile(path, nil, domain.FilePerm)
}
