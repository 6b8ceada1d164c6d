// Package logger implements a logging adapter using log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Logger = (*Logger)(nil)

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	level    slog.Level
	output   io.Writer
	exit     func(int)
}

// New creates a new Logger writing human-readable records to stderr.
func New() *Logger {
	l := &Logger{
		level:  slog.LevelInfo,
		output: os.Stderr,
		exit:   os.Exit,
	}
	l.rebuild()
	return l
}

// rebuild replaces the slog handler from the current settings. The caller must hold mu or
// own the Logger exclusively.
func (l *Logger) rebuild() {
	w := l.output
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: l.level}
	var handler slog.Handler
	if l.jsonMode {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	l.logger = slog.New(handler)
}

// SetOutput updates the logger's output destination.
// It preserves the current JSON mode and level. If w is nil, os.Stderr is used.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.output = w
	l.rebuild()
}

// SetJSON switches between JSON and text records.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.rebuild()
}

// SetLevel sets the minimum level that is written.
func (l *Logger) SetLevel(level slog.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.level = level
	l.rebuild()
}

// SetExitFunc replaces the function Fatal uses to terminate the process.
func (l *Logger) SetExitFunc(exit func(int)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.exit = exit
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error with its cause chain and metadata.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logError(err)
}

// Fatal logs err and exits the process with exitCode.
func (l *Logger) Fatal(err error, exitCode int) {
	l.mu.RLock()
	if err != nil {
		l.logError(zerr.With(err, "exit_code", exitCode))
	}
	exit := l.exit
	l.mu.RUnlock()

	exit(exitCode)
}

func (l *Logger) logError(err error) {
	entries := collectErrorEntries(err)
	if len(entries) == 0 {
		return
	}

	if l.jsonMode {
		args := make([]any, 0, 2+2*len(entries[0].Metadata))
		for _, kv := range sortedMetadata(entries[0].Metadata) {
			args = append(args, kv.key, kv.value)
		}
		causes := make([]string, 0, len(entries)-1)
		for _, e := range entries[1:] {
			causes = append(causes, e.Message)
		}
		if len(causes) > 0 {
			args = append(args, "causes", causes)
		}
		l.logger.Error(entries[0].Message, args...)
		return
	}

	l.logger.Error(formatErrorEntries(entries))
}

