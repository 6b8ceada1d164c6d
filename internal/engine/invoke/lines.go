package invoke

import (
	"bytes"
	"strings"
)

// lineWriter collects written bytes into complete lines.
// Partial lines are buffered until a newline arrives or Lines is called.
type lineWriter struct {
	buf   []byte
	lines []string
}

func (w *lineWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.appendLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

// Lines flushes any trailing partial line and returns every line seen so far.
func (w *lineWriter) Lines() []string {
	if len(w.buf) > 0 {
		w.appendLine(w.buf)
		w.buf = nil
	}
	return w.lines
}

func (w *lineWriter) appendLine(line []byte) {
	w.lines = append(w.lines, strings.TrimSuffix(string(line), "\r"))
}
