package fetch

import (
	"bufio"
	"os"
	"strings"

	"go.trai.ch/zerr"
)

// FileExists reports whether anything exists at path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadLines returns the lines of the file at path without their line terminators.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // path is chosen by the build program
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return lines, zerr.With(zerr.Wrap(err, "failed to read file"), "path", path)
	}
	return lines, nil
}

// SplitString splits s at every delim. Empty fields between consecutive delimiters are kept,
// a trailing delimiter does not produce an empty last field.
func SplitString(s string, delim rune) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, string(delim)), string(delim))
}
