package fetch_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/fetch"
)

func TestReadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.txt")
	require.NoError(t, os.WriteFile(path, []byte("main.cpp\r\nutil.cpp\n\nlast.cpp"), 0o600))

	lines, err := fetch.ReadLines(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"main.cpp", "util.cpp", "", "last.cpp"}, lines)
}

func TestReadLines_Missing(t *testing.T) {
	_, err := fetch.ReadLines(filepath.Join(t.TempDir(), "missing.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, fetch.FileExists(dir))
	assert.False(t, fetch.FileExists(filepath.Join(dir, "nope")))
}

func TestSplitString(t *testing.T) {
	tests := []struct {
		in    string
		delim rune
		want  []string
	}{
		{"-O2 -g", ' ', []string{"-O2", "-g"}},
		{"a,,b", ',', []string{"a", "", "b"}},
		{"line1\nline2\n", '\n', []string{"line1", "line2"}},
		{"", ' ', nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, fetch.SplitString(tt.in, tt.delim), tt.in)
	}
}
