package invoke

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineWriter_FragmentedWrites(t *testing.T) {
	w := &lineWriter{}

	_, _ = w.Write([]byte("par"))
	_, _ = w.Write([]byte("t1\npart"))
	_, _ = w.Write([]byte("2\r\n\ntail"))

	assert.Equal(t, []string{"part1", "part2", "", "tail"}, w.Lines())
	assert.Equal(t, []string{"part1", "part2", "", "tail"}, w.Lines())
}

func TestLineWriter_Empty(t *testing.T) {
	w := &lineWriter{}
	assert.Empty(t, w.Lines())
}
