package target

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/kiln/internal/core/domain"
)

// objectNames maps every source to its object path under objectDir.
//
// objectDir must end with a separator. Objects are named after the source stem. Sources sharing
// a stem get the first 8 hex digits of the xxhash64 of their cleaned path appended, so no two
// objects of one build overwrite each other, including foo.c next to foo.cpp.
func objectNames(objectDir string, sources []string) map[string]string {
	stems := make(map[string]int, len(sources))
	for _, src := range sources {
		stems[domain.NewSourcePath(src).Stem()]++
	}

	objects := make(map[string]string, len(sources))
	for _, src := range sources {
		p := domain.NewSourcePath(src)
		name := p.Stem()
		if stems[name] > 1 {
			name = fmt.Sprintf("%s-%08x", name, uint32(xxhash.Sum64String(p.String())>>32))
		}
		objects[src] = objectDir + name + ".o"
	}
	return objects
}
