package registry

import "sort"

// dirtySet is a pair of sets: writers add to one while the scheduler drains
// the other. Callers hold the registry's dirty lock.
type dirtySet struct {
	write map[string]struct{}
	read  map[string]struct{}
}

func newDirtySet() dirtySet {
	return dirtySet{
		write: make(map[string]struct{}),
		read:  make(map[string]struct{}),
	}
}

func (d *dirtySet) add(key string) {
	d.write[key] = struct{}{}
}

// swap exchanges the buffers and returns the drained keys sorted. The write
// side is empty afterwards.
func (d *dirtySet) swap() []string {
	d.read, d.write = d.write, d.read
	clear(d.write)

	keys := make([]string, 0, len(d.read))
	for k := range d.read {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (d *dirtySet) pending() int {
	return len(d.write)
}
