package blackboard

import "fmt"

// nameIndex caches name lookups for the slots of one registry generation.
type nameIndex struct {
	generation uint64
	byName     map[string]*Parameter
}

// currentIndex returns the index, rebuilding it when a structural mutation
// happened since it was built.
func (r *Registry) currentIndex() *nameIndex {
	if r.index == nil || r.index.generation != r.generation {
		r.index = r.buildIndex()
	}
	return r.index
}

// buildIndex indexes live slots. The first of two equally named parameters wins.
func (r *Registry) buildIndex() *nameIndex {
	idx := &nameIndex{
		generation: r.generation,
		byName:     make(map[string]*Parameter, len(r.slots)),
	}
	for i, p := range r.slots {
		if p == nil {
			continue
		}
		if _, dup := idx.byName[p.name]; dup {
			r.log().Warn("duplicate parameter name shadowed in index",
				"registry", r.id,
				"parameter", p.name,
				"slot", i,
			)
			continue
		}
		idx.byName[p.name] = p
	}
	return idx
}

// checkIndex verifies that a fresh index agrees with the slots.
// A stale index is not an error: it is rebuilt on the next lookup.
func (r *Registry) checkIndex() error {
	if r.index == nil || r.index.generation != r.generation {
		return nil
	}

	for _, p := range r.slots {
		if p == nil {
			continue
		}
		if _, ok := r.index.byName[p.name]; !ok {
			return fmt.Errorf("%w: parameter %q missing from index", ErrInvalidState, p.name)
		}
	}
	for name, p := range r.index.byName {
		if p == nil || p.name != name || p.owner != r {
			return fmt.Errorf("%w: stale index entry %q", ErrInvalidState, name)
		}
	}
	return nil
}
