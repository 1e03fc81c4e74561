package world

import (
	"slices"

	"golang.org/x/exp/maps"
)

// DamageSet collects chunks whose meshes must be rebuilt. Repeated damage
// of the same chunk collapses into one entry.
type DamageSet struct {
	chunks map[ChunkID]struct{}
}

func NewDamageSet() *DamageSet {
	return &DamageSet{chunks: make(map[ChunkID]struct{})}
}

func (s *DamageSet) Add(id ChunkID) {
	if s.chunks == nil {
		s.chunks = make(map[ChunkID]struct{})
	}
	s.chunks[id] = struct{}{}
}

func (s *DamageSet) Contains(id ChunkID) bool {
	_, ok := s.chunks[id]
	return ok
}

func (s *DamageSet) Len() int {
	return len(s.chunks)
}

// Chunks returns the damaged ids in lattice order.
func (s *DamageSet) Chunks() []ChunkID {
	if len(s.chunks) == 0 {
		return nil
	}
	out := maps.Keys(s.chunks)
	slices.SortFunc(out, ChunkID.Compare)
	return out
}

func (s *DamageSet) Clear() {
	s.chunks = make(map[ChunkID]struct{})
}
