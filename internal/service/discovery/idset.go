package discovery

import "sort"

type idSet map[uint64]struct{}

func setOf(ids []uint64) idSet {
	s := make(idSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func keysOf(m map[uint64]float64) idSet {
	s := make(idSet, len(m))
	for id := range m {
		s[id] = struct{}{}
	}
	return s
}

// intersect returns the ids present in every set; it walks the smallest one.
func intersect(sets []idSet) idSet {
	if len(sets) == 0 {
		return idSet{}
	}
	sort.Slice(sets, func(i, j int) bool { return len(sets[i]) < len(sets[j]) })

	out := make(idSet, len(sets[0]))
next:
	for id := range sets[0] {
		for _, s := range sets[1:] {
			if _, ok := s[id]; !ok {
				continue next
			}
		}
		out[id] = struct{}{}
	}
	return out
}

func (s idSet) slice() []uint64 {
	ids := make([]uint64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}
