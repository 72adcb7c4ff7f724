package bitset

// UnionWith adds every element of o to s and returns s.
func (s *Set) UnionWith(o *Set) *Set {
	if o.count > 0 {
		s.expand(o.count - 1)
	}
	for i := 0; i < o.count; i++ {
		s.setBlock(i, s.blocks[i]|o.blocks[i])
	}
	s.count = max(s.count, o.count)
	s.check("UnionWith")
	return s
}

// IntersectWith keeps only the elements also in o and returns s.
func (s *Set) IntersectWith(o *Set) *Set {
	n := min(s.count, o.count)
	for i := 0; i < n; i++ {
		s.setBlock(i, s.blocks[i]&o.blocks[i])
	}
	for i := n; i < s.count; i++ {
		s.setBlock(i, 0)
	}
	s.count = n
	s.trim()
	s.contract()
	s.check("IntersectWith")
	return s
}

// DifferenceWith removes every element of o from s and returns s.
func (s *Set) DifferenceWith(o *Set) *Set {
	n := min(s.count, o.count)
	for i := 0; i < n; i++ {
		s.setBlock(i, s.blocks[i]&^o.blocks[i])
	}
	s.trim()
	s.contract()
	s.check("DifferenceWith")
	return s
}

// SymmetricDifferenceWith replaces s with the elements in exactly one of s
// and o, and returns s.
func (s *Set) SymmetricDifferenceWith(o *Set) *Set {
	if o.count > 0 {
		s.expand(o.count - 1)
	}
	for i := 0; i < o.count; i++ {
		s.setBlock(i, s.blocks[i]^o.blocks[i])
	}
	s.count = max(s.count, o.count)
	s.trim()
	s.contract()
	s.check("SymmetricDifferenceWith")
	return s
}

// Union returns s ∪ o as a new set.
func (s *Set) Union(o *Set) *Set { return s.Clone().UnionWith(o) }

// Intersection returns s ∩ o as a new set.
func (s *Set) Intersection(o *Set) *Set { return s.Clone().IntersectWith(o) }

// Difference returns s - o as a new set.
func (s *Set) Difference(o *Set) *Set { return s.Clone().DifferenceWith(o) }

// SymmetricDifference returns s ⊕ o as a new set.
func (s *Set) SymmetricDifference(o *Set) *Set { return s.Clone().SymmetricDifferenceWith(o) }

// IsSubset reports whether every element of s is in o.
func (s *Set) IsSubset(o *Set) bool {
	if s.count > o.count {
		return false
	}
	for i := 0; i < s.count; i++ {
		if s.blocks[i]&^o.blocks[i] != 0 {
			return false
		}
	}
	return true
}

// IsSuperset reports whether every element of o is in s.
func (s *Set) IsSuperset(o *Set) bool { return o.IsSubset(s) }

// IsDisjoint reports whether s and o share no element.
func (s *Set) IsDisjoint(o *Set) bool {
	n := min(s.count, o.count)
	for i := 0; i < n; i++ {
		if s.blocks[i]&o.blocks[i] != 0 {
			return false
		}
	}
	return true
}

// Intersects reports whether s and o share at least one element.
func (s *Set) Intersects(o *Set) bool { return !s.IsDisjoint(o) }
