package compressed

// combine merges the block positions of a and b with the dense union, applies
// op to each pair of blocks (absent blocks read as zero) and compacts the
// result.
func combine(a, b *Set, op func(x, y uint64) uint64) *Set {
	merged := a.positions.Union(&b.positions)
	out := &Set{blocks: make([]uint64, 0, len(a.blocks)+len(b.blocks))}

	ia, ib := 0, 0
	pa, pb := a.positions.Iterator(), b.positions.Iterator()
	for it := merged.Iterator(); it.Valid(); it.Next() {
		p := it.Value()
		var x, y uint64
		if pa.Valid() && pa.Value() == p {
			x = a.blocks[ia]
			ia++
			pa.Next()
		}
		if pb.Valid() && pb.Value() == p {
			y = b.blocks[ib]
			ib++
			pb.Next()
		}
		out.blocks = append(out.blocks, op(x, y))
	}
	out.positions = *merged
	out.compactify()
	out.check("combine")
	return out
}

// compactify drops slots whose block became zero.
func (s *Set) compactify() {
	var drop []uint
	keep := s.blocks[:0]
	i := 0
	for p := range s.positions.All() {
		if w := s.blocks[i]; w == 0 {
			drop = append(drop, p)
		} else {
			keep = append(keep, w)
		}
		i++
	}
	s.blocks = keep
	for _, p := range drop {
		s.positions.Remove(p)
	}
}

// Union returns s ∪ o.
func (s *Set) Union(o *Set) *Set {
	return combine(s, o, func(x, y uint64) uint64 { return x | y })
}

// Difference returns s - o.
func (s *Set) Difference(o *Set) *Set {
	return combine(s, o, func(x, y uint64) uint64 { return x &^ y })
}

// Intersection returns s ∩ o.
func (s *Set) Intersection(o *Set) *Set {
	return combine(s, o, func(x, y uint64) uint64 { return x & y })
}

// SymmetricDifference returns s ⊕ o.
func (s *Set) SymmetricDifference(o *Set) *Set {
	return combine(s, o, func(x, y uint64) uint64 { return x ^ y })
}

// IsSuperset reports whether every element of o is in s. Both position sets
// are walked in merge order; blocks are only read at matching positions.
func (s *Set) IsSuperset(o *Set) bool {
	ps, is := s.positions.Iterator(), 0
	io := 0
	for po := o.positions.Iterator(); po.Valid(); po.Next() {
		p := po.Value()
		for ps.Valid() && ps.Value() < p {
			ps.Next()
			is++
		}
		if !ps.Valid() || ps.Value() != p {
			return false
		}
		if o.blocks[io]&^s.blocks[is] != 0 {
			return false
		}
		io++
	}
	return true
}

// IsSubset reports whether every element of s is in o.
func (s *Set) IsSubset(o *Set) bool { return o.IsSuperset(s) }

// IsDisjoint reports whether s and o share no element.
func (s *Set) IsDisjoint(o *Set) bool {
	ps, po := s.positions.Iterator(), o.positions.Iterator()
	is, io := 0, 0
	for ps.Valid() && po.Valid() {
		switch a, b := ps.Value(), po.Value(); {
		case a < b:
			ps.Next()
			is++
		case a > b:
			po.Next()
			io++
		default:
			if s.blocks[is]&o.blocks[io] != 0 {
				return false
			}
			ps.Next()
			po.Next()
			is++
			io++
		}
	}
	return true
}
