package bitset

import "math/bits"

// IntersectionCardinalityUpTo2 classifies |sets[0] ∩ sets[1] ∩ ...| as 0, 1
// or 2 (meaning two or more) without materializing the intersection. common
// is the smallest common element when n > 0. An empty argument list yields 0.
func IntersectionCardinalityUpTo2(sets []*Set) (n int, common uint) {
	if len(sets) == 0 {
		return 0, 0
	}
	blocks := sets[0].count
	for _, s := range sets[1:] {
		blocks = min(blocks, s.count)
	}

	for i := 0; i < blocks; i++ {
		w := sets[0].blocks[i]
		for _, s := range sets[1:] {
			if w &= s.blocks[i]; w == 0 {
				break
			}
		}
		if w == 0 {
			continue
		}
		if n == 1 {
			return 2, common
		}
		n, common = 1, uint(i)<<log2WordBits+uint(bits.TrailingZeros64(w))
		if w&(w-1) != 0 {
			return 2, common
		}
	}
	return n, common
}

// IntersectionNonEmpty reports whether all sets share an element and returns
// the smallest one. An empty argument list yields false.
func IntersectionNonEmpty(sets []*Set) (bool, uint) {
	if len(sets) == 0 {
		return false, 0
	}
	blocks := sets[0].count
	for _, s := range sets[1:] {
		blocks = min(blocks, s.count)
	}

	for i := 0; i < blocks; i++ {
		w := sets[0].blocks[i]
		for _, s := range sets[1:] {
			w &= s.blocks[i]
		}
		if w != 0 {
			return true, uint(i)<<log2WordBits + uint(bits.TrailingZeros64(w))
		}
	}
	return false, 0
}
