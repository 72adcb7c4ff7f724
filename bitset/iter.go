package bitset

import (
	"iter"
	"math/bits"
)

// firstSetBitInByte maps a byte to the position of its lowest set bit; 8 for zero.
var firstSetBitInByte = func() (t [256]uint8) {
	t[0] = 8
	for i := 1; i < len(t); i++ {
		t[i] = uint8(bits.TrailingZeros8(uint8(i)))
	}
	return t
}()

// Iterator walks the elements of a Set in ascending order. The end position
// is (BlockCount, WordBits). The set must not be mutated while iterating.
//
//	for it := s.Iterator(); it.Valid(); it.Next() {
//		use(it.Value())
//	}
type Iterator struct {
	set   *Set
	block int
	bit   int
}

// Iterator returns an iterator positioned at the smallest element.
func (s *Set) Iterator() Iterator {
	it := Iterator{set: s}
	it.seek(0, 0)
	return it
}

// seek positions the iterator at the first element at or after (block, bit),
// jumping a byte at a time through the lookup table.
func (it *Iterator) seek(block, bit int) {
	s := it.set
	for ; block < s.count; block, bit = block+1, 0 {
		if bit >= WordBits {
			continue
		}
		w := s.blocks[block] >> bit
		for w != 0 {
			if b := uint8(w); b != 0 {
				it.block, it.bit = block, bit+int(firstSetBitInByte[b])
				return
			}
			w >>= 8
			bit += 8
		}
	}
	it.block, it.bit = s.count, WordBits
}

// Valid reports whether the iterator points at an element.
func (it *Iterator) Valid() bool {
	return it.set != nil && it.block < it.set.count
}

// Value returns the current element. It panics past the end.
func (it *Iterator) Value() uint {
	if !it.Valid() {
		panic("bitset: Value called on exhausted iterator")
	}
	return uint(it.block)<<log2WordBits + uint(it.bit)
}

// Next advances to the following element. It is a no-op past the end.
func (it *Iterator) Next() {
	if !it.Valid() {
		return
	}
	it.seek(it.block, it.bit+1)
}

// Reset rewinds the iterator to the smallest element.
func (it *Iterator) Reset() {
	if it.set != nil {
		it.seek(0, 0)
	}
}

// All returns the elements in ascending order.
func (s *Set) All() iter.Seq[uint] {
	return func(yield func(uint) bool) {
		for it := s.Iterator(); it.Valid(); it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

// Next returns the smallest element >= from.
func (s *Set) Next(from uint) (uint, bool) {
	bi := int(from >> log2WordBits)
	if bi >= s.count {
		return 0, false
	}
	it := Iterator{set: s}
	it.seek(bi, int(from&(WordBits-1)))
	if !it.Valid() {
		return 0, false
	}
	return it.Value(), true
}
