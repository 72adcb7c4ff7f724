package bitset

import "math/bits"

// Masks of the bit-reversal cascade. Each step swaps adjacent groups of
// 1, 2, 4, 8 and 16 bits; the final 32-bit rotate swaps the halves. The
// constants are load-bearing: the lexicographic comparison depends on an
// exact reversal.
const (
	revMask1  = 0x5555555555555555
	revMask2  = 0x3333333333333333
	revMask4  = 0x0f0f0f0f0f0f0f0f
	revMask8  = 0x00ff00ff00ff00ff
	revMask16 = 0x0000ffff0000ffff
)

// kbitreverse reverses the bit order of x.
func kbitreverse(x uint64) uint64 {
	x = (x>>1)&revMask1 | (x&revMask1)<<1
	x = (x>>2)&revMask2 | (x&revMask2)<<2
	x = (x>>4)&revMask4 | (x&revMask4)<<4
	x = (x>>8)&revMask8 | (x&revMask8)<<8
	x = (x>>16)&revMask16 | (x&revMask16)<<16
	return bits.RotateLeft64(x, 32)
}

// holdsFirstDifference reports whether a contains the smallest element on
// which a and b differ. Reversing the complements maps low elements to high
// bit positions, so an ordinary numeric comparison answers the question
// without walking the elements.
func holdsFirstDifference(a, b uint64) bool {
	return kbitreverse(^a) < kbitreverse(^b)
}

// hasAbove reports whether s holds an element greater than block i, bit d.
func (s *Set) hasAbove(i, d int) bool {
	if i+1 < s.count {
		return true
	}
	return s.block(i)>>d>>1 != 0
}

// LexicographicallyLess compares the ascending element sequences of s and o
// left to right. A proper prefix sorts first, so {1,2} < {1,2,5} < {1,3}.
func (s *Set) LexicographicallyLess(o *Set) bool {
	n := max(s.count, o.count)
	for i := 0; i < n; i++ {
		a, b := s.block(i), o.block(i)
		if a == b {
			continue
		}
		d := bits.TrailingZeros64(a ^ b)
		if holdsFirstDifference(a, b) {
			// s continues with a smaller element than o, unless o ends here.
			return o.hasAbove(i, d)
		}
		// o continues with the smaller element; s is less only as a prefix of o.
		return !s.hasAbove(i, d)
	}
	return false
}

// ReverseColexicographicallyGreater compares s and o from the largest
// element downwards: the set holding the largest element on which they
// differ is greater. This is the numeric order of the sets read as binary
// numbers.
func (s *Set) ReverseColexicographicallyGreater(o *Set) bool {
	for i := max(s.count, o.count) - 1; i >= 0; i-- {
		a, b := s.block(i), o.block(i)
		if a != b {
			return a > b
		}
	}
	return false
}

// Compare returns -1, 0 or +1 depending on the lexicographic order of s and o.
func (s *Set) Compare(o *Set) int {
	switch {
	case s.Equal(o):
		return 0
	case s.LexicographicallyLess(o):
		return -1
	default:
		return 1
	}
}
