// Package compressed implements a block-sparse set of non-negative integers.
//
// Only the non-zero 64-bit blocks are stored, in ascending block order. A
// dense bitset.Set records which block indices are present. Translating a
// block index into a storage slot scans that position set linearly, which
// keeps the structure small; the targeted workloads have few non-zero blocks
// spread over a very large universe.
package compressed

import (
	"errors"
	"fmt"
	"iter"
	"math/bits"
	"slices"

	"github.com/hupe1980/bitblock/bitset"
	"github.com/hupe1980/bitblock/internal/debug"
)

// ErrInvariant is wrapped by every error returned from Validate.
var ErrInvariant = errors.New("compressed set invariant violated")

const log2WordBits = 6

// Set is a block-sparse set. The zero value is an empty set.
type Set struct {
	// positions holds the index of every non-zero block.
	positions bitset.Set
	// blocks holds one entry per element of positions, in the same order.
	blocks []uint64
}

// New returns an empty set.
func New() *Set {
	return &Set{}
}

// FromSlice returns a set holding the given elements.
func FromSlice(elems ...uint) *Set {
	s := New()
	for _, e := range elems {
		s.Insert(e)
	}
	return s
}

// FromDense compresses a dense set.
func FromDense(d *bitset.Set) *Set {
	s := New()
	for i, w := range d.Blocks() {
		if w != 0 {
			s.positions.Insert(uint(i))
			s.blocks = append(s.blocks, w)
		}
	}
	s.check("FromDense")
	return s
}

// ToDense expands the set into a dense bitset.Set.
func (s *Set) ToDense() *bitset.Set {
	d := bitset.New()
	i := 0
	for p := range s.positions.All() {
		d.SetBlock(int(p), s.blocks[i])
		i++
	}
	return d
}

func locate(e uint) (int, uint64) {
	return int(e >> log2WordBits), 1 << (e & (bitset.WordBits - 1))
}

// slot maps a block index to its storage slot by scanning the positions.
// If the block is absent, rank is the slot it would be inserted at.
func (s *Set) slot(bi int) (rank int, found bool) {
	for it := s.positions.Iterator(); it.Valid(); it.Next() {
		p := int(it.Value())
		if p == bi {
			return rank, true
		}
		if p > bi {
			break
		}
		rank++
	}
	return rank, false
}

func (s *Set) check(op string) {
	if debug.Enabled {
		debug.Assert("compressed."+op, s.Validate())
	}
}

// Contains reports whether e is in the set.
func (s *Set) Contains(e uint) bool {
	bi, mask := locate(e)
	if !s.positions.Contains(uint(bi)) {
		return false
	}
	rank, _ := s.slot(bi)
	return s.blocks[rank]&mask != 0
}

// Insert adds e and reports whether the set changed. A new block slot is
// opened at its ordered position when needed.
func (s *Set) Insert(e uint) bool {
	bi, mask := locate(e)
	rank, found := s.slot(bi)
	if found {
		if s.blocks[rank]&mask != 0 {
			return false
		}
		s.blocks[rank] |= mask
		return true
	}
	s.positions.Insert(uint(bi))
	s.blocks = slices.Insert(s.blocks, rank, mask)
	s.check("Insert")
	return true
}

// Remove deletes e and reports whether the set changed. A block that becomes
// empty is dropped from both the positions and the storage.
func (s *Set) Remove(e uint) bool {
	bi, mask := locate(e)
	rank, found := s.slot(bi)
	if !found || s.blocks[rank]&mask == 0 {
		return false
	}
	s.blocks[rank] &^= mask
	if s.blocks[rank] == 0 {
		s.blocks = slices.Delete(s.blocks, rank, rank+1)
		s.positions.Remove(uint(bi))
	}
	s.check("Remove")
	return true
}

// SetBlock overwrites block bi with w. A zero w drops the block.
func (s *Set) SetBlock(bi int, w uint64) {
	if bi < 0 {
		panic(fmt.Sprintf("compressed: negative block index %d", bi))
	}
	rank, found := s.slot(bi)
	switch {
	case found && w != 0:
		s.blocks[rank] = w
	case found:
		s.blocks = slices.Delete(s.blocks, rank, rank+1)
		s.positions.Remove(uint(bi))
	case w != 0:
		s.positions.Insert(uint(bi))
		s.blocks = slices.Insert(s.blocks, rank, w)
	}
	s.check("SetBlock")
}

// Clone returns a deep copy.
func (s *Set) Clone() *Set {
	return &Set{
		positions: *s.positions.Clone(),
		blocks:    slices.Clone(s.blocks),
	}
}

// IsEmpty reports whether the set has no elements.
func (s *Set) IsEmpty() bool { return len(s.blocks) == 0 }

// NonZeroBlocks returns the number of stored blocks.
func (s *Set) NonZeroBlocks() int { return len(s.blocks) }

// Cardinality returns the number of elements.
func (s *Set) Cardinality() int {
	n := 0
	for _, w := range s.blocks {
		n += bits.OnesCount64(w)
	}
	return n
}

// Equal reports whether both sets hold the same elements.
func (s *Set) Equal(o *Set) bool {
	return s.positions.Equal(&o.positions) && slices.Equal(s.blocks, o.blocks)
}

// All returns the elements in ascending order.
func (s *Set) All() iter.Seq[uint] {
	return func(yield func(uint) bool) {
		i := 0
		for p := range s.positions.All() {
			base := p << log2WordBits
			for w := s.blocks[i]; w != 0; w &= w - 1 {
				if !yield(base + uint(bits.TrailingZeros64(w))) {
					return
				}
			}
			i++
		}
	}
}

// Blocks yields every non-zero block with its block index, ascending.
func (s *Set) Blocks() iter.Seq2[int, uint64] {
	return func(yield func(int, uint64) bool) {
		i := 0
		for p := range s.positions.All() {
			if !yield(int(p), s.blocks[i]) {
				return
			}
			i++
		}
	}
}

// Elements returns the elements in ascending order.
func (s *Set) Elements() []uint {
	out := make([]uint, 0, s.Cardinality())
	for e := range s.All() {
		out = append(out, e)
	}
	return out
}

// At returns the rank-th smallest element (0-based). It reports false when
// rank is negative or not below Cardinality.
func (s *Set) At(rank int) (uint, bool) {
	if rank < 0 {
		return 0, false
	}
	i := 0
	for p := range s.positions.All() {
		w := s.blocks[i]
		if n := bits.OnesCount64(w); rank >= n {
			rank -= n
			i++
			continue
		}
		for ; rank > 0; rank-- {
			w &= w - 1
		}
		return p<<log2WordBits + uint(bits.TrailingZeros64(w)), true
	}
	return 0, false
}

// Validate checks that every stored block is non-zero, that storage and
// positions agree in size, and that the position set is itself valid.
func (s *Set) Validate() error {
	if err := s.positions.Validate(); err != nil {
		return fmt.Errorf("%w: positions: %w", ErrInvariant, err)
	}
	if n := s.positions.Cardinality(); n != len(s.blocks) {
		return fmt.Errorf("%w: %d positions but %d blocks", ErrInvariant, n, len(s.blocks))
	}
	for i, w := range s.blocks {
		if w == 0 {
			return fmt.Errorf("%w: slot %d holds a zero block", ErrInvariant, i)
		}
	}
	return nil
}
