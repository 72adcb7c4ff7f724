package bitset

import (
	"errors"
	"fmt"
	"math/bits"
	"slices"

	"github.com/hupe1980/bitblock/internal/debug"
	"github.com/hupe1980/bitblock/keyhash"
)

const (
	// WordBits is the number of elements held by one block.
	WordBits = 64

	log2WordBits = 6
)

// ErrInvariant is wrapped by every error returned from Validate.
var ErrInvariant = errors.New("bitset invariant violated")

// Set is a dense set of non-negative integers. The zero value is an empty set.
type Set struct {
	// blocks holds the allocated storage; len(blocks) is the capacity in blocks.
	blocks []uint64
	// count is the number of meaningful leading blocks.
	count int
	// invariant is the XOR of blocks[:count].
	invariant uint64
}

var _ keyhash.Key[*Set] = (*Set)(nil)

// New returns an empty set with one allocated block.
func New() *Set {
	return &Set{blocks: make([]uint64, 1)}
}

// FromSlice returns a set holding the given elements.
func FromSlice(elems ...uint) *Set {
	s := New()
	for _, e := range elems {
		s.Insert(e)
	}
	return s
}

// FromRange returns the set {lo, lo+1, ..., hi-1}.
func FromRange(lo, hi uint) *Set {
	s := New()
	if lo >= hi {
		return s
	}
	s.expand(int((hi - 1) >> log2WordBits))

	first, last := int(lo>>log2WordBits), int((hi-1)>>log2WordBits)
	for i := first; i <= last; i++ {
		w := ^uint64(0)
		if i == first {
			w <<= lo & (WordBits - 1)
		}
		if i == last {
			w &= ^uint64(0) >> (WordBits - 1 - (hi-1)&(WordBits-1))
		}
		s.setBlock(i, w)
	}
	s.count = last + 1
	s.check("FromRange")
	return s
}

// FromBlocks returns a set whose block i equals words[i]. Trailing zero words
// are dropped.
func FromBlocks(words []uint64) *Set {
	s := &Set{blocks: make([]uint64, max(1, len(words)))}
	for i, w := range words {
		s.setBlock(i, w)
	}
	s.count = len(words)
	s.trim()
	s.check("FromBlocks")
	return s
}

func locate(e uint) (int, uint64) {
	return int(e >> log2WordBits), 1 << (e & (WordBits - 1))
}

// block returns block i, or zero beyond the meaningful range.
func (s *Set) block(i int) uint64 {
	if i >= s.count {
		return 0
	}
	return s.blocks[i]
}

// setBlock replaces block i and folds the change into the invariant:
// XOR-ing out the old value and XOR-ing in the new one.
func (s *Set) setBlock(i int, w uint64) {
	s.invariant ^= s.blocks[i] ^ w
	s.blocks[i] = w
}

// expand grows the storage by doubling until block index bi fits.
func (s *Set) expand(bi int) {
	n := len(s.blocks)
	if bi < n {
		return
	}
	if n == 0 {
		n = 1
	}
	for n <= bi {
		n *= 2
	}
	grown := make([]uint64, n)
	copy(grown, s.blocks[:s.count])
	s.blocks = grown
}

// contract halves the storage while 4*count+1 < allocated blocks.
func (s *Set) contract() {
	n := len(s.blocks)
	if 4*s.count+1 >= n {
		return
	}
	for n > 1 && 4*s.count+1 < n {
		n /= 2
	}
	shrunk := make([]uint64, n)
	copy(shrunk, s.blocks[:s.count])
	s.blocks = shrunk
}

// trim lowers count to the last non-zero block.
func (s *Set) trim() {
	for s.count > 0 && s.blocks[s.count-1] == 0 {
		s.count--
	}
}

func (s *Set) check(op string) {
	if debug.Enabled {
		debug.Assert("bitset."+op, s.Validate())
	}
}

// Contains reports whether e is in the set.
func (s *Set) Contains(e uint) bool {
	bi, mask := locate(e)
	if bi >= s.count {
		return false
	}
	return s.blocks[bi]&mask != 0
}

// Insert adds e and reports whether the set changed.
func (s *Set) Insert(e uint) bool {
	bi, mask := locate(e)
	s.expand(bi)

	old := s.blocks[bi]
	if old&mask != 0 {
		return false
	}
	s.setBlock(bi, old|mask)
	if bi >= s.count {
		s.count = bi + 1
	}
	s.check("Insert")
	return true
}

// Remove deletes e and reports whether the set changed.
func (s *Set) Remove(e uint) bool {
	bi, mask := locate(e)
	if bi >= s.count {
		return false
	}

	old := s.blocks[bi]
	if old&mask == 0 {
		return false
	}
	s.setBlock(bi, old&^mask)
	if bi == s.count-1 {
		s.trim()
		s.contract()
	}
	s.check("Remove")
	return true
}

// Toggle flips the membership of e and reports whether e is in the set
// afterwards.
func (s *Set) Toggle(e uint) bool {
	bi, mask := locate(e)
	s.expand(bi)

	w := s.blocks[bi] ^ mask
	s.setBlock(bi, w)

	present := w&mask != 0
	switch {
	case present && bi >= s.count:
		s.count = bi + 1
	case !present && bi == s.count-1:
		s.trim()
		s.contract()
	}
	s.check("Toggle")
	return present
}

// Clear removes all elements and releases the storage down to one block.
func (s *Set) Clear() {
	s.blocks = make([]uint64, 1)
	s.count = 0
	s.invariant = 0
}

// Clone returns a deep copy.
func (s *Set) Clone() *Set {
	return &Set{
		blocks:    slices.Clone(s.blocks),
		count:     s.count,
		invariant: s.invariant,
	}
}

// IsEmpty reports whether the set has no elements.
func (s *Set) IsEmpty() bool { return s.count == 0 }

// Cardinality returns the number of elements.
func (s *Set) Cardinality() int {
	n := 0
	for _, w := range s.blocks[:s.count] {
		for w != 0 {
			w &= w - 1
			n++
		}
	}
	return n
}

// Equal reports whether both sets hold the same elements. The block count
// and the invariant word reject most unequal pairs without a block scan.
func (s *Set) Equal(o *Set) bool {
	if s == o {
		return true
	}
	if o == nil || s.count != o.count || s.invariant != o.invariant {
		return false
	}
	return slices.Equal(s.blocks[:s.count], o.blocks[:o.count])
}

// HashInto folds the meaningful blocks into h, so a *Set can key a hash table.
func (s *Set) HashInto(h *keyhash.Hasher) {
	for _, w := range s.blocks[:s.count] {
		h.Add(w)
	}
}

// Min returns the smallest element.
func (s *Set) Min() (uint, bool) {
	for i, w := range s.blocks[:s.count] {
		if w != 0 {
			return uint(i)<<log2WordBits + uint(bits.TrailingZeros64(w)), true
		}
	}
	return 0, false
}

// Max returns the largest element.
func (s *Set) Max() (uint, bool) {
	if s.count == 0 {
		return 0, false
	}
	w := s.blocks[s.count-1]
	return uint(s.count-1)<<log2WordBits + WordBits - 1 - uint(bits.LeadingZeros64(w)), true
}

// Elements returns the elements in ascending order.
func (s *Set) Elements() []uint {
	out := make([]uint, 0, s.Cardinality())
	for it := s.Iterator(); it.Valid(); it.Next() {
		out = append(out, it.Value())
	}
	return out
}

// BlockCount returns the number of meaningful blocks.
func (s *Set) BlockCount() int { return s.count }

// AllocatedBlocks returns the storage capacity in blocks.
func (s *Set) AllocatedBlocks() int { return len(s.blocks) }

// Block returns block i; zero beyond BlockCount.
func (s *Set) Block(i int) uint64 {
	if i < 0 {
		return 0
	}
	return s.block(i)
}

// Blocks returns the meaningful blocks. The slice aliases the set's storage
// and must not be modified.
func (s *Set) Blocks() []uint64 { return s.blocks[:s.count:s.count] }

// SetBlock replaces block i with w, growing or shrinking the set as needed.
func (s *Set) SetBlock(i int, w uint64) {
	if w != 0 {
		s.expand(i)
	} else if i >= s.count {
		return
	}
	s.setBlock(i, w)
	switch {
	case w != 0 && i >= s.count:
		s.count = i + 1
	case w == 0 && i == s.count-1:
		s.trim()
		s.contract()
	}
	s.check("SetBlock")
}

// Invariant returns the XOR-fold of all blocks.
func (s *Set) Invariant() uint64 { return s.invariant }

// Validate checks the structural invariants and returns an error wrapping
// ErrInvariant on the first violation.
func (s *Set) Validate() error {
	if s.count < 0 || s.count > len(s.blocks) {
		return fmt.Errorf("%w: count %d outside [0,%d]", ErrInvariant, s.count, len(s.blocks))
	}
	if s.count > 0 && s.blocks[s.count-1] == 0 {
		return fmt.Errorf("%w: trailing block %d is zero", ErrInvariant, s.count-1)
	}
	var fold uint64
	for _, w := range s.blocks[:s.count] {
		fold ^= w
	}
	if fold != s.invariant {
		return fmt.Errorf("%w: invariant %#x, blocks fold to %#x", ErrInvariant, s.invariant, fold)
	}
	for i := s.count; i < len(s.blocks); i++ {
		if s.blocks[i] != 0 {
			return fmt.Errorf("%w: block %d beyond count is non-zero", ErrInvariant, i)
		}
	}
	return nil
}
