// Package intset converts between the set representations of this module
// and the bitmap libraries commonly found next to them.
//
// The three native representations answer the same read-only questions
// through Reader. Conversions never alias the source.
package intset

import (
	"errors"
	"fmt"
	"iter"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	bbs "github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/bitblock/bitset"
	"github.com/hupe1980/bitblock/compressed"
	"github.com/hupe1980/bitblock/fixed"
)

// ErrTooLarge is returned when an element does not fit the target
// representation's element width.
var ErrTooLarge = errors.New("element exceeds target width")

// Reader is the read-only view shared by every set representation.
type Reader interface {
	Contains(e uint) bool
	Cardinality() int
	// All yields the elements in ascending order, each once.
	All() iter.Seq[uint]
}

var (
	_ Reader = (*bitset.Set)(nil)
	_ Reader = (*compressed.Set)(nil)
	_ Reader = fixed.Set64(0)
)

// Blocks yields the non-zero 64-bit blocks of r with their block indices in
// ascending order. Dense and compressed sets are walked directly; any other
// Reader is folded from its elements.
func Blocks(r Reader) iter.Seq2[int, uint64] {
	switch s := r.(type) {
	case *bitset.Set:
		return func(yield func(int, uint64) bool) {
			for i, w := range s.Blocks() {
				if w != 0 && !yield(i, w) {
					return
				}
			}
		}
	case *compressed.Set:
		return s.Blocks()
	case fixed.Set64:
		return func(yield func(int, uint64) bool) {
			if s != 0 {
				yield(0, uint64(s))
			}
		}
	}
	return func(yield func(int, uint64) bool) {
		cur, word := -1, uint64(0)
		for e := range r.All() {
			bi := int(e / bitset.WordBits)
			if bi != cur && word != 0 {
				if !yield(cur, word) {
					return
				}
				word = 0
			}
			cur = bi
			word |= 1 << (e % bitset.WordBits)
		}
		if word != 0 {
			yield(cur, word)
		}
	}
}

// ToDense copies r into a dense set.
func ToDense(r Reader) *bitset.Set {
	if s, ok := r.(*bitset.Set); ok {
		return s.Clone()
	}
	d := bitset.New()
	for bi, w := range Blocks(r) {
		d.SetBlock(bi, w)
	}
	return d
}

// ToCompressed copies r into a compressed set.
func ToCompressed(r Reader) *compressed.Set {
	if s, ok := r.(*compressed.Set); ok {
		return s.Clone()
	}
	c := compressed.New()
	for bi, w := range Blocks(r) {
		c.SetBlock(bi, w)
	}
	return c
}

// ToFixed copies r into a Set64. It fails with fixed.ErrOutOfRange when r
// holds an element >= 64.
func ToFixed(r Reader) (fixed.Set64, error) {
	if s, ok := r.(fixed.Set64); ok {
		return s, nil
	}
	var out fixed.Set64
	for bi, w := range Blocks(r) {
		if bi != 0 {
			return 0, fmt.Errorf("intset: block %d: %w", bi, fixed.ErrOutOfRange)
		}
		out = fixed.Set64(w)
	}
	return out, nil
}

// Equal reports whether a and b hold the same elements, regardless of
// representation.
func Equal(a, b Reader) bool {
	if a.Cardinality() != b.Cardinality() {
		return false
	}
	for e := range a.All() {
		if !b.Contains(e) {
			return false
		}
	}
	return true
}

// Compact returns r in its smallest fitting representation: a Set64 when
// every element is below 64, a compressed set when at most a quarter of the
// spanned blocks are non-zero, and a dense set otherwise.
func Compact(r Reader) Reader {
	nonZero, span := 0, 0
	for bi := range Blocks(r) {
		nonZero++
		span = bi + 1
	}
	switch {
	case span <= 1:
		s, _ := ToFixed(r)
		return s
	case 4*nonZero <= span:
		return ToCompressed(r)
	default:
		return ToDense(r)
	}
}

// ToRoaring copies r into a 32-bit roaring bitmap.
func ToRoaring(r Reader) (*roaring.Bitmap, error) {
	rb := roaring.New()
	for e := range r.All() {
		if e > math.MaxUint32 {
			return nil, fmt.Errorf("intset: roaring: %d: %w", e, ErrTooLarge)
		}
		rb.Add(uint32(e))
	}
	rb.RunOptimize()
	return rb, nil
}

// FromRoaring copies a roaring bitmap into a dense set.
func FromRoaring(rb *roaring.Bitmap) *bitset.Set {
	d := bitset.New()
	it := rb.Iterator()
	for it.HasNext() {
		d.Insert(uint(it.Next()))
	}
	return d
}

// ToBitSet copies r into a bits-and-blooms bitset.
func ToBitSet(r Reader) *bbs.BitSet {
	if s, ok := r.(*bitset.Set); ok {
		words := make([]uint64, s.BlockCount())
		copy(words, s.Blocks())
		return bbs.From(words)
	}
	b := bbs.New(0)
	for e := range r.All() {
		b.Set(e)
	}
	return b
}

// FromBitSet copies a bits-and-blooms bitset into a dense set.
func FromBitSet(b *bbs.BitSet) *bitset.Set {
	d := bitset.New()
	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
		d.Insert(i)
	}
	return d
}
