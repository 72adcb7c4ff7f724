// Package fixed implements a set of integers in [0, 64) held in a single
// machine word. It shares the operation contract of bitset.Set but never
// allocates; use it when the universe is known to fit.
package fixed

import (
	"errors"
	"fmt"
	"iter"
	"math/bits"
	"strconv"

	"github.com/hupe1980/bitblock/internal/stream"
)

// Width is the number of representable elements.
const Width = 64

// ErrOutOfRange is returned when an element does not fit into a Set64.
var ErrOutOfRange = errors.New("element out of range [0,64)")

// Set64 is a set of integers in [0, 64). The zero value is the empty set.
type Set64 uint64

func bit(e uint) Set64 {
	if e >= Width {
		panic(fmt.Sprintf("fixed: element %d %v", e, ErrOutOfRange))
	}
	return 1 << e
}

// FromSlice returns the set of the given elements.
func FromSlice(elems ...uint) (Set64, error) {
	var s Set64
	for _, e := range elems {
		if e >= Width {
			return 0, fmt.Errorf("fixed: %d: %w", e, ErrOutOfRange)
		}
		s |= 1 << e
	}
	return s, nil
}

// MustFromSlice is like FromSlice but panics on out-of-range elements.
func MustFromSlice(elems ...uint) Set64 {
	s, err := FromSlice(elems...)
	if err != nil {
		panic(err)
	}
	return s
}

// Contains reports whether e is in the set. Elements >= 64 are never contained.
func (s Set64) Contains(e uint) bool {
	return e < Width && s&(1<<e) != 0
}

// Insert adds e. It panics if e >= 64.
func (s *Set64) Insert(e uint) bool {
	b := bit(e)
	changed := *s&b == 0
	*s |= b
	return changed
}

// Remove deletes e. It panics if e >= 64.
func (s *Set64) Remove(e uint) bool {
	b := bit(e)
	changed := *s&b != 0
	*s &^= b
	return changed
}

// Toggle flips e and reports whether it is in the set afterwards. It panics
// if e >= 64.
func (s *Set64) Toggle(e uint) bool {
	b := bit(e)
	*s ^= b
	return *s&b != 0
}

// IsEmpty reports whether the set has no elements.
func (s Set64) IsEmpty() bool { return s == 0 }

// Cardinality returns the number of elements.
func (s Set64) Cardinality() int {
	n := 0
	for w := uint64(s); w != 0; w &= w - 1 {
		n++
	}
	return n
}

// Union returns s ∪ o.
func (s Set64) Union(o Set64) Set64 { return s | o }

// Intersection returns s ∩ o.
func (s Set64) Intersection(o Set64) Set64 { return s & o }

// Difference returns s - o.
func (s Set64) Difference(o Set64) Set64 { return s &^ o }

// SymmetricDifference returns s ⊕ o.
func (s Set64) SymmetricDifference(o Set64) Set64 { return s ^ o }

// IsSubset reports whether every element of s is in o.
func (s Set64) IsSubset(o Set64) bool { return s&^o == 0 }

// IsSuperset reports whether every element of o is in s.
func (s Set64) IsSuperset(o Set64) bool { return o&^s == 0 }

// IsDisjoint reports whether s and o share no element.
func (s Set64) IsDisjoint(o Set64) bool { return s&o == 0 }

// LexicographicallyLess compares the ascending element sequences; a proper
// prefix sorts first.
func (s Set64) LexicographicallyLess(o Set64) bool {
	diff := uint64(s ^ o)
	if diff == 0 {
		return false
	}
	d := bits.TrailingZeros64(diff)
	if uint64(s)>>d&1 == 1 {
		// s holds the first differing element
		return uint64(o)>>d>>1 != 0
	}
	return uint64(s)>>d>>1 == 0
}

// ReverseColexicographicallyGreater reports whether the largest element on
// which s and o differ belongs to s.
func (s Set64) ReverseColexicographicallyGreater(o Set64) bool { return s > o }

// Min returns the smallest element.
func (s Set64) Min() (uint, bool) {
	if s == 0 {
		return 0, false
	}
	return uint(bits.TrailingZeros64(uint64(s))), true
}

// Max returns the largest element.
func (s Set64) Max() (uint, bool) {
	if s == 0 {
		return 0, false
	}
	return Width - 1 - uint(bits.LeadingZeros64(uint64(s))), true
}

// Next returns the smallest element >= from.
func (s Set64) Next(from uint) (uint, bool) {
	if from >= Width {
		return 0, false
	}
	w := uint64(s) >> from
	if w == 0 {
		return 0, false
	}
	return from + uint(bits.TrailingZeros64(w)), true
}

// All returns the elements in ascending order.
func (s Set64) All() iter.Seq[uint] {
	return func(yield func(uint) bool) {
		for w := uint64(s); w != 0; w &= w - 1 {
			if !yield(uint(bits.TrailingZeros64(w))) {
				return
			}
		}
	}
}

// Elements returns the elements in ascending order.
func (s Set64) Elements() []uint {
	out := make([]uint, 0, s.Cardinality())
	for e := range s.All() {
		out = append(out, e)
	}
	return out
}

// String returns the set in {e1,e2,...} form.
func (s Set64) String() string {
	return string(stream.AppendSet(nil, s.All()))
}

// GoString prints the raw word, handy in test failures.
func (s Set64) GoString() string {
	return "fixed.Set64(0x" + strconv.FormatUint(uint64(s), 16) + ")"
}

// Parse parses the {e1,e2,...} form.
func Parse(text string) (Set64, error) {
	elems, err := stream.ParseSet(text)
	if err != nil {
		return 0, fmt.Errorf("fixed: %w", err)
	}
	return FromSlice(elems...)
}

// MarshalText implements encoding.TextMarshaler.
func (s Set64) MarshalText() ([]byte, error) {
	return stream.AppendSet(nil, s.All()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Set64) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
