// Package keyhash provides the hashable-key capability used by the hash
// tables: a key folds its discrete components into a Hasher and can compare
// itself to another key of the same type.
//
//	type Simplex struct{ a, b, c uint }
//
//	func (s Simplex) HashInto(h *keyhash.Hasher) { h.Add(uint64(s.a)); h.Add(uint64(s.b)); h.Add(uint64(s.c)) }
//	func (s Simplex) Equal(o Simplex) bool       { return s == o }
package keyhash

import (
	"math/bits"

	"github.com/spaolacci/murmur3"
)

// Key is implemented by every type usable as a hash-table key.
type Key[K any] interface {
	// HashInto folds all components that take part in Equal into h.
	HashInto(h *Hasher)
	// Equal reports whether the receiver and other denote the same key.
	Equal(other K) bool
}

// foldRotate is the rotation applied to the accumulator before each component.
const foldRotate = 7

// Hasher accumulates key components. The zero value is ready to use.
type Hasher struct {
	sum uint64
	n   int
}

// Add folds one component into the accumulator.
func (h *Hasher) Add(v uint64) {
	h.sum = bits.RotateLeft64(h.sum, foldRotate) ^ v
	h.n++
}

// Reset clears the accumulator.
func (h *Hasher) Reset() {
	h.sum, h.n = 0, 0
}

// Components returns the number of components folded so far.
func (h *Hasher) Components() int { return h.n }

// Sum64 returns the finalized hash. The splitmix64 finalizer spreads the
// folded bits so that small integer keys do not cluster in low buckets.
func (h *Hasher) Sum64() uint64 {
	return Mix(h.sum ^ uint64(h.n))
}

// Mix is the splitmix64 finalizer.
func Mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// Sum hashes a single key.
func Sum[K Key[K]](k K) uint64 {
	var h Hasher
	k.HashInto(&h)
	return h.Sum64()
}

// Uint is a single non-negative integer key.
type Uint uint

// HashInto implements Key.
func (u Uint) HashInto(h *Hasher) { h.Add(uint64(u)) }

// Equal implements Key.
func (u Uint) Equal(o Uint) bool { return u == o }

// Tuple is a composite key of integers, e.g. the vertex list of a simplex.
type Tuple []uint

// HashInto implements Key.
func (t Tuple) HashInto(h *Hasher) {
	for _, v := range t {
		h.Add(uint64(v))
	}
}

// Equal implements Key.
func (t Tuple) Equal(o Tuple) bool {
	if len(t) != len(o) {
		return false
	}
	for i := range t {
		if t[i] != o[i] {
			return false
		}
	}
	return true
}

// String is a string key hashed with murmur3.
type String string

// HashInto implements Key.
func (s String) HashInto(h *Hasher) {
	hi, lo := murmur3.Sum128([]byte(s))
	h.Add(hi)
	h.Add(lo)
}

// Equal implements Key.
func (s String) Equal(o String) bool { return s == o }

// Bytes is a byte-string key hashed with murmur3.
type Bytes []byte

// HashInto implements Key.
func (b Bytes) HashInto(h *Hasher) {
	h.Add(murmur3.Sum64(b))
	h.Add(uint64(len(b)))
}

// Equal implements Key.
func (b Bytes) Equal(o Bytes) bool { return string(b) == string(o) }
