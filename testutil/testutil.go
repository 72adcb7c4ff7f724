package testutil

import (
	"math/rand"
	"slices"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Elements returns n uniformly drawn elements in [0, universe).
// Duplicates are possible; the order is random.
func (r *RNG) Elements(n int, universe uint) []uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]uint, n)
	for i := range out {
		out[i] = uint(r.rand.Int63n(int64(universe)))
	}
	return out
}

// SparseElements returns n elements spread over [0, universe) in small
// clusters, so that most 64-bit blocks of the span stay empty.
func (r *RNG) SparseElements(n int, universe uint) []uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]uint, 0, n)
	for len(out) < n {
		base := uint(r.rand.Int63n(int64(universe)))
		// 1-4 neighbours within the same block region
		for k := r.rand.Intn(4) + 1; k > 0 && len(out) < n; k-- {
			e := base + uint(r.rand.Intn(64))
			if e < universe {
				out = append(out, e)
			}
		}
	}
	return out
}

// Perm returns the distinct values 0..n-1 in random order.
func (r *RNG) Perm(n int) []uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]uint, n)
	for i, v := range r.rand.Perm(n) {
		out[i] = uint(v)
	}
	return out
}

// Sorted returns the distinct elements of in, ascending.
func Sorted(in []uint) []uint {
	out := slices.Clone(in)
	slices.Sort(out)
	return slices.Compact(out)
}
