package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestElements(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.Elements(100, 50)

	assert.Len(t, v, 100)
	for _, e := range v {
		assert.Less(t, e, uint(50))
	}
}

func TestSparseElements(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.SparseElements(30, 1<<20)

	assert.Len(t, v, 30)
	for _, e := range v {
		assert.Less(t, e, uint(1<<20))
	}
}

func TestPerm(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.Perm(10)

	assert.ElementsMatch(t, []uint{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, v)
}

func TestReset(t *testing.T) {
	rng := NewRNG(1)
	a := rng.Uint64()
	rng.Reset()
	assert.Equal(t, a, rng.Uint64())
	assert.Equal(t, int64(1), rng.Seed())
}

func TestSorted(t *testing.T) {
	assert.Equal(t, []uint{1, 2, 5}, Sorted([]uint{5, 1, 2, 5, 1}))
}
