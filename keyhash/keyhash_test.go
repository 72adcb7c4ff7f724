package keyhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasher_OrderSensitive(t *testing.T) {
	assert.NotEqual(t, Sum(Tuple{1, 2, 3}), Sum(Tuple{3, 2, 1}))
	assert.Equal(t, Sum(Tuple{1, 2, 3}), Sum(Tuple{1, 2, 3}))
}

func TestHasher_ComponentCountMatters(t *testing.T) {
	// {0} and {0,0} fold to the same accumulator; the count separates them.
	assert.NotEqual(t, Sum(Tuple{0}), Sum(Tuple{0, 0}))
}

func TestHasher_Reset(t *testing.T) {
	var h Hasher
	h.Add(42)
	assert.Equal(t, 1, h.Components())
	h.Reset()
	assert.Equal(t, 0, h.Components())

	var fresh Hasher
	assert.Equal(t, fresh.Sum64(), h.Sum64())
}

func TestKeys_Equal(t *testing.T) {
	assert.True(t, Uint(5).Equal(5))
	assert.False(t, Uint(5).Equal(6))

	assert.True(t, Tuple{1, 2}.Equal(Tuple{1, 2}))
	assert.False(t, Tuple{1, 2}.Equal(Tuple{1}))
	assert.False(t, Tuple{1, 2}.Equal(Tuple{1, 3}))

	assert.True(t, String("abc").Equal("abc"))
	assert.Equal(t, Sum(String("abc")), Sum(String("abc")))
	assert.NotEqual(t, Sum(String("abc")), Sum(String("abd")))

	assert.True(t, Bytes("xy").Equal(Bytes("xy")))
	assert.Equal(t, Sum(Bytes("xy")), Sum(Bytes("xy")))
}

func TestMix_Spreads(t *testing.T) {
	seen := make(map[uint64]struct{})
	for i := range uint64(1000) {
		seen[Mix(i)%97] = struct{}{}
	}
	// 1000 consecutive integers must hit (nearly) all residues.
	assert.Greater(t, len(seen), 90)
}
