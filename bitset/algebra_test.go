package bitset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlgebra_Scenario(t *testing.T) {
	a := FromSlice(1, 2, 3)
	b := FromSlice(2, 3, 4)

	assert.Equal(t, []uint{1, 2, 3, 4}, a.Union(b).Elements())
	assert.Equal(t, []uint{2, 3}, a.Intersection(b).Elements())
	assert.Equal(t, []uint{1}, a.Difference(b).Elements())
	assert.Equal(t, []uint{1, 4}, a.SymmetricDifference(b).Elements())

	// copy-returning forms leave the operands untouched
	assert.Equal(t, []uint{1, 2, 3}, a.Elements())
	assert.Equal(t, []uint{2, 3, 4}, b.Elements())
}

func TestAlgebra_InPlaceAcrossBlocks(t *testing.T) {
	a := FromSlice(1, 700)
	b := FromSlice(1, 2)

	a.IntersectWith(b)
	require.NoError(t, a.Validate())
	assert.Equal(t, []uint{1}, a.Elements())
	assert.Equal(t, 1, a.BlockCount())

	a = FromSlice(1, 700)
	a.DifferenceWith(FromSlice(700))
	require.NoError(t, a.Validate())
	assert.Equal(t, []uint{1}, a.Elements())

	a = FromSlice(5)
	a.UnionWith(FromSlice(1000))
	require.NoError(t, a.Validate())
	assert.Equal(t, []uint{5, 1000}, a.Elements())

	a.SymmetricDifferenceWith(FromSlice(1000, 6))
	require.NoError(t, a.Validate())
	assert.Equal(t, []uint{5, 6}, a.Elements())
}

func TestAlgebra_SelfAliasing(t *testing.T) {
	a := FromSlice(1, 99)
	a.UnionWith(a)
	assert.Equal(t, []uint{1, 99}, a.Elements())
	a.IntersectWith(a)
	assert.Equal(t, []uint{1, 99}, a.Elements())
	a.SymmetricDifferenceWith(a)
	assert.True(t, a.IsEmpty())
	require.NoError(t, a.Validate())
}

func TestSubsetSupersetDisjoint(t *testing.T) {
	small := FromSlice(2, 3)
	big := FromSlice(1, 2, 3, 500)
	other := FromSlice(4, 501)

	assert.True(t, small.IsSubset(big))
	assert.False(t, big.IsSubset(small))
	assert.True(t, big.IsSuperset(small))
	assert.False(t, small.IsSuperset(big))

	assert.True(t, small.IsDisjoint(other))
	assert.True(t, big.IsDisjoint(other))
	assert.False(t, small.IsDisjoint(big))
	assert.True(t, small.Intersects(big))

	empty := New()
	assert.True(t, empty.IsSubset(small))
	assert.True(t, small.IsSuperset(empty))
	assert.True(t, empty.IsDisjoint(empty))
}
