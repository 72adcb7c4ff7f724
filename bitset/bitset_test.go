package bitset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bitblock/testutil"
)

func TestInsert_Scenario(t *testing.T) {
	s := New()
	for _, e := range []uint{3, 7, 130} {
		assert.True(t, s.Insert(e))
		require.NoError(t, s.Validate())
	}

	assert.Equal(t, 3, s.Cardinality())
	assert.Equal(t, []uint{3, 7, 130}, s.Elements())
	assert.True(t, s.Contains(7))
	assert.False(t, s.Contains(8))
	assert.False(t, s.Contains(1<<20))
	assert.Equal(t, 3, s.BlockCount())
}

func TestInsert_Idempotent(t *testing.T) {
	s := New()
	assert.True(t, s.Insert(5))
	assert.False(t, s.Insert(5))
	assert.Equal(t, 1, s.Cardinality())
}

func TestZeroValue(t *testing.T) {
	var s Set
	assert.True(t, s.IsEmpty())
	assert.Equal(t, 0, s.Cardinality())
	assert.False(t, s.Contains(0))
	assert.False(t, s.Remove(0))
	require.NoError(t, s.Validate())

	s.Insert(64)
	assert.Equal(t, []uint{64}, s.Elements())
	require.NoError(t, s.Validate())
}

func TestRemove_TrimsAndContracts(t *testing.T) {
	s := FromSlice(1, 1000)
	assert.Equal(t, 16, s.BlockCount())
	alloc := s.AllocatedBlocks()
	assert.GreaterOrEqual(t, alloc, 16)

	assert.True(t, s.Remove(1000))
	require.NoError(t, s.Validate())
	assert.Equal(t, 1, s.BlockCount())
	assert.Less(t, s.AllocatedBlocks(), alloc)
	// 4*count+1 >= allocated after contraction
	assert.GreaterOrEqual(t, 4*s.BlockCount()+1, s.AllocatedBlocks())

	assert.False(t, s.Remove(1000))
	assert.True(t, s.Remove(1))
	assert.True(t, s.IsEmpty())
	assert.Equal(t, 0, s.BlockCount())
	require.NoError(t, s.Validate())
}

func TestExpand_Doubles(t *testing.T) {
	s := New()
	assert.Equal(t, 1, s.AllocatedBlocks())
	s.Insert(64)
	assert.Equal(t, 2, s.AllocatedBlocks())
	s.Insert(64 * 2)
	assert.Equal(t, 4, s.AllocatedBlocks())
	s.Insert(64 * 4)
	assert.Equal(t, 8, s.AllocatedBlocks())
}

func TestToggle(t *testing.T) {
	s := New()
	assert.True(t, s.Toggle(200))
	assert.True(t, s.Contains(200))
	assert.False(t, s.Toggle(200))
	assert.True(t, s.IsEmpty())
	require.NoError(t, s.Validate())
}

func TestFromRange(t *testing.T) {
	tests := []struct {
		lo, hi uint
	}{
		{0, 0},
		{5, 3},
		{0, 1},
		{0, 64},
		{3, 64},
		{63, 65},
		{10, 300},
		{128, 192},
	}
	for _, tt := range tests {
		s := FromRange(tt.lo, tt.hi)
		require.NoError(t, s.Validate())

		var want []uint
		for e := tt.lo; e < tt.hi; e++ {
			want = append(want, e)
		}
		if want == nil {
			want = []uint{}
		}
		assert.Equal(t, want, s.Elements(), "[%d,%d)", tt.lo, tt.hi)
	}
}

func TestFromBlocks(t *testing.T) {
	s := FromBlocks([]uint64{0b101, 0, 0})
	require.NoError(t, s.Validate())
	assert.Equal(t, []uint{0, 2}, s.Elements())
	assert.Equal(t, 1, s.BlockCount())

	assert.True(t, FromBlocks(nil).IsEmpty())
}

func TestSetBlock(t *testing.T) {
	s := New()
	s.SetBlock(3, 1)
	assert.Equal(t, []uint{192}, s.Elements())
	s.SetBlock(0, 2)
	assert.Equal(t, []uint{1, 192}, s.Elements())
	s.SetBlock(3, 0)
	assert.Equal(t, []uint{1}, s.Elements())
	s.SetBlock(9, 0)
	assert.Equal(t, 1, s.BlockCount())
	require.NoError(t, s.Validate())
}

func TestMinMax(t *testing.T) {
	s := New()
	_, ok := s.Min()
	assert.False(t, ok)
	_, ok = s.Max()
	assert.False(t, ok)

	s = FromSlice(70, 5, 999)
	lo, ok := s.Min()
	assert.True(t, ok)
	assert.Equal(t, uint(5), lo)
	hi, ok := s.Max()
	assert.True(t, ok)
	assert.Equal(t, uint(999), hi)
}

func TestEqual_UsesInvariant(t *testing.T) {
	a := FromSlice(1, 2, 3)
	b := FromSlice(3, 2, 1)
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Invariant(), b.Invariant())

	b.Insert(200)
	assert.False(t, a.Equal(b))
	b.Remove(200)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(nil))
}

func TestClone_Independent(t *testing.T) {
	a := FromSlice(1, 2)
	b := a.Clone()
	b.Insert(3)
	assert.False(t, a.Contains(3))
	assert.True(t, b.Contains(3))
}

func TestClear(t *testing.T) {
	s := FromSlice(1, 5000)
	s.Clear()
	assert.True(t, s.IsEmpty())
	assert.Equal(t, 1, s.AllocatedBlocks())
	require.NoError(t, s.Validate())
}

func TestValidate_DetectsCorruption(t *testing.T) {
	s := FromSlice(1, 100)
	s.invariant ^= 1
	assert.ErrorIs(t, s.Validate(), ErrInvariant)

	s = FromSlice(1, 100)
	s.blocks[1] = 0
	assert.ErrorIs(t, s.Validate(), ErrInvariant)

	s = FromSlice(1)
	s.expand(3)
	s.blocks[3] = 1
	assert.ErrorIs(t, s.Validate(), ErrInvariant)
}

func TestRandomOps_KeepInvariants(t *testing.T) {
	rng := testutil.NewRNG(42)
	s := New()
	model := make(map[uint]bool)

	for i := 0; i < 5000; i++ {
		e := uint(rng.Intn(2000))
		switch rng.Intn(3) {
		case 0:
			assert.Equal(t, !model[e], s.Insert(e))
			model[e] = true
		case 1:
			assert.Equal(t, model[e], s.Remove(e))
			delete(model, e)
		default:
			if s.Toggle(e) {
				model[e] = true
			} else {
				delete(model, e)
			}
		}
		require.NoError(t, s.Validate())
	}

	assert.Equal(t, len(model), s.Cardinality())
	for e := range model {
		assert.True(t, s.Contains(e))
	}
}
