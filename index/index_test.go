package index

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bitblock/bitset"
	"github.com/hupe1980/bitblock/hashtable"
	"github.com/hupe1980/bitblock/internal/resource"
	"github.com/hupe1980/bitblock/keyhash"
)

func TestMutable_AssignsInOrder(t *testing.T) {
	m := NewMutable[keyhash.String]()
	for i, k := range []keyhash.String{"a", "b", "c"} {
		got, err := m.IndexOf(k)
		require.NoError(t, err)
		assert.Equal(t, i, got)
	}
	again, err := m.IndexOf("b")
	require.NoError(t, err)
	assert.Equal(t, 1, again)
	assert.Equal(t, 3, m.Len())

	i, ok := m.Lookup("c")
	assert.True(t, ok)
	assert.Equal(t, 2, i)
	_, ok = m.Lookup("z")
	assert.False(t, ok)

	k, ok := m.Key(0)
	assert.True(t, ok)
	assert.Equal(t, keyhash.String("a"), k)
	_, ok = m.Key(3)
	assert.False(t, ok)
	_, ok = m.Key(-1)
	assert.False(t, ok)
}

func TestFreeze_RejectsUnseenKeys(t *testing.T) {
	m := NewMutable[keyhash.Uint]()
	_, _ = m.IndexOf(10)
	_, _ = m.IndexOf(20)

	f, err := m.Freeze()
	require.NoError(t, err)
	assert.True(t, m.IsFrozen())

	// known keys still resolve on both sides
	i, err := m.IndexOf(20)
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	i, err = f.IndexOf(10)
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	_, err = m.IndexOf(30)
	assert.ErrorIs(t, err, ErrFrozen)
	_, err = f.IndexOf(30)
	assert.ErrorIs(t, err, ErrFrozen)

	var unknown *UnknownKeyError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, keyhash.Uint(30), unknown.Key)
	assert.Contains(t, err.Error(), "unknown key 30")

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 2, f.Len())

	_, err = m.Freeze()
	assert.ErrorIs(t, err, ErrFrozen)
}

func TestFrozen_Reads(t *testing.T) {
	m := NewMutable[keyhash.Tuple](WithStrategy(hashtable.Unlinked))
	simplices := []keyhash.Tuple{{0, 1, 2}, {0, 1, 3}, {1, 2, 3}}
	for _, s := range simplices {
		_, err := m.IndexOf(s)
		require.NoError(t, err)
	}
	f, err := m.Freeze()
	require.NoError(t, err)

	for i, s := range simplices {
		got, ok := f.Lookup(s)
		require.True(t, ok)
		assert.Equal(t, i, got)
		k, ok := f.Key(i)
		require.True(t, ok)
		assert.True(t, k.Equal(s))
	}
	_, ok := f.Key(3)
	assert.False(t, ok)

	var seen []int
	for i, k := range f.All() {
		seen = append(seen, i)
		assert.True(t, k.Equal(simplices[i]))
	}
	assert.Equal(t, []int{0, 1, 2}, seen)
}

func TestMutable_ConcurrentIndexOf(t *testing.T) {
	m := NewMutable[keyhash.Uint]()
	const workers, keys = 8, 500

	results := make([][]int, workers)
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out := make([]int, keys)
			for k := range keys {
				i, err := m.IndexOf(keyhash.Uint((k + w*37) % keys))
				if err != nil {
					panic(err)
				}
				out[(k+w*37)%keys] = i
			}
			results[w] = out
		}()
	}
	wg.Wait()

	assert.Equal(t, keys, m.Len())
	for w := 1; w < workers; w++ {
		assert.Equal(t, results[0], results[w])
	}
	for k, i := range results[0] {
		got, ok := m.Key(i)
		require.True(t, ok)
		assert.Equal(t, keyhash.Uint(k), got)
	}
}

func TestFrozen_ConcurrentReads(t *testing.T) {
	m := NewMutable[keyhash.Uint]()
	for k := range 200 {
		_, _ = m.IndexOf(keyhash.Uint(k))
	}
	f, err := m.Freeze()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := range 200 {
				if i, ok := f.Lookup(keyhash.Uint(k)); !ok || i != k {
					panic("frozen lookup mismatch")
				}
			}
		}()
	}
	wg.Wait()
}

func TestMutable_SetKeys(t *testing.T) {
	m := NewMutable[*bitset.Set]()
	a, _ := m.IndexOf(bitset.FromSlice(0, 2, 5))
	b, _ := m.IndexOf(bitset.FromSlice(5, 2, 0))
	c, _ := m.IndexOf(bitset.FromSlice(0, 2))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestMutable_OutOfMemory(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 512})
	m := NewMutable[keyhash.Uint](WithResourceController(rc))

	var err error
	for k := 0; k < 1000 && err == nil; k++ {
		_, err = m.IndexOf(keyhash.Uint(k))
	}
	require.Error(t, err)
	assert.ErrorIs(t, err, hashtable.ErrOutOfMemory)
	assert.NotErrorIs(t, err, ErrFrozen)
}

func TestBuild(t *testing.T) {
	keys := make([]keyhash.Uint, 1000)
	for i := range keys {
		keys[i] = keyhash.Uint(i % 700)
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	rc := resource.NewController(resource.Config{MaxWorkers: 4})

	f, err := Build(context.Background(), keys,
		WithWorkers(4),
		WithResourceController(rc),
		WithLogger(logger),
		WithReportInterval(time.Hour),
	)
	require.NoError(t, err)
	assert.Equal(t, 700, f.Len())

	seen := make(map[int]bool)
	for k := range 700 {
		i, ok := f.Lookup(keyhash.Uint(k))
		require.True(t, ok)
		assert.False(t, seen[i], "index %d assigned twice", i)
		seen[i] = true
		got, _ := f.Key(i)
		assert.Equal(t, keyhash.Uint(k), got)
	}

	_, err = f.IndexOf(700)
	assert.ErrorIs(t, err, ErrFrozen)

	out := buf.String()
	assert.Contains(t, out, "index build progress")
	assert.Contains(t, out, "index frozen")
	assert.Equal(t, int64(0), rc.Stats().ActiveWorkers)
}

func TestBuild_Empty(t *testing.T) {
	f, err := Build[keyhash.Uint](context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, f.Len())
}

func TestBuild_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	keys := []keyhash.Uint{1, 2, 3}
	_, err := Build(ctx, keys, WithWorkers(2), WithReportInterval(0))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuild_MemoryRefused(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 256, MaxWorkers: 2})
	keys := make([]keyhash.Uint, 500)
	for i := range keys {
		keys[i] = keyhash.Uint(i)
	}
	_, err := Build(context.Background(), keys, WithResourceController(rc))
	assert.ErrorIs(t, err, hashtable.ErrOutOfMemory)
}
