// Package bitblock provides compact integer sets and the hash tables,
// index tables and caches built on top of them.
//
// # Sets
//
// Three interchangeable set representations live in their own packages:
//
//	bitset.Set        dense array of 64-bit blocks
//	compressed.Set    sorted non-zero blocks with a presence bitmap
//	fixed.Set64       a single 64-bit word for elements below 64
//
// Package intset converts between them and chooses the smallest one:
//
//	s := bitset.FromSlice(1, 5, 1000)
//	c := intset.ToCompressed(s)
//	small := intset.Compact(s)
//
// # Tables
//
// NewTable returns a hash table with linked (insertion ordered) or unlinked
// entries, wired to this package's logging and metrics:
//
//	t := bitblock.NewTable[keyhash.Tuple, int](
//	    bitblock.WithStrategy(hashtable.Linked),
//	    bitblock.WithMetrics(&bitblock.BasicMetricsCollector{}),
//	)
//	t.Insert(keyhash.Tuple{0, 1, 2}, 7)
//
// NewIndex and BuildIndex assign dense indices to keys. An index table can be
// frozen, after which unknown keys are reported with ErrFrozen:
//
//	f, err := bitblock.BuildIndex(ctx, simplices, bitblock.WithWorkers(4))
//
// # Caches
//
// NewCache and NewShardedCache bound the number of entries and evict either
// the oldest or a random entry.
//
// # Memory
//
// WithMemoryLimit and WithResources account table memory. Allocations beyond
// the limit fail with ErrOutOfMemory instead of growing without bound.
//
// # Encoding
//
// Package codec writes sets as checksummed binary frames with optional LZ4
// or ZSTD compression, and as JSON.
package bitblock
