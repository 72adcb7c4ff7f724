package cache

import (
	"github.com/hupe1980/bitblock/keyhash"
)

// Sharded spreads keys over independent Bounded shards to reduce lock
// contention. Capacity is split evenly, so a skewed key distribution may
// evict earlier than a single Bounded cache of the same capacity would.
type Sharded[K keyhash.Key[K], V any] struct {
	shards []*Bounded[K, V]
}

// NewSharded returns a sharded cache of roughly capacity entries.
func NewSharded[K keyhash.Key[K], V any](capacity int, optFns ...Option) *Sharded[K, V] {
	opts := newOptions(optFns)
	n := max(1, opts.shards)
	per := max(1, (capacity+n-1)/n)

	s := &Sharded[K, V]{shards: make([]*Bounded[K, V], n)}
	for i := range s.shards {
		shardOpts := opts
		shardOpts.seed = opts.seed + uint64(i)
		s.shards[i] = newBounded[K, V](per, shardOpts)
	}
	return s
}

// shard uses the high half of the hash so that shard and bucket choice stay
// independent.
func (s *Sharded[K, V]) shard(k K) *Bounded[K, V] {
	h := keyhash.Sum(k)
	return s.shards[(h>>32)%uint64(len(s.shards))]
}

// Get returns the cached value for k.
func (s *Sharded[K, V]) Get(k K) (V, bool) { return s.shard(k).Get(k) }

// Put caches v under k unless k is already cached.
func (s *Sharded[K, V]) Put(k K, v V) (V, bool, error) { return s.shard(k).Put(k, v) }

// Replace caches v under k, overwriting any cached value.
func (s *Sharded[K, V]) Replace(k K, v V) error { return s.shard(k).Replace(k, v) }

// Remove drops k and reports whether it was cached.
func (s *Sharded[K, V]) Remove(k K) bool { return s.shard(k).Remove(k) }

// Shards returns the number of shards.
func (s *Sharded[K, V]) Shards() int { return len(s.shards) }

// Len returns the total number of cached entries.
func (s *Sharded[K, V]) Len() int {
	n := 0
	for _, sh := range s.shards {
		n += sh.Len()
	}
	return n
}

// Clear drops every entry of every shard.
func (s *Sharded[K, V]) Clear() {
	for _, sh := range s.shards {
		sh.Clear()
	}
}

// Stats returns counters summed over all shards.
func (s *Sharded[K, V]) Stats() Stats {
	var total Stats
	for _, sh := range s.shards {
		st := sh.Stats()
		total.Hits += st.Hits
		total.Misses += st.Misses
		total.Evictions += st.Evictions
		total.Len += st.Len
		total.Capacity += st.Capacity
	}
	return total
}
