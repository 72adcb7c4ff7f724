// Package cache provides bounded key/value caches on top of hashtable.
//
// A Bounded cache holds at most Capacity entries. When a new key arrives at
// a full cache one entry is evicted first:
//
//   - EvictOldest removes the earliest inserted entry (FIFO).
//   - EvictRandom removes the first entry of a pseudo-random bucket, which
//     approximates FIFO without the per-entry list pointers.
//
// Put never overwrites; use Replace for that. Sharded spreads keys over
// independently locked Bounded shards for concurrent workloads.
package cache
