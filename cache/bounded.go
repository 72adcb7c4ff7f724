package cache

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/bitblock/hashtable"
	"github.com/hupe1980/bitblock/keyhash"
)

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Len       int
	Capacity  int
}

// Bounded is a fixed-capacity cache. It is safe for concurrent use.
type Bounded[K keyhash.Key[K], V any] struct {
	opts     options
	capacity int

	mu    sync.Mutex
	table *hashtable.Table[K, V]

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// New returns a cache holding at most capacity entries (minimum 1).
func New[K keyhash.Key[K], V any](capacity int, optFns ...Option) *Bounded[K, V] {
	return newBounded[K, V](max(1, capacity), newOptions(optFns))
}

func newBounded[K keyhash.Key[K], V any](capacity int, opts options) *Bounded[K, V] {
	strategy := hashtable.Linked
	if opts.policy == EvictRandom {
		strategy = hashtable.Unlinked
	}
	return &Bounded[K, V]{
		opts:     opts,
		capacity: capacity,
		table: hashtable.New[K, V](
			hashtable.WithStrategy(strategy),
			hashtable.WithSeed(opts.seed),
			hashtable.WithLogger(opts.logger),
			hashtable.WithResourceController(opts.rc),
		),
	}
}

// Get returns the cached value for k.
func (c *Bounded[K, V]) Get(k K) (V, bool) {
	c.mu.Lock()
	v, ok := c.table.Get(k)
	c.mu.Unlock()

	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Put caches v under k unless k is already cached, in which case the cached
// value is kept. It returns the value now cached and whether v was stored.
func (c *Bounded[K, V]) Put(k K, v V) (V, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cur, ok := c.table.Get(k); ok {
		return cur, false, nil
	}
	if err := c.insert(k, v); err != nil {
		var zero V
		return zero, false, err
	}
	return v, true, nil
}

// Replace caches v under k, overwriting any cached value.
func (c *Bounded[K, V]) Replace(k K, v V) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if it := c.table.Find(k); it.Valid() {
		it.Entry().Value = v
		return nil
	}
	return c.insert(k, v)
}

// insert adds a new key, evicting first when full. The caller holds c.mu.
func (c *Bounded[K, V]) insert(k K, v V) error {
	for c.table.Len() >= c.capacity {
		c.evictOne()
	}
	_, _, err := c.table.Insert(k, v)
	if errors.Is(err, hashtable.ErrOutOfMemory) && c.table.Len() > 0 {
		c.evictOne()
		_, _, err = c.table.Insert(k, v)
	}
	return err
}

func (c *Bounded[K, V]) evictOne() {
	var (
		k  K
		v  V
		ok bool
	)
	switch c.opts.policy {
	case EvictRandom:
		k, v, ok = c.table.EraseRandom()
	default:
		var e *hashtable.Entry[K, V]
		if e, ok = c.table.Front(); ok {
			k, v = e.Key, e.Value
			c.table.Erase(k)
		}
	}
	if !ok {
		return
	}
	c.evictions.Add(1)
	c.opts.logger.Debug("cache eviction", "policy", c.opts.policy, "key", k)
	if c.opts.onEvict != nil {
		c.opts.onEvict(k, v)
	}
}

// Remove drops k and reports whether it was cached.
func (c *Bounded[K, V]) Remove(k K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.table.Erase(k)
}

// Len returns the number of cached entries.
func (c *Bounded[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.table.Len()
}

// Capacity returns the maximum number of entries.
func (c *Bounded[K, V]) Capacity() int { return c.capacity }

// Clear drops every entry. Counters are kept.
func (c *Bounded[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table.Clear()
}

// Stats returns the current counters.
func (c *Bounded[K, V]) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Len:       c.Len(),
		Capacity:  c.capacity,
	}
}
