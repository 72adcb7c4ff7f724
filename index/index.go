package index

import (
	"fmt"
	"iter"
	"sync"

	"github.com/hupe1980/bitblock/hashtable"
	"github.com/hupe1980/bitblock/keyhash"
)

// Table is the read side shared by Mutable and Frozen.
type Table[K keyhash.Key[K]] interface {
	Lookup(k K) (int, bool)
	IndexOf(k K) (int, error)
	Key(i int) (K, bool)
	Len() int
}

var (
	_ Table[keyhash.Uint] = (*Mutable[keyhash.Uint])(nil)
	_ Table[keyhash.Uint] = (*Frozen[keyhash.Uint])(nil)
)

// Mutable assigns indices under a readers-writer lock.
type Mutable[K keyhash.Key[K]] struct {
	opts options

	mu     sync.RWMutex
	table  *hashtable.Table[K, int]
	keys   []K
	frozen bool
}

// NewMutable returns an empty table.
func NewMutable[K keyhash.Key[K]](optFns ...Option) *Mutable[K] {
	opts := newOptions(optFns)
	return &Mutable[K]{
		opts:  opts,
		table: hashtable.New[K, int](opts.tableOptions()...),
	}
}

// Lookup returns the index of k if it has one.
func (m *Mutable[K]) Lookup(k K) (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.table.Get(k)
}

// IndexOf returns the index of k, assigning the next free one if k is new.
// After Freeze a new key fails with ErrFrozen.
func (m *Mutable[K]) IndexOf(k K) (int, error) {
	if i, ok := m.Lookup(k); ok {
		return i, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// another writer may have assigned k between the two locks
	if i, ok := m.table.Get(k); ok {
		return i, nil
	}
	if m.frozen {
		return 0, &UnknownKeyError{Key: k}
	}

	i := len(m.keys)
	if _, _, err := m.table.Insert(k, i); err != nil {
		return 0, fmt.Errorf("index: assign %v: %w", k, err)
	}
	m.keys = append(m.keys, k)
	return i, nil
}

// Key returns the key holding index i.
func (m *Mutable[K]) Key(i int) (K, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i < 0 || i >= len(m.keys) {
		var zero K
		return zero, false
	}
	return m.keys[i], true
}

// Len returns the number of assigned indices.
func (m *Mutable[K]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.keys)
}

// IsFrozen reports whether Freeze has been called.
func (m *Mutable[K]) IsFrozen() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.frozen
}

// Freeze ends the assignment phase and returns the lock-free view. A second
// call fails with ErrFrozen.
func (m *Mutable[K]) Freeze() (*Frozen[K], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.frozen {
		return nil, ErrFrozen
	}
	m.frozen = true
	m.opts.logger.Info("index frozen",
		"keys", len(m.keys), "buckets", m.table.Buckets(), "rehashes", m.table.Rehashes())
	return &Frozen[K]{table: m.table, keys: m.keys}, nil
}

// Frozen is a read-only index table. All methods are safe for concurrent use
// without locking.
type Frozen[K keyhash.Key[K]] struct {
	table *hashtable.Table[K, int]
	keys  []K
}

// Lookup returns the index of k if it has one.
func (f *Frozen[K]) Lookup(k K) (int, bool) {
	return f.table.Get(k)
}

// IndexOf returns the index of k, or an *UnknownKeyError wrapping ErrFrozen.
func (f *Frozen[K]) IndexOf(k K) (int, error) {
	if i, ok := f.table.Get(k); ok {
		return i, nil
	}
	return 0, &UnknownKeyError{Key: k}
}

// Key returns the key holding index i.
func (f *Frozen[K]) Key(i int) (K, bool) {
	if i < 0 || i >= len(f.keys) {
		var zero K
		return zero, false
	}
	return f.keys[i], true
}

// Len returns the number of indices.
func (f *Frozen[K]) Len() int { return len(f.keys) }

// All yields every (index, key) pair in index order.
func (f *Frozen[K]) All() iter.Seq2[int, K] {
	return func(yield func(int, K) bool) {
		for i, k := range f.keys {
			if !yield(i, k) {
				return
			}
		}
	}
}
