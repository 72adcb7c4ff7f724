package hashtable

import (
	"iter"

	"github.com/hupe1980/bitblock/keyhash"
)

// Iterator walks a table: along the insertion list when linked, bucket by
// bucket otherwise. Insert and Erase invalidate outstanding iterators.
type Iterator[K keyhash.Key[K], V any] struct {
	t      *Table[K, V]
	e      *Entry[K, V]
	bucket int
}

// Iterator returns an iterator at the first entry.
func (t *Table[K, V]) Iterator() Iterator[K, V] {
	if t.linked() {
		return Iterator[K, V]{t: t, e: t.head}
	}
	it := Iterator[K, V]{t: t, bucket: -1}
	it.nextBucket()
	return it
}

func (it *Iterator[K, V]) nextBucket() {
	for it.bucket++; it.bucket < len(it.t.buckets); it.bucket++ {
		if e := it.t.buckets[it.bucket]; e != nil {
			it.e = e
			return
		}
	}
	it.e = nil
}

// Valid reports whether the iterator points at an entry.
func (it *Iterator[K, V]) Valid() bool { return it.e != nil }

// Entry returns the current entry. It panics when the iterator is exhausted.
func (it *Iterator[K, V]) Entry() *Entry[K, V] {
	if it.e == nil {
		panic("hashtable: dereferencing exhausted iterator")
	}
	return it.e
}

// Key returns the current key.
func (it *Iterator[K, V]) Key() K { return it.Entry().Key }

// Value returns the current value.
func (it *Iterator[K, V]) Value() V { return it.Entry().Value }

// Next advances to the following entry.
func (it *Iterator[K, V]) Next() {
	if it.e == nil {
		return
	}
	if it.t.linked() {
		it.e = it.e.listNext
		return
	}
	if it.e = it.e.next; it.e == nil {
		it.nextBucket()
	}
}

// All returns the entries in iteration order.
func (t *Table[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for it := t.Iterator(); it.Valid(); it.Next() {
			if !yield(it.e.Key, it.e.Value) {
				return
			}
		}
	}
}

// Keys returns the keys in iteration order.
func (t *Table[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range t.All() {
			if !yield(k) {
				return
			}
		}
	}
}
