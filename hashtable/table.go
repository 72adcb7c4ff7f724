package hashtable

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"unsafe"

	"github.com/hupe1980/bitblock/keyhash"
)

// ErrOutOfMemory is returned when the resource controller refuses the
// allocation of a new entry.
var ErrOutOfMemory = errors.New("hashtable: out of memory")

const bucketBytes = int64(unsafe.Sizeof(uintptr(0)))

// Entry is one key/value pair. Value may be updated in place.
type Entry[K keyhash.Key[K], V any] struct {
	Key   K
	Value V

	hash uint64
	next *Entry[K, V]

	listPrev, listNext *Entry[K, V]
}

// Table is a chained hash table. The zero value is not usable; call New.
type Table[K keyhash.Key[K], V any] struct {
	opts options

	buckets      []*Entry[K, V]
	primeIndex   int
	initialIndex int
	size         int
	rehashes     int

	// insertion-ordered list, Linked strategy only
	head, tail *Entry[K, V]

	rng        *rand.Rand
	entryBytes int64
	accounted  int64
}

// New returns an empty table.
func New[K keyhash.Key[K], V any](optFns ...Option) *Table[K, V] {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	t := &Table[K, V]{
		opts:       opts,
		rng:        rand.New(rand.NewPCG(opts.seed, keyhash.Mix(opts.seed))),
		entryBytes: int64(unsafe.Sizeof(Entry[K, V]{})),
	}
	t.initialIndex = primeIndexFor(opts.initialBuckets)
	t.primeIndex = t.initialIndex
	if n := primes[t.initialIndex]; n > 0 && t.opts.rc.AcquireMemory(int64(n)*bucketBytes) == nil {
		t.buckets = make([]*Entry[K, V], n)
		t.accounted += int64(n) * bucketBytes
	} else {
		t.primeIndex = 0
	}
	return t
}

// Strategy returns the entry layout.
func (t *Table[K, V]) Strategy() Strategy { return t.opts.strategy }

func (t *Table[K, V]) linked() bool { return t.opts.strategy == Linked }

// Len returns the number of entries.
func (t *Table[K, V]) Len() int { return t.size }

// Buckets returns the current bucket count.
func (t *Table[K, V]) Buckets() int { return len(t.buckets) }

// LoadFactor returns Len / Buckets, or 0 for a table without buckets.
func (t *Table[K, V]) LoadFactor() float64 {
	if len(t.buckets) == 0 {
		return 0
	}
	return float64(t.size) / float64(len(t.buckets))
}

// Rehashes returns how often the bucket array has been replaced.
func (t *Table[K, V]) Rehashes() int { return t.rehashes }

// overloaded reports whether n entries exceed the growth threshold for the
// given bucket count: 100% when linked, 70% when unlinked.
func (t *Table[K, V]) overloaded(n, buckets int) bool {
	if t.linked() {
		return n > buckets
	}
	return 10*n > 7*buckets
}

// underloaded reports whether the load fell below a quarter of the growth
// threshold.
func (t *Table[K, V]) underloaded() bool {
	if t.linked() {
		return 4*t.size < len(t.buckets)
	}
	return 40*t.size < 7*len(t.buckets)
}

func (t *Table[K, V]) bucketOf(hash uint64) int {
	return int(hash % uint64(len(t.buckets)))
}

func (t *Table[K, V]) lookup(k K, hash uint64) *Entry[K, V] {
	if len(t.buckets) == 0 {
		return nil
	}
	for e := t.buckets[t.bucketOf(hash)]; e != nil; e = e.next {
		if e.hash == hash && e.Key.Equal(k) {
			return e
		}
	}
	return nil
}

// Insert adds k with value v. If k is already present, the existing entry is
// returned unchanged and inserted is false. ErrOutOfMemory is returned when
// the resource controller refuses the new entry.
func (t *Table[K, V]) Insert(k K, v V) (e *Entry[K, V], inserted bool, err error) {
	hash := keyhash.Sum(k)
	if e := t.lookup(k, hash); e != nil {
		return e, false, nil
	}

	if err := t.opts.rc.AcquireMemory(t.entryBytes); err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	t.accounted += t.entryBytes

	if len(t.buckets) == 0 {
		if err := t.expand(); err != nil {
			t.opts.rc.ReleaseMemory(t.entryBytes)
			t.accounted -= t.entryBytes
			return nil, false, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
		}
	}

	e = &Entry[K, V]{Key: k, Value: v, hash: hash}
	b := t.bucketOf(hash)
	e.next = t.buckets[b]
	t.buckets[b] = e
	if t.linked() {
		e.listPrev = t.tail
		if t.tail != nil {
			t.tail.listNext = e
		} else {
			t.head = e
		}
		t.tail = e
	}
	t.size++

	if t.overloaded(t.size, len(t.buckets)) {
		// a refused growth leaves the table overloaded but correct
		_ = t.expand()
	}
	return e, true, nil
}

// Find returns an iterator positioned at k, or an invalid iterator if k is
// absent.
func (t *Table[K, V]) Find(k K) Iterator[K, V] {
	e := t.lookup(k, keyhash.Sum(k))
	if e == nil {
		return Iterator[K, V]{t: t, bucket: len(t.buckets)}
	}
	return Iterator[K, V]{t: t, e: e, bucket: t.bucketOf(e.hash)}
}

// Get returns the value stored for k.
func (t *Table[K, V]) Get(k K) (V, bool) {
	if e := t.lookup(k, keyhash.Sum(k)); e != nil {
		return e.Value, true
	}
	var zero V
	return zero, false
}

// Contains reports whether k is present.
func (t *Table[K, V]) Contains(k K) bool {
	return t.lookup(k, keyhash.Sum(k)) != nil
}

// Erase removes k and reports whether it was present.
func (t *Table[K, V]) Erase(k K) bool {
	hash := keyhash.Sum(k)
	if len(t.buckets) == 0 {
		return false
	}
	b := t.bucketOf(hash)
	var prev *Entry[K, V]
	for e := t.buckets[b]; e != nil; prev, e = e, e.next {
		if e.hash == hash && e.Key.Equal(k) {
			t.unlink(b, prev, e)
			return true
		}
	}
	return false
}

// EraseRandom removes the first entry of a pseudo-random non-empty bucket and
// returns it. It reports false on an empty table.
func (t *Table[K, V]) EraseRandom() (K, V, bool) {
	if t.size == 0 {
		var (
			k K
			v V
		)
		return k, v, false
	}
	n := len(t.buckets)
	start := t.rng.IntN(n)
	for i := range n {
		b := (start + i) % n
		if e := t.buckets[b]; e != nil {
			t.unlink(b, nil, e)
			return e.Key, e.Value, true
		}
	}
	panic("hashtable: size and buckets disagree")
}

// Front returns the oldest entry of a linked table, or the first entry in
// bucket order of an unlinked table.
func (t *Table[K, V]) Front() (*Entry[K, V], bool) {
	it := t.Iterator()
	if !it.Valid() {
		return nil, false
	}
	return it.Entry(), true
}

func (t *Table[K, V]) unlink(b int, prev, e *Entry[K, V]) {
	if prev == nil {
		t.buckets[b] = e.next
	} else {
		prev.next = e.next
	}
	e.next = nil

	if t.linked() {
		if e.listPrev != nil {
			e.listPrev.listNext = e.listNext
		} else {
			t.head = e.listNext
		}
		if e.listNext != nil {
			e.listNext.listPrev = e.listPrev
		} else {
			t.tail = e.listPrev
		}
		e.listPrev, e.listNext = nil, nil
	}

	t.size--
	t.opts.rc.ReleaseMemory(t.entryBytes)
	t.accounted -= t.entryBytes

	if t.primeIndex > t.initialIndex && t.underloaded() {
		t.contract()
	}
}

// Clear removes every entry and returns to the initial bucket count.
func (t *Table[K, V]) Clear() {
	t.opts.rc.ReleaseMemory(t.accounted)
	t.accounted = 0
	t.buckets = nil
	t.head, t.tail = nil, nil
	t.size = 0
	t.primeIndex = 0
	if t.initialIndex > 0 {
		_ = t.rehash(t.initialIndex, true)
	}
}

var errMaxBuckets = errors.New("bucket count at maximum")

func (t *Table[K, V]) expand() error {
	if t.primeIndex == len(primes)-1 {
		return errMaxBuckets
	}
	return t.rehash(t.primeIndex+1, true)
}

func (t *Table[K, V]) contract() {
	_ = t.rehash(t.primeIndex-1, false)
}

// rehash moves every entry into a bucket array of primes[idx] buckets. When
// the resource controller refuses the new array the table is left unchanged.
func (t *Table[K, V]) rehash(idx int, grow bool) error {
	from, to := len(t.buckets), primes[idx]
	delta := int64(to-from) * bucketBytes
	if delta > 0 {
		if err := t.opts.rc.AcquireMemory(delta); err != nil {
			t.opts.logger.Warn("hashtable rehash refused",
				"from", from, "to", to, "entries", t.size, "error", err)
			t.notify(RehashEvent{FromBuckets: from, ToBuckets: to, Entries: t.size, Grow: grow, Err: err})
			return err
		}
	} else {
		t.opts.rc.ReleaseMemory(-delta)
	}
	t.accounted += delta

	old := t.buckets
	t.buckets = make([]*Entry[K, V], to)
	t.primeIndex = idx
	t.rehashes++

	if t.linked() {
		for e := t.head; e != nil; e = e.listNext {
			t.thread(e)
		}
	} else {
		for _, chain := range old {
			for e := chain; e != nil; {
				next := e.next
				t.thread(e)
				e = next
			}
		}
	}

	t.opts.logger.Debug("hashtable rehash",
		"strategy", t.opts.strategy, "from", from, "to", to, "entries", t.size)
	t.notify(RehashEvent{FromBuckets: from, ToBuckets: to, Entries: t.size, Grow: grow})
	return nil
}

// thread pushes e onto the chain of its bucket.
func (t *Table[K, V]) thread(e *Entry[K, V]) {
	if len(t.buckets) == 0 {
		panic("hashtable: threading into empty bucket array")
	}
	b := t.bucketOf(e.hash)
	e.next = t.buckets[b]
	t.buckets[b] = e
}

func (t *Table[K, V]) notify(ev RehashEvent) {
	if t.opts.observer != nil {
		t.opts.observer(ev)
	}
}
