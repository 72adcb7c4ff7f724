// Package shared provides a reference-counted handle for values that are
// shared read-only between owners and copied before they are modified.
//
//	r := shared.NewRef(bitset.FromSlice(1, 2), (*bitset.Set).Clone)
//	other := r.Share()
//	r = r.Mutate(func(s *bitset.Set) { s.Insert(3) }) // clones, other is untouched
//
// Every handle obtained from NewRef, Share or Mutate must be released
// exactly once.
package shared

import (
	"sync/atomic"
)

// Ref is a counted handle to an immutable value.
type Ref[T any] struct {
	b *box[T]
}

type box[T any] struct {
	v         T
	refs      atomic.Int64
	clone     func(T) T
	onRelease func(T)
}

// Option configures a Ref.
type Option[T any] func(*box[T])

// WithReleaseHook runs fn once the last handle to a value is released.
func WithReleaseHook[T any](fn func(T)) Option[T] {
	return func(b *box[T]) {
		b.onRelease = fn
	}
}

// NewRef wraps v with a count of one. clone must return an independent
// deep copy; Mutate uses it when the value is shared.
func NewRef[T any](v T, clone func(T) T, opts ...Option[T]) *Ref[T] {
	b := &box[T]{v: v, clone: clone}
	for _, opt := range opts {
		opt(b)
	}
	b.refs.Store(1)
	return &Ref[T]{b: b}
}

// Load returns the value. Callers must not modify it.
func (r *Ref[T]) Load() T { return r.live().v }

// Count returns the number of live handles.
func (r *Ref[T]) Count() int64 { return r.live().refs.Load() }

// Share returns a new handle to the same value.
func (r *Ref[T]) Share() *Ref[T] {
	b := r.live()
	b.refs.Add(1)
	return &Ref[T]{b: b}
}

// Release gives up this handle. The release hook runs when the count drops
// from one to zero. Releasing a handle twice panics.
func (r *Ref[T]) Release() {
	b := r.live()
	r.b = nil
	switch n := b.refs.Add(-1); {
	case n == 0:
		if b.onRelease != nil {
			b.onRelease(b.v)
		}
	case n < 0:
		panic("shared: reference count below zero")
	}
}

// Mutate applies fn to a value owned only by the returned handle. If the
// value is shared, it is cloned first and this handle is released;
// otherwise fn runs in place and r itself is returned.
func (r *Ref[T]) Mutate(fn func(T)) *Ref[T] {
	b := r.live()
	if b.refs.Load() == 1 {
		fn(b.v)
		return r
	}
	cp := &box[T]{v: b.clone(b.v), clone: b.clone, onRelease: b.onRelease}
	cp.refs.Store(1)
	fn(cp.v)
	r.Release()
	return &Ref[T]{b: cp}
}

func (r *Ref[T]) live() *box[T] {
	if r.b == nil {
		panic("shared: use of released reference")
	}
	return r.b
}
