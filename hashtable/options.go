package hashtable

import (
	"log/slog"

	"github.com/hupe1980/bitblock/internal/resource"
)

// Strategy selects the entry layout of a Table.
type Strategy int

const (
	// Unlinked keeps entries on bucket chains only.
	Unlinked Strategy = iota
	// Linked additionally threads entries in insertion order.
	Linked
)

func (s Strategy) String() string {
	switch s {
	case Unlinked:
		return "unlinked"
	case Linked:
		return "linked"
	default:
		return "unknown"
	}
}

// RehashEvent describes one completed or refused bucket-array change.
type RehashEvent struct {
	FromBuckets int
	ToBuckets   int
	Entries     int
	Grow        bool
	// Err is set when the resource controller refused the new bucket array.
	Err error
}

// Observer receives rehash events.
type Observer func(RehashEvent)

type options struct {
	strategy       Strategy
	initialBuckets int
	seed           uint64
	logger         *slog.Logger
	observer       Observer
	rc             *resource.Controller
}

// Option configures a Table.
type Option func(*options)

// WithStrategy selects linked or unlinked entries. Default is Unlinked.
func WithStrategy(s Strategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// WithInitialBuckets sets the starting bucket count. It is rounded up to the
// next prime of the sequence and is also the floor for shrinking.
func WithInitialBuckets(n int) Option {
	return func(o *options) {
		o.initialBuckets = n
	}
}

// WithSeed seeds the generator used by EraseRandom.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithLogger sets the logger for rehash events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver registers a rehash observer.
func WithObserver(fn Observer) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// WithResourceController charges entry and bucket memory to rc.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

func defaultOptions() options {
	return options{
		strategy: Unlinked,
		seed:     1,
		logger:   slog.New(slog.DiscardHandler),
	}
}
