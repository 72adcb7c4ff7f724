package cache

import (
	"log/slog"

	"github.com/hupe1980/bitblock/internal/resource"
)

// Policy selects the eviction victim.
type Policy int

const (
	// EvictOldest evicts in insertion order.
	EvictOldest Policy = iota
	// EvictRandom evicts a pseudo-random entry.
	EvictRandom
)

func (p Policy) String() string {
	switch p {
	case EvictOldest:
		return "oldest"
	case EvictRandom:
		return "random"
	default:
		return "unknown"
	}
}

type options struct {
	policy  Policy
	shards  int
	seed    uint64
	logger  *slog.Logger
	rc      *resource.Controller
	onEvict func(key, value any)
}

// Option configures a cache.
type Option func(*options)

// WithPolicy sets the eviction policy. Default is EvictOldest.
func WithPolicy(p Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithShards sets the shard count of a Sharded cache. Default is 16.
func WithShards(n int) Option {
	return func(o *options) {
		o.shards = n
	}
}

// WithSeed seeds random eviction.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithLogger sets the logger for eviction events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithResourceController charges entry memory to rc. A refused entry
// triggers one extra eviction before Put gives up.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithEvictionCallback is called with every evicted pair, under the cache
// lock.
func WithEvictionCallback(fn func(key, value any)) Option {
	return func(o *options) {
		o.onEvict = fn
	}
}

func newOptions(optFns []Option) options {
	o := options{
		policy: EvictOldest,
		shards: 16,
		seed:   1,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}
