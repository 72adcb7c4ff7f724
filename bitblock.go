package bitblock

import (
	"context"
	"time"

	"github.com/hupe1980/bitblock/cache"
	"github.com/hupe1980/bitblock/hashtable"
	"github.com/hupe1980/bitblock/index"
	"github.com/hupe1980/bitblock/keyhash"
)

// NewTable creates a hash table. Rehashes are logged through the configured
// Logger and recorded by the configured MetricsCollector.
func NewTable[K keyhash.Key[K], V any](optFns ...Option) *hashtable.Table[K, V] {
	o := applyOptions(optFns)
	logger := o.logger.WithComponent("hashtable")
	mc := o.metricsCollector

	tOpts := []hashtable.Option{
		hashtable.WithResourceController(o.resources.rc),
		hashtable.WithObserver(func(ev hashtable.RehashEvent) {
			logger.LogRehash(context.Background(), ev.FromBuckets, ev.ToBuckets, ev.Entries, ev.Err)
			mc.RecordRehash(ev.FromBuckets, ev.ToBuckets, ev.Grow, ev.Err)
		}),
	}
	if o.strategySet {
		tOpts = append(tOpts, hashtable.WithStrategy(o.strategy))
	}
	if o.initialBuckets > 0 {
		tOpts = append(tOpts, hashtable.WithInitialBuckets(o.initialBuckets))
	}
	if o.seed != 0 {
		tOpts = append(tOpts, hashtable.WithSeed(o.seed))
	}
	return hashtable.New[K, V](tOpts...)
}

func (o options) indexOptions() []index.Option {
	iOpts := []index.Option{
		index.WithLogger(o.logger.WithComponent("index").Logger),
		index.WithResourceController(o.resources.rc),
		index.WithWorkers(o.workers),
		index.WithReportInterval(o.reportInterval),
	}
	if o.strategySet {
		iOpts = append(iOpts, index.WithStrategy(o.strategy))
	}
	if o.initialBuckets > 0 {
		iOpts = append(iOpts, index.WithInitialBuckets(o.initialBuckets))
	}
	return iOpts
}

// NewIndex creates a mutable index table.
func NewIndex[K keyhash.Key[K]](optFns ...Option) *index.Mutable[K] {
	o := applyOptions(optFns)
	return index.NewMutable[K](o.indexOptions()...)
}

// BuildIndex assigns indices to keys in parallel and returns the frozen
// result.
//
// On failure the returned error is an *ErrBuild wrapping the cause.
func BuildIndex[K keyhash.Key[K]](ctx context.Context, keys []K, optFns ...Option) (*index.Frozen[K], error) {
	o := applyOptions(optFns)

	start := time.Now()
	f, err := index.Build(ctx, keys, o.indexOptions()...)
	d := time.Since(start)

	o.metricsCollector.RecordIndexBuild(len(keys), d, err)

	indexed := 0
	if f != nil {
		indexed = f.Len()
	}
	o.logger.WithComponent("index").LogBuild(ctx, len(keys), indexed, d, err)

	if err != nil {
		return nil, &ErrBuild{Keys: len(keys), cause: err}
	}
	return f, nil
}

func (o options) cacheOptions() []cache.Option {
	mc := o.metricsCollector
	cOpts := []cache.Option{
		cache.WithPolicy(o.policy),
		cache.WithShards(o.shards),
		cache.WithLogger(o.logger.WithComponent("cache").Logger),
		cache.WithResourceController(o.resources.rc),
		cache.WithEvictionCallback(func(_, _ any) { mc.RecordEviction() }),
	}
	if o.seed != 0 {
		cOpts = append(cOpts, cache.WithSeed(o.seed))
	}
	return cOpts
}

// NewCache creates a bounded cache holding at most capacity entries.
func NewCache[K keyhash.Key[K], V any](capacity int, optFns ...Option) (*cache.Bounded[K, V], error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	o := applyOptions(optFns)
	return cache.New[K, V](capacity, o.cacheOptions()...), nil
}

// NewShardedCache creates a cache split into independently locked shards.
// capacity is the total over all shards.
func NewShardedCache[K keyhash.Key[K], V any](capacity int, optFns ...Option) (*cache.Sharded[K, V], error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	o := applyOptions(optFns)
	return cache.NewSharded[K, V](capacity, o.cacheOptions()...), nil
}
