package bitblock

import (
	"log/slog"
	"time"

	"github.com/hupe1980/bitblock/cache"
	"github.com/hupe1980/bitblock/hashtable"
	"github.com/hupe1980/bitblock/internal/resource"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	resources        *Resources
	memoryLimit      int64
	workers          int
	reportInterval   time.Duration
	strategy         hashtable.Strategy
	strategySet      bool
	initialBuckets   int
	seed             uint64
	policy           cache.Policy
	shards           int
}

// Option configures the constructors of this package.
type Option func(*options)

// WithLogger configures structured logging. Pass nil to disable logging.
//
//	logger := bitblock.NewJSONLogger(slog.LevelDebug)
//	t := bitblock.NewTable[keyhash.Uint, int](bitblock.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithVerbosity is WithLogLevel(VerbosityLevel(v)).
func WithVerbosity(v int) Option {
	return WithLogLevel(VerbosityLevel(v))
}

// WithMetrics configures a metrics collector. Pass nil to disable metrics.
func WithMetrics(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithResources shares one resource budget between several constructors.
// It takes precedence over WithMemoryLimit and WithWorkers.
func WithResources(r *Resources) Option {
	return func(o *options) {
		o.resources = r
	}
}

// WithMemoryLimit caps the memory accounted to the constructed structure.
// Zero means tracking only.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithWorkers sets the number of BuildIndex workers.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithReportInterval sets how often BuildIndex logs progress. Zero disables
// progress logging.
func WithReportInterval(d time.Duration) Option {
	return func(o *options) {
		o.reportInterval = d
	}
}

// WithStrategy selects linked or unlinked hash tables.
func WithStrategy(s hashtable.Strategy) Option {
	return func(o *options) {
		o.strategy = s
		o.strategySet = true
	}
}

// WithInitialBuckets presizes hash tables.
func WithInitialBuckets(n int) Option {
	return func(o *options) {
		o.initialBuckets = n
	}
}

// WithSeed seeds random eviction. Zero keeps the package default.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithEvictionPolicy selects the cache eviction policy.
func WithEvictionPolicy(p cache.Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithShards sets the shard count of NewShardedCache.
func WithShards(n int) Option {
	return func(o *options) {
		o.shards = n
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		reportInterval:   5 * time.Second,
		shards:           16,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.resources == nil {
		o.resources = NewResources(o.memoryLimit, o.workers)
	}
	return o
}

// Resources is a memory and worker budget that can be shared between
// tables, caches and index builds.
type Resources struct {
	rc *resource.Controller
}

// NewResources returns a budget of memoryLimit bytes (0 for tracking only)
// and workers concurrent build workers (minimum 1).
func NewResources(memoryLimit int64, workers int) *Resources {
	return &Resources{rc: resource.NewController(resource.Config{
		MemoryLimitBytes: memoryLimit,
		MaxWorkers:       int64(workers),
	})}
}

// ResourceStats is a snapshot of a Resources budget.
type ResourceStats = resource.Stats

// Stats returns current usage.
func (r *Resources) Stats() ResourceStats { return r.rc.Stats() }
