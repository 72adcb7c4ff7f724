package index

import (
	"log/slog"
	"time"

	"github.com/hupe1980/bitblock/hashtable"
	"github.com/hupe1980/bitblock/internal/resource"
)

type options struct {
	strategy       hashtable.Strategy
	initialBuckets int
	logger         *slog.Logger
	rc             *resource.Controller
	workers        int
	reportInterval time.Duration
}

// Option configures a table or a Build.
type Option func(*options)

// WithStrategy selects the layout of the underlying hash table.
func WithStrategy(s hashtable.Strategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// WithInitialBuckets presizes the underlying hash table.
func WithInitialBuckets(n int) Option {
	return func(o *options) {
		o.initialBuckets = n
	}
}

// WithLogger sets the logger for freeze and build progress events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithResourceController charges table memory to rc and bounds Build's
// workers by its worker slots.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithWorkers sets the number of Build workers. Values below 1 fall back to
// the resource controller's worker count.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithReportInterval sets how often Build logs progress. Zero disables
// progress logging.
func WithReportInterval(d time.Duration) Option {
	return func(o *options) {
		o.reportInterval = d
	}
}

func newOptions(optFns []Option) options {
	o := options{
		strategy:       hashtable.Linked,
		logger:         slog.New(slog.DiscardHandler),
		reportInterval: 5 * time.Second,
	}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}

func (o options) tableOptions() []hashtable.Option {
	return []hashtable.Option{
		hashtable.WithStrategy(o.strategy),
		hashtable.WithInitialBuckets(o.initialBuckets),
		hashtable.WithLogger(o.logger),
		hashtable.WithResourceController(o.rc),
	}
}
