package index

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/bitblock/keyhash"
)

// Build assigns an index to every key and freezes the result. Keys are
// dealt round-robin to the workers, each holding one resource worker slot
// while it runs. Duplicate keys share an index.
func Build[K keyhash.Key[K]](ctx context.Context, keys []K, optFns ...Option) (*Frozen[K], error) {
	m := NewMutable[K](optFns...)
	opts := m.opts

	workers := opts.workers
	if workers < 1 {
		workers = opts.rc.MaxWorkers()
	}
	workers = max(1, min(workers, len(keys)))

	var (
		done     atomic.Int64
		progress *rate.Sometimes
	)
	if opts.reportInterval > 0 {
		progress = &rate.Sometimes{First: 1, Interval: opts.reportInterval}
	}

	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		g.Go(func() error {
			if err := opts.rc.AcquireWorker(ctx); err != nil {
				return err
			}
			defer opts.rc.ReleaseWorker()

			for i := w; i < len(keys); i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				if _, err := m.IndexOf(keys[i]); err != nil {
					return err
				}
				n := done.Add(1)
				if progress != nil {
					progress.Do(func() {
						opts.logger.Info("index build progress",
							"done", n, "total", len(keys), "indexed", m.Len())
					})
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("index: build: %w", err)
	}
	return m.Freeze()
}
