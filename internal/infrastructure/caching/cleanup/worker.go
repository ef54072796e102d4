// Package cleanup runs the background sweep that evicts expired cache
// entries.
package cleanup

import (
	"context"
	"time"

	"github.com/HarborCommerce/harbor-go/internal/infrastructure/caching/manager"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/observability/logging"
)

// Worker periodically purges expired entries from all cache stores.
type Worker struct {
	cache    *manager.Manager
	logger   *logging.ChanneledLogger
	interval time.Duration
}

// NewWorker creates a cleanup worker with the given sweep interval.
func NewWorker(cache *manager.Manager, logger *logging.ChanneledLogger, interval time.Duration) *Worker {
	return &Worker{
		cache:    cache,
		logger:   logger,
		interval: interval,
	}
}

// Run sweeps on the configured interval until the context is cancelled.
// Intended to be launched as a goroutine at startup.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Cache().Info("Cache cleanup worker started", "interval", w.interval)
	for {
		select {
		case <-ctx.Done():
			w.logger.Cache().Info("Cache cleanup worker stopped")
			return
		case <-ticker.C:
			start := time.Now()
			evicted := w.cache.PurgeExpired()
			w.logger.Cache().Debug("Cache sweep completed",
				"evicted", evicted,
				"duration", time.Since(start))
		}
	}
}
