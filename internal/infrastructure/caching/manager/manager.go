// Package manager wires the cache stores together behind one facade.
package manager

import (
	"time"

	"github.com/HarborCommerce/harbor-go/internal/infrastructure/caching/interfaces"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/caching/stores"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/observability/logging"
)

// Manager owns the cache stores and exposes them through the cache
// interfaces. All stores are safe for concurrent use.
type Manager struct {
	reports *stores.ReportStore
	stock   *stores.StockStore
	logger  *logging.ChanneledLogger
}

// NewManager creates a cache manager with empty stores.
func NewManager(logger *logging.ChanneledLogger) *Manager {
	return &Manager{
		reports: stores.NewReportStore(),
		stock:   stores.NewStockStore(),
		logger:  logger,
	}
}

// Reports returns the report cache.
func (m *Manager) Reports() interfaces.ReportCache {
	return &loggedReportCache{store: m.reports, logger: m.logger}
}

// Stock returns the stock lookup cache.
func (m *Manager) Stock() interfaces.StockCache {
	return m.stock
}

// PurgeExpired sweeps every store and returns the total evictions.
func (m *Manager) PurgeExpired() int {
	evicted := m.reports.PurgeExpired() + m.stock.PurgeExpired()
	if evicted > 0 {
		m.logger.Cache().Info("Expired cache entries purged", "evicted", evicted)
	}
	return evicted
}

// loggedReportCache decorates the report store with hit/miss logging.
type loggedReportCache struct {
	store  *stores.ReportStore
	logger *logging.ChanneledLogger
}

func (c *loggedReportCache) Get(key string) (any, bool) {
	start := time.Now()
	value, hit := c.store.Get(key)
	c.logger.LogCacheOperation("get", key, hit, time.Since(start))
	return value, hit
}

func (c *loggedReportCache) Set(key string, value any, ttl time.Duration) {
	start := time.Now()
	c.store.Set(key, value, ttl)
	c.logger.LogCacheOperation("set", key, false, time.Since(start))
}

func (c *loggedReportCache) Delete(key string) {
	c.store.Delete(key)
}

func (c *loggedReportCache) Keys() []string {
	return c.store.Keys()
}

func (c *loggedReportCache) PurgeExpired() int {
	return c.store.PurgeExpired()
}
