package stores

import (
	"sync"
	"time"

	"github.com/HarborCommerce/harbor-go/internal/infrastructure/caching/types"
)

// StockStore memoizes inventory lookups keyed by normalized query.
type StockStore struct {
	entries map[string]*types.CachedStock
	mu      sync.RWMutex
}

// NewStockStore creates a new stock cache store
func NewStockStore() *StockStore {
	return &StockStore{
		entries: make(map[string]*types.CachedStock),
	}
}

// GetStock retrieves a memoized lookup. The third return value is false on
// a miss; found mirrors whether the original lookup matched a product.
func (ss *StockStore) GetStock(query string) (int, bool, bool) {
	ss.mu.RLock()
	entry, exists := ss.entries[query]
	ss.mu.RUnlock()

	if !exists || entry.Expired(time.Now().UTC()) {
		return 0, false, false
	}
	return entry.Level, entry.Found, true
}

// SetStock memoizes one lookup result.
func (ss *StockStore) SetStock(query string, level int, found bool, ttl time.Duration) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.entries[query] = &types.CachedStock{
		Level:     level,
		Found:     found,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}
}

// PurgeExpired removes all expired entries and returns how many were evicted.
func (ss *StockStore) PurgeExpired() int {
	now := time.Now().UTC()
	ss.mu.Lock()
	defer ss.mu.Unlock()

	evicted := 0
	for key, entry := range ss.entries {
		if entry.Expired(now) {
			delete(ss.entries, key)
			evicted++
		}
	}
	return evicted
}
