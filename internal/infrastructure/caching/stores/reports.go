// Package stores provides concrete cache store implementations
package stores

import (
	"sync"
	"time"

	"github.com/HarborCommerce/harbor-go/internal/infrastructure/caching/types"
)

// ReportStore implements TTL caching for computed analytics reports.
type ReportStore struct {
	entries map[string]*types.CachedReport
	mu      sync.RWMutex
}

// NewReportStore creates a new report cache store
func NewReportStore() *ReportStore {
	return &ReportStore{
		entries: make(map[string]*types.CachedReport),
	}
}

// Get retrieves a cached report. Expired entries are treated as misses and
// removed lazily.
func (rs *ReportStore) Get(key string) (any, bool) {
	rs.mu.RLock()
	entry, exists := rs.entries[key]
	rs.mu.RUnlock()

	if !exists {
		return nil, false
	}
	if entry.Expired(time.Now().UTC()) {
		rs.mu.Lock()
		delete(rs.entries, key)
		rs.mu.Unlock()
		return nil, false
	}
	return entry.Data, true
}

// Set stores a report snapshot with the given TTL.
func (rs *ReportStore) Set(key string, value any, ttl time.Duration) {
	now := time.Now().UTC()
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.entries[key] = &types.CachedReport{
		Data:       value,
		ComputedAt: now,
		ExpiresAt:  now.Add(ttl),
	}
}

// Delete removes a cached report.
func (rs *ReportStore) Delete(key string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	delete(rs.entries, key)
}

// Keys returns all cached keys, fresh or not.
func (rs *ReportStore) Keys() []string {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	keys := make([]string, 0, len(rs.entries))
	for k := range rs.entries {
		keys = append(keys, k)
	}
	return keys
}

// PurgeExpired removes all expired entries and returns how many were evicted.
func (rs *ReportStore) PurgeExpired() int {
	now := time.Now().UTC()
	rs.mu.Lock()
	defer rs.mu.Unlock()

	evicted := 0
	for key, entry := range rs.entries {
		if entry.Expired(now) {
			delete(rs.entries, key)
			evicted++
		}
	}
	return evicted
}
