// Package interfaces defines the cache contracts consumed by the
// application services.
package interfaces

import "time"

// ReportCache sits in front of the analytics pipeline. Get returns the
// cached value and true on a fresh hit; expired entries behave as misses.
type ReportCache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Delete(key string)
	Keys() []string
	PurgeExpired() int
}

// StockCache memoizes inventory lookups for the demand detector.
type StockCache interface {
	GetStock(query string) (level int, found, ok bool)
	SetStock(query string, level int, found bool, ttl time.Duration)
	PurgeExpired() int
}
