// Package types defines the cache entry structures shared by the cache
// stores and their consumers.
package types

import "time"

// CachedReport is one computed report snapshot with its expiry. Snapshots
// are stale-but-valid: a cached report is always a complete, consistent
// result, never a partial write.
type CachedReport struct {
	Data       any       `json:"data"`
	ComputedAt time.Time `json:"computedAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// Expired reports whether the entry is past its TTL at the given instant.
func (c *CachedReport) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// CachedStock is one inventory lookup result with its expiry.
type CachedStock struct {
	Level     int       `json:"level"`
	Found     bool      `json:"found"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the entry is past its TTL at the given instant.
func (c *CachedStock) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
