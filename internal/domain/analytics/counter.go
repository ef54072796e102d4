package analytics

import (
	"sort"
	"strings"
)

// NormalizeKey canonicalizes a counter key: trim surrounding whitespace and
// lowercase. Applied once at ingestion so downstream lookups never have to
// re-normalize.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Counter is a frequency map over normalized string keys. It replaces the
// ad hoc map[string]int histograms scattered through earlier report code
// with one defined normalization point.
type Counter struct {
	counts map[string]int
}

// CounterEntry is one key/count pair from a Counter.
type CounterEntry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// NewCounter creates an empty counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Add increments the count for the normalized key. Keys that normalize to
// the empty string are ignored.
func (c *Counter) Add(key string) {
	c.AddN(key, 1)
}

// AddN increments the count for the normalized key by n.
func (c *Counter) AddN(key string, n int) {
	k := NormalizeKey(key)
	if k == "" {
		return
	}
	c.counts[k] += n
}

// Count returns the count for the normalized key, 0 if absent.
func (c *Counter) Count(key string) int {
	return c.counts[NormalizeKey(key)]
}

// Len returns the number of distinct keys.
func (c *Counter) Len() int {
	return len(c.counts)
}

// Keys returns all distinct normalized keys in unspecified order.
func (c *Counter) Keys() []string {
	keys := make([]string, 0, len(c.counts))
	for k := range c.counts {
		keys = append(keys, k)
	}
	return keys
}

// Entries returns all key/count pairs sorted by count descending, ties
// broken by key ascending so output order is deterministic.
func (c *Counter) Entries() []CounterEntry {
	entries := make([]CounterEntry, 0, len(c.counts))
	for k, n := range c.counts {
		entries = append(entries, CounterEntry{Key: k, Count: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// Top returns the first n entries of Entries.
func (c *Counter) Top(n int) []CounterEntry {
	entries := c.Entries()
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
