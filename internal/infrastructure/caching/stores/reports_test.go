package stores

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportStoreHitAndExpiry(t *testing.T) {
	store := NewReportStore()
	store.Set("funnel:7d", map[string]int{"totalSearches": 42}, 50*time.Millisecond)

	value, hit := store.Get("funnel:7d")
	require.True(t, hit)
	assert.Equal(t, map[string]int{"totalSearches": 42}, value)

	time.Sleep(60 * time.Millisecond)
	_, hit = store.Get("funnel:7d")
	assert.False(t, hit, "expired entries behave as misses")
}

func TestReportStoreDeleteAndKeys(t *testing.T) {
	store := NewReportStore()
	store.Set("a", 1, time.Minute)
	store.Set("b", 2, time.Minute)

	assert.ElementsMatch(t, []string{"a", "b"}, store.Keys())

	store.Delete("a")
	_, hit := store.Get("a")
	assert.False(t, hit)
	assert.ElementsMatch(t, []string{"b"}, store.Keys())
}

func TestReportStorePurgeExpired(t *testing.T) {
	store := NewReportStore()
	store.Set("stale", 1, -time.Second)
	store.Set("fresh", 2, time.Minute)

	assert.Equal(t, 1, store.PurgeExpired())

	_, hit := store.Get("fresh")
	assert.True(t, hit)
}

func TestStockStoreMemoization(t *testing.T) {
	store := NewStockStore()

	_, _, ok := store.GetStock("laptop")
	assert.False(t, ok)

	store.SetStock("laptop", 7, true, time.Minute)
	level, found, ok := store.GetStock("laptop")
	require.True(t, ok)
	assert.True(t, found)
	assert.Equal(t, 7, level)

	store.SetStock("unicorn", 0, false, time.Minute)
	_, found, ok = store.GetStock("unicorn")
	require.True(t, ok)
	assert.False(t, found, "a memoized no-match is still a cache hit")
}
