package analytics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demandSearch(query string, daysAgo int, seq int, zeroResult bool) RawEvent {
	eventType := EventTypeSearch
	results := 10
	if zeroResult {
		eventType = EventTypeZeroResultSearch
		results = 0
	}
	return RawEvent{
		SessionID: fmt.Sprintf("d-%s-%d-%d", query, daysAgo, seq),
		Timestamp: demandNow.AddDate(0, 0, -daysAgo).Add(time.Duration(seq) * time.Minute),
		EventType: eventType,
		EventData: map[string]any{"query": query, "resultsCount": results},
	}
}

var demandNow = time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

func demandEvents(query string, currentCount, prevCount, zeroCount int) []RawEvent {
	var events []RawEvent
	for i := 0; i < currentCount; i++ {
		events = append(events, demandSearch(query, 2, i, i < zeroCount))
	}
	for i := 0; i < prevCount; i++ {
		events = append(events, demandSearch(query, 9, i, false))
	}
	return events
}

func TestDetectDemandGrowthSentinel(t *testing.T) {
	events := demandEvents("steam deck", 12, 0, 0)

	signals := DetectDemand(context.Background(), events, demandNow, DemandParams{}, nil)
	require.Len(t, signals, 1)

	s := signals[0]
	assert.Equal(t, "steam deck", s.Query)
	assert.Equal(t, 12, s.PeriodSearches)
	assert.Zero(t, s.PrevPeriodSearches)
	assert.InDelta(t, 100.0, s.WoWGrowthPct, 0.001, "no prior baseline reports the 100 percent sentinel")
	assert.Contains(t, s.Reason, "no prior-period baseline")
}

func TestDetectDemandThresholds(t *testing.T) {
	var events []RawEvent
	events = append(events, demandEvents("rare gadget", 9, 0, 0)...)   // below minSearches
	events = append(events, demandEvents("steady seller", 20, 18, 0)...) // ~11% growth, below threshold
	events = append(events, demandEvents("surging item", 30, 10, 0)...)  // 200% growth

	signals := DetectDemand(context.Background(), events, demandNow, DemandParams{}, nil)
	require.Len(t, signals, 1)
	assert.Equal(t, "surging item", signals[0].Query)
	assert.InDelta(t, 200.0, signals[0].WoWGrowthPct, 0.001)
}

func TestDetectDemandScoreWeighsZeroResults(t *testing.T) {
	var events []RawEvent
	events = append(events, demandEvents("in stock thing", 15, 0, 0)...)
	events = append(events, demandEvents("missing thing", 15, 0, 4)...)

	signals := DetectDemand(context.Background(), events, demandNow, DemandParams{}, nil)
	require.Len(t, signals, 2)

	assert.Equal(t, "missing thing", signals[0].Query, "zero-result searches boost the score")
	assert.InDelta(t, 15+100+4*5, signals[0].Score, 0.001)
	assert.Equal(t, 4, signals[0].ZeroResultSearches)
	assert.Contains(t, signals[0].Reason, "4 returned no results")
}

func TestDetectDemandInventoryLookupBestEffort(t *testing.T) {
	events := demandEvents("flaky lookup", 12, 0, 0)
	failing := InventoryLookupFunc(func(ctx context.Context, q string) (int, bool, error) {
		return 0, false, errors.New("inventory service down")
	})

	signals := DetectDemand(context.Background(), events, demandNow, DemandParams{}, failing)
	require.Len(t, signals, 1, "a failed lookup never drops the candidate")
	assert.Nil(t, signals[0].InventoryLevel)
}

func TestDetectDemandInventoryLevelInReason(t *testing.T) {
	events := demandEvents("scarce item", 12, 0, 0)
	lookup := InventoryLookupFunc(func(ctx context.Context, q string) (int, bool, error) {
		assert.Equal(t, "scarce item", q, "lookup receives the normalized query")
		return 3, true, nil
	})

	signals := DetectDemand(context.Background(), events, demandNow, DemandParams{}, lookup)
	require.Len(t, signals, 1)
	require.NotNil(t, signals[0].InventoryLevel)
	assert.Equal(t, 3, *signals[0].InventoryLevel)
	assert.Contains(t, signals[0].Reason, "only 3 in stock")
}

func TestDetectDemandCapsAtTwenty(t *testing.T) {
	var events []RawEvent
	for i := 0; i < 25; i++ {
		events = append(events, demandEvents(fmt.Sprintf("item %02d", i), 11, 0, 0)...)
	}

	signals := DetectDemand(context.Background(), events, demandNow, DemandParams{}, nil)
	assert.Len(t, signals, 20)
}

func TestDetectDemandCustomParams(t *testing.T) {
	var events []RawEvent
	events = append(events, demandEvents("niche item", 4, 2, 0)...) // 100% growth, only 4 searches

	none := DetectDemand(context.Background(), events, demandNow, DemandParams{}, nil)
	assert.Empty(t, none, "default minSearches of 10 filters it out")

	loose := DetectDemand(context.Background(), events, demandNow, DemandParams{MinSearches: 3, MinWoWGrowthPct: 80}, nil)
	require.Len(t, loose, 1)
	assert.Equal(t, "niche item", loose[0].Query)
}
