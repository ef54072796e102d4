package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBase = time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

func searchEvent(sessionID, query string, results int, offset time.Duration) RawEvent {
	return RawEvent{
		EventID:   sessionID + "-" + query,
		SessionID: sessionID,
		Timestamp: testBase.Add(offset),
		EventType: EventTypeSearch,
		Page:      "/search",
		EventData: map[string]any{"query": query, "resultsCount": results},
	}
}

func plainEvent(sessionID, eventType, page string, offset time.Duration) RawEvent {
	return RawEvent{
		SessionID: sessionID,
		Timestamp: testBase.Add(offset),
		EventType: eventType,
		Page:      page,
	}
}

func TestReconstructSessionsPartition(t *testing.T) {
	events := []RawEvent{
		searchEvent("s1", "laptop", 40, 0),
		searchEvent("s2", "mouse", 12, time.Minute),
		searchEvent("s1", "gaming laptop", 18, 2*time.Minute),
		plainEvent("", EventTypePageView, "/home", 3*time.Minute),
		plainEvent("s2", EventTypeAddToCart, "/product/mouse-1", 4*time.Minute),
	}

	sessions := ReconstructSessions(events)
	require.Len(t, sessions, 2)

	total := 0
	for _, s := range sessions {
		total += len(s.Events)
	}
	assert.Equal(t, 4, total, "events with empty session id are dropped, the rest partition exactly")
}

func TestReconstructSessionsOrderingAndDerivedFields(t *testing.T) {
	events := []RawEvent{
		searchEvent("s1", "Gaming Laptop", 18, 5*time.Minute),
		searchEvent("s1", "laptop", 40, 0),
		searchEvent("s1", "LAPTOP", 35, 2*time.Minute),
		plainEvent("s1", EventTypeCheckoutComplete, "/checkout", 9*time.Minute),
	}
	events[3].UserID = "u-77"

	sessions := ReconstructSessions(events)
	require.Len(t, sessions, 1)
	s := sessions[0]

	assert.Equal(t, "s1", s.SessionID)
	assert.Equal(t, testBase, s.StartTime)
	assert.Equal(t, testBase.Add(9*time.Minute), s.EndTime)
	assert.Equal(t, int64(9*60*1000), s.DurationMs)
	assert.Equal(t, 3, s.TotalSearches)
	assert.Equal(t, 2, s.UniqueQueries, "case-insensitive uniqueness")
	assert.True(t, s.Converted)
	assert.False(t, s.AddedToCart)
	assert.Equal(t, "u-77", s.UserID)
	assert.Equal(t, "laptop"+PatternSeparator+"LAPTOP"+PatternSeparator+"Gaming Laptop", s.Pattern)
}

func TestReconstructSessionsPatternCapsAtFiveQueries(t *testing.T) {
	var events []RawEvent
	for i, q := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		events = append(events, searchEvent("s1", q, 5, time.Duration(i)*time.Minute))
	}

	sessions := ReconstructSessions(events)
	require.Len(t, sessions, 1)
	assert.Equal(t, "a → b → c → d → e", sessions[0].Pattern)
	assert.Equal(t, 7, sessions[0].TotalSearches)
}

func TestReconstructSessionsEmptyInput(t *testing.T) {
	assert.Empty(t, ReconstructSessions(nil))
	assert.Empty(t, ReconstructSessions([]RawEvent{}))
}

func TestSearchEventsSkipsEmptyQueries(t *testing.T) {
	events := []RawEvent{
		searchEvent("s1", "laptop", 40, 0),
		{SessionID: "s1", EventType: EventTypeSearch, Timestamp: testBase, EventData: map[string]any{"query": "   "}},
		{SessionID: "s1", EventType: EventTypeZeroResultSearch, Timestamp: testBase, EventData: map[string]any{"query": "quantum mouse"}},
	}

	searches := SearchEvents(events)
	require.Len(t, searches, 2)
	assert.Equal(t, "laptop", searches[0].Query)
	assert.Equal(t, "quantum mouse", searches[1].Query)
	assert.Zero(t, searches[1].ResultsCount, "zero-result searches report zero results")
}
