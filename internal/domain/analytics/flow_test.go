package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func narrowingSession(sessionID string, converted bool) Session {
	events := []RawEvent{
		searchEvent(sessionID, "laptop", 40, 0),
		searchEvent(sessionID, "gaming laptop", 18, time.Minute),
		searchEvent(sessionID, "gaming laptop rtx", 6, 2*time.Minute),
	}
	if converted {
		events = append(events, plainEvent(sessionID, EventTypeCheckoutComplete, "/checkout", 3*time.Minute))
	}
	return ReconstructSessions(events)[0]
}

func TestClassifyBehaviorConvertedOutranksNarrowing(t *testing.T) {
	converted := narrowingSession("s1", true)
	narrowing := narrowingSession("s2", false)

	assert.Equal(t, BehaviorConverted, ClassifyBehavior(&converted))
	assert.Equal(t, BehaviorNarrowing, ClassifyBehavior(&narrowing))
}

func TestClassifyBehaviorPriorityOrder(t *testing.T) {
	cart := ReconstructSessions([]RawEvent{
		searchEvent("s1", "laptop", 40, 0),
		plainEvent("s1", EventTypeAddToCart, "/product/1", time.Minute),
	})[0]
	assert.Equal(t, BehaviorAddedToCart, ClassifyBehavior(&cart))

	single := ReconstructSessions([]RawEvent{searchEvent("s2", "laptop", 40, 0)})[0]
	// A lone search also counts as one narrowing-free, broadening-free
	// sequence; the single-search rule fires before exploring.
	assert.Equal(t, BehaviorSingleSearch, ClassifyBehavior(&single))

	exploring := ReconstructSessions([]RawEvent{
		searchEvent("s3", "laptop", 40, 0),
		searchEvent("s3", "office chair", 25, time.Minute),
		searchEvent("s3", "usb hub", 33, 2*time.Minute),
	})[0]
	assert.Equal(t, BehaviorExploring, ClassifyBehavior(&exploring))

	repeated := ReconstructSessions([]RawEvent{
		searchEvent("s4", "laptop stand", 30, 0),
		searchEvent("s4", "desk", 60, time.Minute),
		searchEvent("s4", "laptop stand", 30, 2*time.Minute),
	})[0]
	assert.Equal(t, BehaviorRepeatedSearches, ClassifyBehavior(&repeated))
}

func TestClassifyBehaviorSearchlessSession(t *testing.T) {
	// No searches at all: zero unique of zero total matches the exploring
	// rule before the repeated-searches fallback.
	browsing := ReconstructSessions([]RawEvent{
		plainEvent("s1", EventTypePageView, "/home", 0),
		plainEvent("s1", EventTypePageView, "/products/1", time.Minute),
	})[0]
	assert.Equal(t, BehaviorExploring, ClassifyBehavior(&browsing))
}

func TestClassifyBehaviorBroadening(t *testing.T) {
	s := ReconstructSessions([]RawEvent{
		searchEvent("s1", "gaming laptop rtx 3070", 4, 0),
		searchEvent("s1", "gaming laptop", 30, time.Minute),
		searchEvent("s1", "laptop", 90, 2*time.Minute),
	})[0]
	assert.Equal(t, BehaviorBroadening, ClassifyBehavior(&s))
}

func TestBuildFlowGraphTerminals(t *testing.T) {
	sessions := ReconstructSessions([]RawEvent{
		searchEvent("buy", "laptop", 40, 0),
		searchEvent("buy", "gaming laptop", 18, time.Minute),
		plainEvent("buy", EventTypeCheckoutComplete, "/checkout", 2*time.Minute),

		searchEvent("cart", "laptop", 40, 0),
		plainEvent("cart", EventTypeAddToCart, "/product/1", time.Minute),

		searchEvent("leave", "mouse", 12, 0),
	})

	edges := BuildFlowGraph(sessions)
	require.NotEmpty(t, edges)

	weights := make(map[string]int)
	for _, e := range edges {
		weights[e.From+"|"+e.To] = e.Weight
	}
	assert.Equal(t, 1, weights["laptop|gaming laptop"])
	assert.Equal(t, 1, weights["gaming laptop|"+FlowNodeCheckout], "converted sessions end at Checkout")
	assert.Equal(t, 1, weights["laptop|"+FlowNodeCart], "cart sessions end at Cart")
	assert.Equal(t, 1, weights["mouse|"+FlowNodeExit], "everything else ends at Exit")
}

func TestBuildFlowGraphCapsEdges(t *testing.T) {
	var events []RawEvent
	for i := 0; i < 60; i++ {
		id := string(rune('a'+i%26)) + string(rune('0'+i/26))
		events = append(events,
			searchEvent(id, "query "+id, 10, 0),
			searchEvent(id, "refined "+id, 5, time.Minute),
		)
	}

	edges := BuildFlowGraph(ReconstructSessions(events))
	assert.LessOrEqual(t, len(edges), 50)
}

func TestBuildFlowReportPatterns(t *testing.T) {
	var events []RawEvent
	for _, id := range []string{"s1", "s2", "s3"} {
		events = append(events,
			searchEvent(id, "laptop", 40, 0),
			searchEvent(id, "gaming laptop", 18, time.Minute),
		)
	}
	events = append(events, plainEvent("s1", EventTypeCheckoutComplete, "/checkout", 2*time.Minute))
	events = append(events, searchEvent("s4", "mouse", 12, 0))

	report := BuildFlowReport(ReconstructSessions(events))

	require.NotEmpty(t, report.CommonPatterns)
	top := report.CommonPatterns[0]
	assert.Equal(t, "laptop"+PatternSeparator+"gaming laptop", top.Pattern)
	assert.Equal(t, 3, top.Count)
	assert.InDelta(t, 33.333, top.ConversionRate, 0.001)

	require.Len(t, report.TopConversionPaths, 1)
	assert.Equal(t, top.Pattern, report.TopConversionPaths[0].Pattern)
	assert.Equal(t, 1, report.TopConversionPaths[0].Count)

	totalBehaviors := 0
	for _, n := range report.Behaviors {
		totalBehaviors += n
	}
	assert.Equal(t, 4, totalBehaviors, "every session is classified exactly once")
	assert.Equal(t, 1, report.Behaviors[BehaviorConverted])
}
