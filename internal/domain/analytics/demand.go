package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Default demand detection thresholds.
const (
	DefaultDemandWindowDays = 7
	DefaultMinSearches      = 10
	DefaultMinWoWGrowthPct  = 50.0
	zeroResultScoreWeight   = 5
	topDemandSignals        = 20
	newDemandGrowthSentinel = 100.0
	lowStockReasonThreshold = 10
)

// DemandParams tunes the demand detector. Zero values fall back to the
// package defaults.
type DemandParams struct {
	WindowDays      int
	MinSearches     int
	MinWoWGrowthPct float64
}

func (p DemandParams) withDefaults() DemandParams {
	if p.WindowDays <= 0 {
		p.WindowDays = DefaultDemandWindowDays
	}
	if p.MinSearches <= 0 {
		p.MinSearches = DefaultMinSearches
	}
	if p.MinWoWGrowthPct <= 0 {
		p.MinWoWGrowthPct = DefaultMinWoWGrowthPct
	}
	return p
}

// DemandSignal is one surging search query with its contributing signals.
// InventoryLevel is nil when the lookup found no product or failed.
type DemandSignal struct {
	Query              string  `json:"query"`
	PeriodSearches     int     `json:"periodSearches"`
	PrevPeriodSearches int     `json:"prevPeriodSearches"`
	WoWGrowthPct       float64 `json:"wowGrowthPct"`
	ZeroResultSearches int     `json:"zeroResultCount"`
	InventoryLevel     *int    `json:"inventoryLevel"`
	Score              float64 `json:"score"`
	Reason             string  `json:"reason"`
}

// DetectDemand finds search queries whose volume is surging window over
// window. The events slice must cover both the current window [now-d, now]
// and the preceding window [now-2d, now-d). A query with no prior-window
// baseline reports the 100 percent growth sentinel, meaning new demand, not
// literal doubling. Inventory lookups are best effort: a failed lookup
// leaves InventoryLevel nil and never drops the candidate.
func DetectDemand(ctx context.Context, events []RawEvent, now time.Time, params DemandParams, inventory InventoryLookup) []DemandSignal {
	p := params.withDefaults()
	windowStart := now.AddDate(0, 0, -p.WindowDays)
	prevStart := now.AddDate(0, 0, -2*p.WindowDays)

	current := NewCounter()
	previous := NewCounter()
	zeroResults := NewCounter()

	for i := range events {
		se, ok := events[i].Search()
		if !ok {
			continue
		}
		ts := se.Timestamp
		switch {
		case !ts.Before(windowStart) && !ts.After(now):
			current.Add(se.Query)
			if se.ResultsCount == 0 {
				zeroResults.Add(se.Query)
			}
		case !ts.Before(prevStart) && ts.Before(windowStart):
			previous.Add(se.Query)
		}
	}

	var signals []DemandSignal
	for _, entry := range current.Entries() {
		if entry.Count < p.MinSearches {
			continue
		}
		prevCount := previous.Count(entry.Key)
		growth := newDemandGrowthSentinel
		if prevCount > 0 {
			growth = float64(entry.Count-prevCount) / float64(prevCount) * 100
		}
		if growth < p.MinWoWGrowthPct {
			continue
		}

		signal := DemandSignal{
			Query:              entry.Key,
			PeriodSearches:     entry.Count,
			PrevPeriodSearches: prevCount,
			WoWGrowthPct:       growth,
			ZeroResultSearches: zeroResults.Count(entry.Key),
		}
		signal.Score = float64(signal.PeriodSearches) + signal.WoWGrowthPct + float64(signal.ZeroResultSearches*zeroResultScoreWeight)

		if inventory != nil {
			if level, found, err := inventory.StockForQuery(ctx, entry.Key); err == nil && found {
				signal.InventoryLevel = &level
			}
		}
		signal.Reason = demandReason(&signal, p)
		signals = append(signals, signal)
	}

	sort.Slice(signals, func(i, j int) bool {
		if signals[i].Score != signals[j].Score {
			return signals[i].Score > signals[j].Score
		}
		return signals[i].Query < signals[j].Query
	})
	if len(signals) > topDemandSignals {
		signals = signals[:topDemandSignals]
	}
	return signals
}

// demandReason builds the human-readable explanation rendered next to each
// signal in the dashboard and the digest email.
func demandReason(s *DemandSignal, p DemandParams) string {
	reason := fmt.Sprintf("%d searches in the last %d days", s.PeriodSearches, p.WindowDays)
	if s.PrevPeriodSearches > 0 {
		reason += fmt.Sprintf(", up %.0f%% from %d", s.WoWGrowthPct, s.PrevPeriodSearches)
	} else {
		reason += ", no prior-period baseline"
	}
	if s.ZeroResultSearches > 0 {
		reason += fmt.Sprintf(", %d returned no results", s.ZeroResultSearches)
	}
	if s.InventoryLevel != nil && *s.InventoryLevel < lowStockReasonThreshold {
		reason += fmt.Sprintf(", only %d in stock", *s.InventoryLevel)
	}
	return reason
}
