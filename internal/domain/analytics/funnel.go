package analytics

import (
	"math"
	"sort"
	"time"
)

// FunnelMetrics is an aggregate snapshot of the search → view → cart →
// checkout funnel. Stage counts are independently tallied, not assumed
// nested: a session can convert through a path that skipped the tracked
// add-to-cart event. Field names are rendered directly by dashboards.
type FunnelMetrics struct {
	TotalSearches       int `json:"totalSearches"`
	SearchesWithResults int `json:"searchesWithResults"`
	AddedToCart         int `json:"addedToCart"`
	CompletedCheckout   int `json:"completedCheckout"`

	SearchToViewRate     float64 `json:"searchToViewRate"`
	ViewToCartRate       float64 `json:"viewToCartRate"`
	CartToCheckoutRate   float64 `json:"cartToCheckoutRate"`
	SearchToCheckoutRate float64 `json:"searchToCheckoutRate"`

	TotalRevenue            float64 `json:"totalRevenue"`
	AvgRevenuePerSearch     float64 `json:"avgRevenuePerSearch"`
	AvgRevenuePerConversion float64 `json:"avgRevenuePerConversion"`

	AvgTimeToCartMin     float64 `json:"avgTimeToCart"`
	AvgTimeToCheckoutMin float64 `json:"avgTimeToCheckout"`
}

// SearchTermRevenue aggregates funnel facts keyed by normalized query text.
type SearchTermRevenue struct {
	Term             string  `json:"term"`
	Searches         int     `json:"searches"`
	Conversions      int     `json:"conversions"`
	ConversionRate   float64 `json:"conversionRate"`
	Revenue          float64 `json:"revenue"`
	RevenuePerSearch float64 `json:"revenuePerSearch"`
}

// ComputeFunnelMetrics computes the funnel snapshot from the searches of a
// reporting window, the reconstructed sessions, and the raw conversion
// events. Every division is zero-guarded: empty input yields a well-defined
// all-zero snapshot, never NaN or Inf.
func ComputeFunnelMetrics(searches []SearchEvent, sessions []Session, conversions []ConversionEvent) FunnelMetrics {
	m := FunnelMetrics{TotalSearches: len(searches)}

	for i := range searches {
		if searches[i].ResultsCount > 0 {
			m.SearchesWithResults++
		}
		if searches[i].AddedToCart {
			m.AddedToCart++
		}
		if searches[i].CheckoutCompleted {
			m.CompletedCheckout++
		}
	}

	m.SearchToViewRate = percentage(m.SearchesWithResults, m.TotalSearches)
	m.ViewToCartRate = percentage(m.AddedToCart, m.SearchesWithResults)
	m.CartToCheckoutRate = percentage(m.CompletedCheckout, m.AddedToCart)
	m.SearchToCheckoutRate = percentage(m.CompletedCheckout, m.TotalSearches)

	for i := range conversions {
		if conversions[i].ConversionType == ConversionCheckout {
			m.TotalRevenue += conversions[i].OrderTotal
		}
	}
	m.AvgRevenuePerSearch = ratio(m.TotalRevenue, m.TotalSearches)
	m.AvgRevenuePerConversion = ratio(m.TotalRevenue, m.CompletedCheckout)

	m.AvgTimeToCartMin = avgTimeToConversion(sessions, conversions, ConversionAddToCart)
	m.AvgTimeToCheckoutMin = avgTimeToConversion(sessions, conversions, ConversionCheckout)

	return m
}

// avgTimeToConversion averages minutes from a session's first search to its
// earliest conversion of the given type. Sessions without a recorded
// conversion timestamp are excluded from the average, not counted as zero.
func avgTimeToConversion(sessions []Session, conversions []ConversionEvent, conversionType string) float64 {
	earliest := make(map[string]time.Time)
	for i := range conversions {
		c := &conversions[i]
		if c.ConversionType != conversionType || c.SessionID == "" || c.Timestamp.IsZero() {
			continue
		}
		if prev, ok := earliest[c.SessionID]; !ok || c.Timestamp.Before(prev) {
			earliest[c.SessionID] = c.Timestamp
		}
	}

	var totalMinutes float64
	var counted int
	for i := range sessions {
		s := &sessions[i]
		conversionAt, ok := earliest[s.SessionID]
		if !ok {
			continue
		}
		firstSearch, ok := firstSearchTime(s)
		if !ok || conversionAt.Before(firstSearch) {
			continue
		}
		totalMinutes += conversionAt.Sub(firstSearch).Minutes()
		counted++
	}

	if counted == 0 {
		return 0
	}
	return totalMinutes / float64(counted)
}

func firstSearchTime(s *Session) (time.Time, bool) {
	for i := range s.Events {
		if s.Events[i].IsSearch() {
			return s.Events[i].Timestamp, true
		}
	}
	return time.Time{}, false
}

// ComputeSearchTermRevenue aggregates the funnel facts by normalized query
// text. A session's checkout revenue is attributed to each distinct term
// searched within it. Terms with zero revenue are filtered out; the result
// is sorted by revenue descending.
func ComputeSearchTermRevenue(searches []SearchEvent, conversions []ConversionEvent) []SearchTermRevenue {
	searchCounts := NewCounter()
	conversionCounts := NewCounter()
	sessionTerms := make(map[string]map[string]bool)

	for i := range searches {
		se := &searches[i]
		term := NormalizeKey(se.Query)
		if term == "" {
			continue
		}
		searchCounts.Add(term)
		if se.CheckoutCompleted {
			conversionCounts.Add(term)
		}
		if se.SessionID != "" {
			if sessionTerms[se.SessionID] == nil {
				sessionTerms[se.SessionID] = make(map[string]bool)
			}
			sessionTerms[se.SessionID][term] = true
		}
	}

	revenueByTerm := make(map[string]float64)
	for i := range conversions {
		c := &conversions[i]
		if c.ConversionType != ConversionCheckout || c.OrderTotal <= 0 {
			continue
		}
		for term := range sessionTerms[c.SessionID] {
			revenueByTerm[term] += c.OrderTotal
		}
	}

	var terms []SearchTermRevenue
	for _, entry := range searchCounts.Entries() {
		revenue := revenueByTerm[entry.Key]
		if revenue <= 0 {
			continue
		}
		terms = append(terms, SearchTermRevenue{
			Term:             entry.Key,
			Searches:         entry.Count,
			Conversions:      conversionCounts.Count(entry.Key),
			ConversionRate:   percentage(conversionCounts.Count(entry.Key), entry.Count),
			Revenue:          revenue,
			RevenuePerSearch: ratio(revenue, entry.Count),
		})
	}

	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Revenue != terms[j].Revenue {
			return terms[i].Revenue > terms[j].Revenue
		}
		return terms[i].Term < terms[j].Term
	})

	return terms
}

// percentage returns numerator/denominator as a percentage, 0 when the
// denominator is 0.
func percentage(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator) * 100
}

// ratio returns total/count, 0 when count is 0.
func ratio(total float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// roundScore rounds to the nearest integer, halves away from zero.
func roundScore(v float64) int {
	return int(math.Round(v))
}
