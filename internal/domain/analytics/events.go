// Package analytics contains the customer-journey analytics core: session
// reconstruction, search-intent classification, funnel and revenue math,
// session quality scoring, flow pattern mining, and the predictive demand
// detector. Everything in this package operates on already-materialized
// in-memory inputs; all I/O lives behind the interfaces declared here.
package analytics

import (
	"strings"
	"time"
)

// Event type constants. These are the compatibility surface with the
// storefront instrumentation and must not be renamed.
const (
	EventTypeSearch           = "search"
	EventTypePageView         = "page_view"
	EventTypeProductView      = "product_view"
	EventTypeAddToCart        = "add_to_cart"
	EventTypeCheckoutComplete = "checkout_complete"
	EventTypeZeroResultSearch = "zero_result_search"
	EventTypeFrustration      = "rage_click"
)

// Conversion type constants for ConversionEvent.
const (
	ConversionAddToCart = "add_to_cart"
	ConversionCheckout  = "checkout"
)

// RawEvent is a single instrumentation event as stored by the event store.
type RawEvent struct {
	EventID   string         `json:"eventId"`
	SessionID string         `json:"sessionId"`
	UserID    string         `json:"userId,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	EventType string         `json:"eventType"`
	Page      string         `json:"page"`
	EventData map[string]any `json:"eventData,omitempty"`
}

// SearchEvent is the search-specific view of a RawEvent.
type SearchEvent struct {
	SessionID         string    `json:"sessionId"`
	Timestamp         time.Time `json:"timestamp"`
	Query             string    `json:"query"`
	OriginalQuery     string    `json:"originalQuery"`
	Category          string    `json:"category,omitempty"`
	ResultsCount      int       `json:"resultsCount"`
	Intent            string    `json:"intent,omitempty"`
	AddedToCart       bool      `json:"addedToCart,omitempty"`
	CheckoutCompleted bool      `json:"checkoutCompleted,omitempty"`
}

// ConversionEvent drives revenue attribution.
type ConversionEvent struct {
	SessionID      string    `json:"sessionId"`
	ConversionType string    `json:"conversionType"` // add_to_cart | checkout
	Timestamp      time.Time `json:"timestamp"`
	OrderTotal     float64   `json:"orderTotal,omitempty"`
	Products       []string  `json:"products,omitempty"`
}

// Session is a reconstructed, time-ordered group of events sharing one
// session identifier. Sessions are rebuilt per report request and never
// persisted.
type Session struct {
	SessionID     string     `json:"sessionId"`
	Events        []RawEvent `json:"events"`
	StartTime     time.Time  `json:"startTime"`
	EndTime       time.Time  `json:"endTime"`
	DurationMs    int64      `json:"duration"`
	TotalSearches int        `json:"totalSearches"`
	UniqueQueries int        `json:"uniqueQueries"`
	Converted     bool       `json:"converted"`
	AddedToCart   bool       `json:"addedToCart"`
	Pattern       string     `json:"pattern"`
	UserID        string     `json:"userId,omitempty"`
}

// IsSearch reports whether the event is a search event (including
// zero-result searches, which carry a query like any other search).
func (e *RawEvent) IsSearch() bool {
	return e.EventType == EventTypeSearch || e.EventType == EventTypeZeroResultSearch
}

// IsAddToCart reports whether the event carries an add-to-cart signal,
// either by type or via instrumentation flag.
func (e *RawEvent) IsAddToCart() bool {
	if e.EventType == EventTypeAddToCart {
		return true
	}
	return dataFlag(e.EventData, "addedToCart")
}

// IsCheckout reports whether the event carries a checkout-completion signal.
func (e *RawEvent) IsCheckout() bool {
	if e.EventType == EventTypeCheckoutComplete {
		return true
	}
	return dataFlag(e.EventData, "checkoutCompleted")
}

// Search extracts the search view of the event. The second return value is
// false when the event is not a search event.
func (e *RawEvent) Search() (SearchEvent, bool) {
	if !e.IsSearch() {
		return SearchEvent{}, false
	}
	se := SearchEvent{
		SessionID:         e.SessionID,
		Timestamp:         e.Timestamp,
		Query:             dataString(e.EventData, "query"),
		OriginalQuery:     dataString(e.EventData, "originalQuery"),
		Category:          dataString(e.EventData, "category"),
		ResultsCount:      dataInt(e.EventData, "resultsCount"),
		AddedToCart:       dataFlag(e.EventData, "addedToCart"),
		CheckoutCompleted: dataFlag(e.EventData, "checkoutCompleted"),
	}
	if se.OriginalQuery == "" {
		se.OriginalQuery = se.Query
	}
	if e.EventType == EventTypeZeroResultSearch {
		se.ResultsCount = 0
	}
	return se, true
}

// SearchEvents extracts the search views of all search events in the slice,
// preserving order. Searches with an empty query are skipped.
func SearchEvents(events []RawEvent) []SearchEvent {
	var searches []SearchEvent
	for i := range events {
		if se, ok := events[i].Search(); ok && strings.TrimSpace(se.Query) != "" {
			searches = append(searches, se)
		}
	}
	return searches
}

func dataString(data map[string]any, key string) string {
	if data == nil {
		return ""
	}
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func dataInt(data map[string]any, key string) int {
	if data == nil {
		return 0
	}
	switch v := data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func dataFlag(data map[string]any, key string) bool {
	if data == nil {
		return false
	}
	if v, ok := data[key].(bool); ok {
		return v
	}
	return false
}
