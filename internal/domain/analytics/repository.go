package analytics

import (
	"context"
	"time"
)

// EventRepository defines the contract for storing and retrieving
// journey events. Implementations live in infrastructure; callers are
// expected to tolerate failures by substituting empty slices so a slow
// or failing store degrades one report section, never the whole response.
type EventRepository interface {
	// StoreEvent saves a raw journey event.
	StoreEvent(ctx context.Context, event *RawEvent) error

	// FindEventsInRange retrieves events within [start, end), optionally
	// filtered to the given event types. An empty filter matches all types.
	FindEventsInRange(ctx context.Context, start, end time.Time, eventTypes []string) ([]RawEvent, error)

	// FindConversionsInRange retrieves conversion events within [start, end).
	FindConversionsInRange(ctx context.Context, start, end time.Time) ([]ConversionEvent, error)
}

// InventoryLookup resolves the stock level for a normalized search query.
// The boolean is false when no matching product exists. Lookups are
// best-effort: a failure never aborts the caller's computation.
type InventoryLookup interface {
	StockForQuery(ctx context.Context, normalizedQuery string) (int, bool, error)
}

// InventoryLookupFunc adapts a plain function to the InventoryLookup interface.
type InventoryLookupFunc func(ctx context.Context, normalizedQuery string) (int, bool, error)

// StockForQuery implements InventoryLookup.
func (f InventoryLookupFunc) StockForQuery(ctx context.Context, normalizedQuery string) (int, bool, error) {
	return f(ctx, normalizedQuery)
}
