package services

import (
	"context"
	"fmt"
	"time"

	"github.com/HarborCommerce/harbor-go/internal/domain/analytics"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/caching/interfaces"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/observability/logging"
)

// DemandService runs the predictive demand detector over stored search
// events, memoizing inventory lookups through the stock cache.
type DemandService struct {
	events       analytics.EventRepository
	inventory    analytics.InventoryLookup
	reportCache  interfaces.ReportCache
	stockCache   interfaces.StockCache
	logger       *logging.ChanneledLogger
	timeout      time.Duration
	reportTTL    time.Duration
	inventoryTTL time.Duration
}

// NewDemandService wires the demand detection pipeline.
func NewDemandService(
	events analytics.EventRepository,
	inventory analytics.InventoryLookup,
	reportCache interfaces.ReportCache,
	stockCache interfaces.StockCache,
	logger *logging.ChanneledLogger,
	timeout, reportTTL, inventoryTTL time.Duration,
) *DemandService {
	return &DemandService{
		events:       events,
		inventory:    inventory,
		reportCache:  reportCache,
		stockCache:   stockCache,
		logger:       logger,
		timeout:      timeout,
		reportTTL:    reportTTL,
		inventoryTTL: inventoryTTL,
	}
}

// DetectDemand runs the detector for the given parameters, serving a cached
// snapshot when one is fresh.
func (s *DemandService) DetectDemand(ctx context.Context, params analytics.DemandParams) ([]analytics.DemandSignal, error) {
	cacheKey := fmt.Sprintf("demand:%d:%d:%g", params.WindowDays, params.MinSearches, params.MinWoWGrowthPct)
	if cached, hit := s.reportCache.Get(cacheKey); hit {
		if signals, ok := cached.([]analytics.DemandSignal); ok {
			return signals, nil
		}
	}

	start := time.Now()
	now := time.Now().UTC()
	windowDays := params.WindowDays
	if windowDays <= 0 {
		windowDays = analytics.DefaultDemandWindowDays
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	events, err := s.events.FindEventsInRange(
		fetchCtx,
		now.AddDate(0, 0, -2*windowDays),
		now,
		[]string{analytics.EventTypeSearch, analytics.EventTypeZeroResultSearch},
	)
	if err != nil {
		s.logger.Analytics().Warn("Search event fetch failed, demand report degraded to empty", "error", err.Error())
		events = nil
	}

	signals := analytics.DetectDemand(ctx, events, now, params, s.cachedLookup())

	s.reportCache.Set(cacheKey, signals, s.reportTTL)
	s.logger.Analytics().Info("Demand signals computed",
		"windowDays", windowDays,
		"events", len(events),
		"signals", len(signals),
		"duration", time.Since(start))
	return signals, nil
}

// cachedLookup wraps the inventory collaborator with the stock cache and a
// per-call timeout. Lookup failures are swallowed into a no-match result;
// the detector already treats those as best effort.
func (s *DemandService) cachedLookup() analytics.InventoryLookup {
	return analytics.InventoryLookupFunc(func(ctx context.Context, query string) (int, bool, error) {
		if level, found, ok := s.stockCache.GetStock(query); ok {
			return level, found, nil
		}

		lookupCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		level, found, err := s.inventory.StockForQuery(lookupCtx, query)
		if err != nil {
			s.logger.Inventory().Warn("Stock lookup failed", "query", query, "error", err.Error())
			return 0, false, err
		}

		s.stockCache.SetStock(query, level, found, s.inventoryTTL)
		return level, found, nil
	})
}
