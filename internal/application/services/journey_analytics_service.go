// Package services provides application-level services that orchestrate
// business logic and coordinate between repositories and domain entities.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/HarborCommerce/harbor-go/internal/domain/analytics"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/caching/interfaces"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/observability/logging"
)

// JourneyReport is the full dashboard payload. Sections that could not be
// computed because their data fetch failed are zero-valued, never missing,
// so the dashboard always renders.
type JourneyReport struct {
	WindowDays   int                           `json:"windowDays"`
	GeneratedAt  time.Time                     `json:"generatedAt"`
	SessionCount int                           `json:"sessionCount"`
	Funnel       analytics.FunnelMetrics       `json:"funnel"`
	SearchTerms  []analytics.SearchTermRevenue `json:"searchTerms"`
	Quality      analytics.QualityReport       `json:"quality"`
	Flow         analytics.FlowReport          `json:"flow"`
	Intents      []QueryIntent                 `json:"intents"`
}

// QueryIntent pairs a top search query with its classified intent.
type QueryIntent struct {
	Query  string                 `json:"query"`
	Count  int                    `json:"count"`
	Result analytics.IntentResult `json:"result"`
}

// JourneyAnalyticsService computes journey reports from stored events. All
// I/O happens through injected collaborators with a per-call timeout; a
// failing collaborator degrades its report section instead of failing the
// whole request.
type JourneyAnalyticsService struct {
	events  analytics.EventRepository
	cache   interfaces.ReportCache
	logger  *logging.ChanneledLogger
	timeout time.Duration
	ttl     time.Duration
}

// NewJourneyAnalyticsService wires the journey report pipeline.
func NewJourneyAnalyticsService(
	events analytics.EventRepository,
	cache interfaces.ReportCache,
	logger *logging.ChanneledLogger,
	timeout, ttl time.Duration,
) *JourneyAnalyticsService {
	return &JourneyAnalyticsService{
		events:  events,
		cache:   cache,
		logger:  logger,
		timeout: timeout,
		ttl:     ttl,
	}
}

// GetJourneyReport computes the full dashboard report for the trailing
// window, serving a cached snapshot when one is fresh.
func (s *JourneyAnalyticsService) GetJourneyReport(ctx context.Context, windowDays int) (*JourneyReport, error) {
	if windowDays <= 0 {
		windowDays = 7
	}

	cacheKey := fmt.Sprintf("journey:%dd", windowDays)
	if cached, hit := s.cache.Get(cacheKey); hit {
		if report, ok := cached.(*JourneyReport); ok {
			return report, nil
		}
	}

	start := time.Now()
	now := time.Now().UTC()
	windowStart := now.AddDate(0, 0, -windowDays)

	// Both collaborator fetches run concurrently so a slow store costs one
	// timeout, not two.
	var (
		events      []analytics.RawEvent
		conversions []analytics.ConversionEvent
		wg          sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		events = s.fetchEvents(ctx, windowStart, now)
	}()
	go func() {
		defer wg.Done()
		conversions = s.fetchConversions(ctx, windowStart, now)
	}()
	wg.Wait()

	sessions := analytics.ReconstructSessions(events)
	searches := analytics.SearchEvents(events)

	report := &JourneyReport{
		WindowDays:   windowDays,
		GeneratedAt:  now,
		SessionCount: len(sessions),
		Funnel:       analytics.ComputeFunnelMetrics(searches, sessions, conversions),
		SearchTerms:  analytics.ComputeSearchTermRevenue(searches, conversions),
		Quality:      analytics.BuildQualityReport(sessions),
		Flow:         analytics.BuildFlowReport(sessions),
		Intents:      classifyTopQueries(searches, 20),
	}

	s.cache.Set(cacheKey, report, s.ttl)
	s.logger.Analytics().Info("Journey report computed",
		"windowDays", windowDays,
		"events", len(events),
		"sessions", len(sessions),
		"duration", time.Since(start))
	return report, nil
}

// GetFunnelReport computes just the funnel section.
func (s *JourneyAnalyticsService) GetFunnelReport(ctx context.Context, windowDays int) (analytics.FunnelMetrics, []analytics.SearchTermRevenue, error) {
	report, err := s.GetJourneyReport(ctx, windowDays)
	if err != nil {
		return analytics.FunnelMetrics{}, nil, err
	}
	return report.Funnel, report.SearchTerms, nil
}

// GetFlowReport computes just the flow section.
func (s *JourneyAnalyticsService) GetFlowReport(ctx context.Context, windowDays int) (analytics.FlowReport, error) {
	report, err := s.GetJourneyReport(ctx, windowDays)
	if err != nil {
		return analytics.FlowReport{}, err
	}
	return report.Flow, nil
}

// GetQualityReport computes just the quality section.
func (s *JourneyAnalyticsService) GetQualityReport(ctx context.Context, windowDays int) (analytics.QualityReport, error) {
	report, err := s.GetJourneyReport(ctx, windowDays)
	if err != nil {
		return analytics.QualityReport{}, err
	}
	return report.Quality, nil
}

// ClassifyQuery exposes intent classification for a single query.
func (s *JourneyAnalyticsService) ClassifyQuery(query string) analytics.IntentResult {
	return analytics.ClassifyIntent(query)
}

// fetchEvents loads raw events, substituting an empty slice on timeout or
// error so one slow store degrades a section, never the whole response.
func (s *JourneyAnalyticsService) fetchEvents(ctx context.Context, start, end time.Time) []analytics.RawEvent {
	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	events, err := s.events.FindEventsInRange(fetchCtx, start, end, nil)
	if err != nil {
		s.logger.Analytics().Warn("Event fetch failed, degrading report sections", "error", err.Error())
		return nil
	}
	return events
}

func (s *JourneyAnalyticsService) fetchConversions(ctx context.Context, start, end time.Time) []analytics.ConversionEvent {
	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	conversions, err := s.events.FindConversionsInRange(fetchCtx, start, end)
	if err != nil {
		s.logger.Analytics().Warn("Conversion fetch failed, degrading revenue sections", "error", err.Error())
		return nil
	}
	return conversions
}

// classifyTopQueries classifies the most frequent queries of the window.
func classifyTopQueries(searches []analytics.SearchEvent, limit int) []QueryIntent {
	counts := analytics.NewCounter()
	for i := range searches {
		counts.Add(searches[i].Query)
	}

	entries := counts.Top(limit)
	intents := make([]QueryIntent, 0, len(entries))
	for _, entry := range entries {
		intents = append(intents, QueryIntent{
			Query:  entry.Key,
			Count:  entry.Count,
			Result: analytics.ClassifyIntent(entry.Key),
		})
	}
	return intents
}
