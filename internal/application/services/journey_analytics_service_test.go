package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HarborCommerce/harbor-go/internal/domain/analytics"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/caching/stores"
)

func searchRaw(sessionID, query string, results int, offset time.Duration) analytics.RawEvent {
	return analytics.RawEvent{
		SessionID: sessionID,
		EventType: analytics.EventTypeSearch,
		Page:      "/search",
		Timestamp: time.Now().UTC().Add(-time.Hour).Add(offset),
		EventData: map[string]any{"query": query, "resultsCount": results},
	}
}

func TestGetJourneyReportComputesAndCaches(t *testing.T) {
	repo := &stubEventRepository{
		events: []analytics.RawEvent{
			searchRaw("s1", "gaming laptop", 12, 0),
			searchRaw("s1", "gaming laptop 16gb", 8, time.Minute),
		},
	}
	svc := NewJourneyAnalyticsService(repo, stores.NewReportStore(), testLogger(t), time.Second, time.Minute)

	report, err := svc.GetJourneyReport(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, report.WindowDays)
	assert.Equal(t, 1, report.SessionCount)
	assert.Equal(t, 2, report.Funnel.TotalSearches)
	assert.NotEmpty(t, report.Intents)

	// A second call with a now-failing repository serves the cached snapshot.
	repo.eventsErr = errors.New("db gone")
	cached, err := svc.GetJourneyReport(context.Background(), 7)
	require.NoError(t, err)
	assert.Same(t, report, cached)
}

func TestGetJourneyReportDegradesOnRepositoryFailure(t *testing.T) {
	repo := &stubEventRepository{
		eventsErr: errors.New("timeout"),
		convErr:   errors.New("timeout"),
	}
	svc := NewJourneyAnalyticsService(repo, stores.NewReportStore(), testLogger(t), time.Second, time.Minute)

	report, err := svc.GetJourneyReport(context.Background(), 7)
	require.NoError(t, err, "a failing store degrades sections, never the request")
	assert.Equal(t, 0, report.SessionCount)
	assert.Equal(t, 0, report.Funnel.TotalSearches)
	assert.Empty(t, report.SearchTerms)
	assert.Zero(t, report.Quality.Sample)
}

func TestGetJourneyReportFetchesConcurrently(t *testing.T) {
	repo := &stubEventRepository{fetchDelay: 100 * time.Millisecond}
	svc := NewJourneyAnalyticsService(repo, stores.NewReportStore(), testLogger(t), time.Second, time.Minute)

	start := time.Now()
	_, err := svc.GetJourneyReport(context.Background(), 7)
	require.NoError(t, err)

	// Sequential fetches would take at least twice the per-fetch delay.
	assert.Less(t, time.Since(start), 180*time.Millisecond)
}

func TestGetJourneyReportDefaultsWindow(t *testing.T) {
	repo := &stubEventRepository{}
	svc := NewJourneyAnalyticsService(repo, stores.NewReportStore(), testLogger(t), time.Second, time.Minute)

	report, err := svc.GetJourneyReport(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 7, report.WindowDays)
}
