package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HarborCommerce/harbor-go/internal/domain/analytics"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/observability/logging"
)

// stubEventRepository records stored events and returns canned ranges,
// optionally delaying each fetch.
type stubEventRepository struct {
	stored      []analytics.RawEvent
	storeErr    error
	events      []analytics.RawEvent
	eventsErr   error
	conversions []analytics.ConversionEvent
	convErr     error
	fetchDelay  time.Duration
}

func (r *stubEventRepository) StoreEvent(ctx context.Context, event *analytics.RawEvent) error {
	if r.storeErr != nil {
		return r.storeErr
	}
	r.stored = append(r.stored, *event)
	return nil
}

func (r *stubEventRepository) FindEventsInRange(ctx context.Context, start, end time.Time, eventTypes []string) ([]analytics.RawEvent, error) {
	time.Sleep(r.fetchDelay)
	return r.events, r.eventsErr
}

func (r *stubEventRepository) FindConversionsInRange(ctx context.Context, start, end time.Time) ([]analytics.ConversionEvent, error) {
	time.Sleep(r.fetchDelay)
	return r.conversions, r.convErr
}

func testLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError,
	})
	require.NoError(t, err)
	return logger
}

func TestProcessEventStoresValidEvent(t *testing.T) {
	repo := &stubEventRepository{}
	svc := NewEventProcessingService(repo, testLogger(t))

	accepted, err := svc.ProcessEvent(context.Background(), &analytics.RawEvent{
		SessionID: "s1",
		EventType: analytics.EventTypePageView,
		Page:      "/products/widget",
	})
	require.NoError(t, err)
	assert.True(t, accepted)
	require.Len(t, repo.stored, 1)
	assert.False(t, repo.stored[0].Timestamp.IsZero(), "missing timestamps are filled at ingest")
}

func TestProcessEventSkipsInvalidEvents(t *testing.T) {
	repo := &stubEventRepository{}
	svc := NewEventProcessingService(repo, testLogger(t))

	cases := []analytics.RawEvent{
		{EventType: analytics.EventTypePageView},
		{SessionID: "s1"},
		{SessionID: "s1", EventType: analytics.EventTypeSearch, EventData: map[string]any{"query": "   "}},
	}
	for i := range cases {
		accepted, err := svc.ProcessEvent(context.Background(), &cases[i])
		require.NoError(t, err, "invalid events are skipped, not errors")
		assert.False(t, accepted)
	}
	assert.Empty(t, repo.stored)
}

func TestProcessEventPropagatesStorageError(t *testing.T) {
	repo := &stubEventRepository{storeErr: errors.New("disk full")}
	svc := NewEventProcessingService(repo, testLogger(t))

	accepted, err := svc.ProcessEvent(context.Background(), &analytics.RawEvent{
		SessionID: "s1",
		EventType: analytics.EventTypePageView,
	})
	assert.Error(t, err)
	assert.False(t, accepted)
}

func TestProcessBatchCountsAccepted(t *testing.T) {
	repo := &stubEventRepository{}
	svc := NewEventProcessingService(repo, testLogger(t))

	accepted, err := svc.ProcessBatch(context.Background(), []analytics.RawEvent{
		{SessionID: "s1", EventType: analytics.EventTypePageView},
		{EventType: analytics.EventTypePageView},
		{SessionID: "s1", EventType: analytics.EventTypeAddToCart},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, accepted)
	assert.Len(t, repo.stored, 2)
}
