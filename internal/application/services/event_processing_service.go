package services

import (
	"context"
	"strings"
	"time"

	"github.com/HarborCommerce/harbor-go/internal/domain/analytics"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/observability/logging"
)

// EventProcessingService validates and persists incoming journey events.
type EventProcessingService struct {
	events analytics.EventRepository
	logger *logging.ChanneledLogger
}

// NewEventProcessingService creates the event ingestion service.
func NewEventProcessingService(events analytics.EventRepository, logger *logging.ChanneledLogger) *EventProcessingService {
	return &EventProcessingService{
		events: events,
		logger: logger,
	}
}

// ProcessEvent validates and stores one event. Events that fail validation
// are skipped and reported as accepted=false without an error; malformed
// business data is never fatal.
func (s *EventProcessingService) ProcessEvent(ctx context.Context, event *analytics.RawEvent) (accepted bool, err error) {
	if reason := validateEvent(event); reason != "" {
		s.logger.Events().Debug("Event skipped", "reason", reason, "eventType", event.EventType)
		return false, nil
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if err := s.events.StoreEvent(ctx, event); err != nil {
		return false, err
	}

	s.logger.Events().Debug("Event stored",
		"eventId", event.EventID,
		"sessionId", event.SessionID,
		"eventType", event.EventType)
	return true, nil
}

// ProcessBatch stores a batch of events, skipping invalid ones. Returns how
// many were accepted.
func (s *EventProcessingService) ProcessBatch(ctx context.Context, events []analytics.RawEvent) (int, error) {
	accepted := 0
	for i := range events {
		ok, err := s.ProcessEvent(ctx, &events[i])
		if err != nil {
			return accepted, err
		}
		if ok {
			accepted++
		}
	}
	return accepted, nil
}

// validateEvent returns a skip reason, or "" when the event is storable.
// A search event without a query carries no analytical signal.
func validateEvent(event *analytics.RawEvent) string {
	if strings.TrimSpace(event.SessionID) == "" {
		return "missing session id"
	}
	if event.EventType == "" {
		return "missing event type"
	}
	if event.IsSearch() {
		if se, ok := event.Search(); !ok || strings.TrimSpace(se.Query) == "" {
			return "search event without query"
		}
	}
	return ""
}
