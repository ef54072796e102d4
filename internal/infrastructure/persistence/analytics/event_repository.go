// Package analytics provides the concrete SQL-based implementation for
// journey event persistence. Events are stored as they arrive; all report
// computation happens in memory over events loaded by range.
package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/HarborCommerce/harbor-go/internal/domain/analytics"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/observability/logging"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/persistence/database"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/security"
	"github.com/HarborCommerce/harbor-go/pkg/config"
	"github.com/oklog/ulid/v2"
)

const sqliteTimeFormat = "2006-01-02 15:04:05"

// SQLEventRepository handles journey event persistence to the database.
type SQLEventRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLEventRepository creates a new instance of the repository.
func NewSQLEventRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLEventRepository {
	return &SQLEventRepository{
		db:     db,
		logger: logger,
	}
}

// EnsureSchema creates the journey_events table when it does not exist yet.
func (r *SQLEventRepository) EnsureSchema(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS journey_events (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			user_id TEXT,
			event_type TEXT NOT NULL,
			page TEXT,
			event_data TEXT,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_journey_events_created_at ON journey_events (created_at);
		CREATE INDEX IF NOT EXISTS idx_journey_events_session ON journey_events (session_id);`

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure journey_events schema: %w", err)
	}
	return nil
}

// StoreEvent saves a raw journey event to the database.
func (r *SQLEventRepository) StoreEvent(ctx context.Context, event *analytics.RawEvent) error {
	if event.EventID == "" {
		event.EventID = ulid.Make().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	var eventData sql.NullString
	if len(event.EventData) > 0 {
		raw, err := json.Marshal(event.EventData)
		if err != nil {
			return fmt.Errorf("failed to encode event data: %w", err)
		}
		eventData = sql.NullString{String: string(raw), Valid: true}
	}

	userID, err := r.protectUserID(event.UserID)
	if err != nil {
		return fmt.Errorf("failed to protect user id: %w", err)
	}

	const query = `
		INSERT INTO journey_events (id, session_id, user_id, event_type, page, event_data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing journey event insert",
		"eventId", event.EventID,
		"sessionId", event.SessionID,
		"eventType", event.EventType)

	_, err = r.db.ExecContext(
		ctx,
		query,
		event.EventID,
		event.SessionID,
		nullable(userID),
		event.EventType,
		nullable(event.Page),
		eventData,
		event.Timestamp.UTC().Format(sqliteTimeFormat),
	)
	if err != nil {
		r.logger.Database().Error("Journey event insert failed",
			"error", err.Error(),
			"eventId", event.EventID,
			"eventType", event.EventType)
		return fmt.Errorf("failed to store journey event: %w", err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// protectUserID encrypts a user id for storage at rest when an AES key is
// configured. Without a key, the id is stored as given.
func (r *SQLEventRepository) protectUserID(userID string) (string, error) {
	if userID == "" || config.AESKey == "" {
		return userID, nil
	}
	return security.Encrypt(userID, config.AESKey)
}

// revealUserID reverses protectUserID. A value that does not decrypt (stored
// before the key was configured, or under an older key) is returned as is so
// one undecryptable row never drops the event.
func (r *SQLEventRepository) revealUserID(stored string) string {
	if stored == "" || config.AESKey == "" {
		return stored
	}
	plain, err := security.Decrypt(stored, config.AESKey)
	if err != nil {
		r.logger.Database().Debug("Stored user id did not decrypt, returning raw value", "error", err.Error())
		return stored
	}
	return plain
}

// FindEventsInRange retrieves events within [start, end), optionally
// filtered to the given event types.
func (r *SQLEventRepository) FindEventsInRange(ctx context.Context, startTime, endTime time.Time, eventTypes []string) ([]analytics.RawEvent, error) {
	query := `
		SELECT id, session_id, user_id, event_type, page, event_data, created_at
		FROM journey_events
		WHERE created_at >= ? AND created_at < ?`

	args := []any{
		startTime.UTC().Format(sqliteTimeFormat),
		endTime.UTC().Format(sqliteTimeFormat),
	}
	if len(eventTypes) > 0 {
		query += fmt.Sprintf(" AND event_type IN (%s)", placeholders(len(eventTypes)))
		for _, t := range eventTypes {
			args = append(args, t)
		}
	}
	query += " ORDER BY created_at"

	start := time.Now()
	r.logger.Database().Debug("Loading journey events in range",
		"startTime", startTime,
		"endTime", endTime,
		"eventTypes", eventTypes)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Database().Error("Failed to query journey events in range",
			"error", err.Error(),
			"startTime", startTime,
			"endTime", endTime)
		return nil, fmt.Errorf("failed to query journey events: %w", err)
	}
	defer rows.Close()

	var events []analytics.RawEvent
	for rows.Next() {
		event, ok := r.scanEvent(rows)
		if !ok {
			continue
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		r.logger.Database().Error("Row iteration error for journey events", "error", err.Error())
		return nil, err
	}

	duration := time.Since(start)
	r.logger.Database().Info("Journey events loaded in range",
		"startTime", startTime,
		"endTime", endTime,
		"count", len(events),
		"duration", duration)
	database.CheckAndLogSlowQuery(r.logger, query, duration)
	return events, nil
}

// FindConversionsInRange derives conversion events from the stored cart and
// checkout events within [start, end).
func (r *SQLEventRepository) FindConversionsInRange(ctx context.Context, startTime, endTime time.Time) ([]analytics.ConversionEvent, error) {
	events, err := r.FindEventsInRange(ctx, startTime, endTime, []string{
		analytics.EventTypeAddToCart,
		analytics.EventTypeCheckoutComplete,
	})
	if err != nil {
		return nil, err
	}

	conversions := make([]analytics.ConversionEvent, 0, len(events))
	for i := range events {
		e := &events[i]
		conversion := analytics.ConversionEvent{
			SessionID: e.SessionID,
			Timestamp: e.Timestamp,
		}
		switch e.EventType {
		case analytics.EventTypeAddToCart:
			conversion.ConversionType = analytics.ConversionAddToCart
		case analytics.EventTypeCheckoutComplete:
			conversion.ConversionType = analytics.ConversionCheckout
			conversion.OrderTotal = dataFloat(e.EventData, "orderTotal")
			conversion.Products = dataStrings(e.EventData, "products")
		}
		conversions = append(conversions, conversion)
	}
	return conversions, nil
}

// scanEvent reads one row tolerantly: a malformed row is logged and skipped,
// never fatal to the whole load.
func (r *SQLEventRepository) scanEvent(rows *sql.Rows) (analytics.RawEvent, bool) {
	var event analytics.RawEvent
	var userID, page, eventData sql.NullString
	var createdAtStr string

	err := rows.Scan(
		&event.EventID,
		&event.SessionID,
		&userID,
		&event.EventType,
		&page,
		&eventData,
		&createdAtStr,
	)
	if err != nil {
		r.logger.Database().Error("Failed to scan journey event row", "error", err.Error())
		return analytics.RawEvent{}, false
	}

	event.Timestamp, err = parseTimestamp(createdAtStr)
	if err != nil {
		r.logger.Database().Error("Failed to parse journey event timestamp", "error", err.Error(), "timestamp", createdAtStr)
		return analytics.RawEvent{}, false
	}

	event.UserID = r.revealUserID(userID.String)
	event.Page = page.String
	if eventData.Valid && eventData.String != "" {
		if err := json.Unmarshal([]byte(eventData.String), &event.EventData); err != nil {
			r.logger.Database().Error("Failed to decode journey event data", "error", err.Error(), "eventId", event.EventID)
		}
	}
	return event, true
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range []string{sqliteTimeFormat, time.RFC3339, time.RFC3339Nano} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", value)
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func dataFloat(data map[string]any, key string) float64 {
	switch v := data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	}
	return 0
}

func dataStrings(data map[string]any, key string) []string {
	raw, ok := data[key].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
