package analytics

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/HarborCommerce/harbor-go/internal/domain/analytics"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/observability/logging"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/persistence/database"
	"github.com/HarborCommerce/harbor-go/pkg/config"
)

func testRepository(t *testing.T) *SQLEventRepository {
	t.Helper()

	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError,
	})
	require.NoError(t, err)

	db, err := database.NewConnection("sqlite3", filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewSQLEventRepository(db, logger)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

func TestStoreAndFindEventsRoundTrip(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	err := repo.StoreEvent(ctx, &domain.RawEvent{
		SessionID: "s1",
		UserID:    "user-7",
		EventType: domain.EventTypeSearch,
		Page:      "/search",
		Timestamp: base,
		EventData: map[string]any{"query": "gaming laptop", "resultsCount": 12},
	})
	require.NoError(t, err)

	events, err := repo.FindEventsInRange(ctx, base.Add(-time.Hour), base.Add(time.Hour), nil)
	require.NoError(t, err)
	require.Len(t, events, 1)

	e := events[0]
	assert.NotEmpty(t, e.EventID, "missing ids are minted at store time")
	assert.Equal(t, "s1", e.SessionID)
	assert.Equal(t, "user-7", e.UserID)
	assert.Equal(t, "gaming laptop", e.EventData["query"])
	assert.Equal(t, base, e.Timestamp)
}

func TestFindEventsInRangeFiltersByType(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	for i, eventType := range []string{
		domain.EventTypeSearch,
		domain.EventTypePageView,
		domain.EventTypeAddToCart,
	} {
		require.NoError(t, repo.StoreEvent(ctx, &domain.RawEvent{
			SessionID: "s1",
			EventType: eventType,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	events, err := repo.FindEventsInRange(ctx, base.Add(-time.Hour), base.Add(time.Hour),
		[]string{domain.EventTypeSearch, domain.EventTypeAddToCart})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventTypeSearch, events[0].EventType)
	assert.Equal(t, domain.EventTypeAddToCart, events[1].EventType)
}

func TestUserIDEncryptedAtRest(t *testing.T) {
	prevKey := config.AESKey
	config.AESKey = "0123456789abcdef0123456789abcdef"
	t.Cleanup(func() { config.AESKey = prevKey })

	repo := testRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.StoreEvent(ctx, &domain.RawEvent{
		SessionID: "s1",
		UserID:    "user-7",
		EventType: domain.EventTypePageView,
		Timestamp: base,
	}))

	var storedUserID string
	err := repo.db.QueryRowContext(ctx, "SELECT user_id FROM journey_events").Scan(&storedUserID)
	require.NoError(t, err)
	assert.NotEqual(t, "user-7", storedUserID, "user ids are not stored in plaintext when a key is configured")

	events, err := repo.FindEventsInRange(ctx, base.Add(-time.Hour), base.Add(time.Hour), nil)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "user-7", events[0].UserID)
}

func TestUserIDStoredBeforeKeyConfiguredSurvivesRead(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	// Stored without a key, read with one: the raw value comes back.
	require.NoError(t, repo.StoreEvent(ctx, &domain.RawEvent{
		SessionID: "s1",
		UserID:    "user-7",
		EventType: domain.EventTypePageView,
		Timestamp: base,
	}))

	prevKey := config.AESKey
	config.AESKey = "0123456789abcdef0123456789abcdef"
	t.Cleanup(func() { config.AESKey = prevKey })

	events, err := repo.FindEventsInRange(ctx, base.Add(-time.Hour), base.Add(time.Hour), nil)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "user-7", events[0].UserID)
}

func TestFindConversionsDerivesOrderData(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.StoreEvent(ctx, &domain.RawEvent{
		SessionID: "s1",
		EventType: domain.EventTypeCheckoutComplete,
		Timestamp: base,
		EventData: map[string]any{"orderTotal": 149.99, "products": []any{"p1", "p2"}},
	}))

	conversions, err := repo.FindConversionsInRange(ctx, base.Add(-time.Hour), base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, conversions, 1)
	assert.Equal(t, domain.ConversionCheckout, conversions[0].ConversionType)
	assert.InDelta(t, 149.99, conversions[0].OrderTotal, 0.001)
	assert.Equal(t, []string{"p1", "p2"}, conversions[0].Products)
}
