package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewStore(rdb, 5*time.Minute, nopLogger{}), mr
}

func testSummary() *domain.DashboardSummary {
	return &domain.DashboardSummary{
		RestaurantID:  42,
		Date:          time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		TotalTables:   10,
		BookingsCount: 2,
		GuestsCount:   8,
		Reservations: []domain.ReservationRow{
			{
				ReservationID: 101,
				TableNumbers:  []string{"T1"},
				SlotID:        7,
				CustomerName:  "Анна",
				CustomerPhone: "+79990001122",
				AdultCount:    2,
			},
			{
				ReservationID: 102,
				GroupID:       ptr.Ptr("2f1c9a4e-0000-0000-0000-000000000001"),
				TableNumbers:  []string{"T4", "T5"},
				SlotID:        7,
				CustomerName:  "Борис",
				CustomerPhone: "+79990003344",
				AdultCount:    4,
				KidsCount:     2,
			},
		},
	}
}

func TestKeyIsVersioned(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "dashboard:v5:42:2026-09-01", Key(42, date))
}

func TestStoreSetGetRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	summary := testSummary()

	_, ok := store.Get(ctx, summary.RestaurantID, summary.Date)
	assert.False(t, ok)

	store.Set(ctx, summary)

	got, ok := store.Get(ctx, summary.RestaurantID, summary.Date)
	require.True(t, ok)
	assert.Equal(t, summary.BookingsCount, got.BookingsCount)
	assert.Equal(t, summary.GuestsCount, got.GuestsCount)
	require.Len(t, got.Reservations, 2)
	assert.Equal(t, []string{"T4", "T5"}, got.Reservations[1].TableNumbers)
	assert.Equal(t, summary.Reservations[1].GroupID, got.Reservations[1].GroupID)
}

func TestStoreSetAppliesTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	summary := testSummary()

	store.Set(ctx, summary)

	key := Key(summary.RestaurantID, summary.Date)
	require.True(t, mr.Exists(key))

	mr.FastForward(6 * time.Minute)
	_, ok := store.Get(ctx, summary.RestaurantID, summary.Date)
	assert.False(t, ok)
}

func TestStoreInvalidate(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	summary := testSummary()

	store.Set(ctx, summary)
	store.Invalidate(ctx, summary.RestaurantID, summary.Date)

	assert.False(t, mr.Exists(Key(summary.RestaurantID, summary.Date)))
	_, ok := store.Get(ctx, summary.RestaurantID, summary.Date)
	assert.False(t, ok)
}

func TestStoreGetSurvivesRedisDown(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	summary := testSummary()

	store.Set(ctx, summary)
	mr.Close()

	// Ошибки Redis глотаются: промах, не паника и не ошибка
	_, ok := store.Get(ctx, summary.RestaurantID, summary.Date)
	assert.False(t, ok)

	store.Set(ctx, summary)
	store.Invalidate(ctx, summary.RestaurantID, summary.Date)
}

func TestStoreGetIgnoresCorruptPayload(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	summary := testSummary()

	require.NoError(t, mr.Set(Key(summary.RestaurantID, summary.Date), "not-json"))

	_, ok := store.Get(ctx, summary.RestaurantID, summary.Date)
	assert.False(t, ok)
}
