package cancel_reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/internal/events"
	"github.com/m04kA/RST-ReservationService/internal/infra/realtime"
	reservationRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/RST-ReservationService/pkg/ptr"
)

type fakeReservationRepo struct {
	byID        map[int64]*domain.Reservation
	cancelCalls int
	cancelledAt time.Time
}

func (f *fakeReservationRepo) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	res, ok := f.byID[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	copied := *res
	return &copied, nil
}

func (f *fakeReservationRepo) GetByGroupID(ctx context.Context, groupID string) ([]*domain.Reservation, error) {
	var rows []*domain.Reservation
	for _, res := range f.byID {
		if res.GroupID != nil && *res.GroupID == groupID {
			copied := *res
			rows = append(rows, &copied)
		}
	}
	return rows, nil
}

func (f *fakeReservationRepo) CancelByIDs(ctx context.Context, ids []int64, reason *string) error {
	f.cancelCalls++
	for _, id := range ids {
		res := f.byID[id]
		res.Status = domain.StatusCancelled
		res.CancellationReason = reason
		at := f.cancelledAt
		res.CancelledAt = &at
	}
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeCache struct {
	invalidations []string
}

func (f *fakeCache) Invalidate(ctx context.Context, restaurantID int64, date time.Time) {
	f.invalidations = append(f.invalidations, date.Format(domain.DateFormat))
}

type fakePublisher struct {
	actions []realtime.ChangeAction
}

func (f *fakePublisher) Publish(ctx context.Context, restaurantID int64, date time.Time, slotID int64, action realtime.ChangeAction) {
	f.actions = append(f.actions, action)
}

// syncDispatcher выполняет задачи сразу, без фонового воркера
type syncDispatcher struct{}

func (syncDispatcher) Enqueue(task events.Task) {
	_ = task.Run(context.Background())
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func newFixture(rows ...*domain.Reservation) (*UseCase, *fakeReservationRepo, *fakeCache, *fakePublisher) {
	repo := &fakeReservationRepo{
		byID:        make(map[int64]*domain.Reservation),
		cancelledAt: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
	}
	for _, r := range rows {
		repo.byID[r.ID] = r
	}

	cache := &fakeCache{}
	pub := &fakePublisher{}
	uc := NewUseCase(repo, fakeTxManager{}, cache, pub, syncDispatcher{}, nopLogger{})
	return uc, repo, cache, pub
}

func bookedRow(id int64, groupID *string) *domain.Reservation {
	return &domain.Reservation{
		ID:              id,
		RestaurantID:    1,
		TableID:         id + 100,
		SlotID:          7,
		ReservationDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		GroupID:         groupID,
		Status:          domain.StatusBooked,
	}
}

func TestExecuteCancelsSingleReservation(t *testing.T) {
	uc, repo, cache, pub := newFixture(bookedRow(1, nil))

	resp, err := uc.Execute(context.Background(), &Request{
		RestaurantID:  1,
		ReservationID: 1,
		Reason:        ptr.Ptr("гость не придёт"),
	})
	require.NoError(t, err)

	assert.False(t, resp.AlreadyCancelled)
	require.Len(t, resp.Reservations, 1)
	assert.Equal(t, string(domain.StatusCancelled), resp.Reservations[0].Status)
	require.NotNil(t, resp.Reservations[0].CancellationReason)
	assert.Equal(t, "гость не придёт", *resp.Reservations[0].CancellationReason)
	assert.NotNil(t, resp.Reservations[0].CancelledAt)

	assert.Equal(t, 1, repo.cancelCalls)
	assert.Equal(t, []string{"2026-09-01"}, cache.invalidations)
	assert.Equal(t, []realtime.ChangeAction{realtime.ActionReservationCancelled}, pub.actions)
}

func TestExecuteCancelsWholeGroup(t *testing.T) {
	groupID := ptr.Ptr("2f1c9a4e-0000-0000-0000-000000000001")
	uc, repo, _, _ := newFixture(bookedRow(1, groupID), bookedRow(2, groupID))

	resp, err := uc.Execute(context.Background(), &Request{RestaurantID: 1, ReservationID: 2})
	require.NoError(t, err)

	assert.False(t, resp.AlreadyCancelled)
	assert.Len(t, resp.Reservations, 2)
	for _, row := range resp.Reservations {
		assert.Equal(t, string(domain.StatusCancelled), row.Status)
	}
	assert.Equal(t, 1, repo.cancelCalls)
	assert.True(t, repo.byID[1].IsCancelled())
	assert.True(t, repo.byID[2].IsCancelled())
}

func TestExecuteRepeatedCancelIsNoOp(t *testing.T) {
	uc, repo, cache, pub := newFixture(bookedRow(1, nil))
	ctx := context.Background()
	req := &Request{RestaurantID: 1, ReservationID: 1}

	_, err := uc.Execute(ctx, req)
	require.NoError(t, err)

	resp, err := uc.Execute(ctx, req)
	require.NoError(t, err)

	assert.True(t, resp.AlreadyCancelled)
	require.Len(t, resp.Reservations, 1)
	assert.Equal(t, string(domain.StatusCancelled), resp.Reservations[0].Status)

	// Повторная отмена не трогает БД, кеш и события
	assert.Equal(t, 1, repo.cancelCalls)
	assert.Len(t, cache.invalidations, 1)
	assert.Len(t, pub.actions, 1)
}

func TestExecuteForeignRestaurantLooksLikeNotFound(t *testing.T) {
	uc, repo, _, _ := newFixture(bookedRow(1, nil))

	_, err := uc.Execute(context.Background(), &Request{RestaurantID: 99, ReservationID: 1})
	assert.ErrorIs(t, err, ErrReservationNotFound)
	assert.Equal(t, 0, repo.cancelCalls)
}

func TestExecuteUnknownReservation(t *testing.T) {
	uc, _, _, _ := newFixture()

	_, err := uc.Execute(context.Background(), &Request{RestaurantID: 1, ReservationID: 404})
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestExecuteValidation(t *testing.T) {
	uc, _, _, _ := newFixture()
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{RestaurantID: 0, ReservationID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(ctx, &Request{RestaurantID: 1, ReservationID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	longReason := make([]byte, domain.MaxCancellationReasonLength+1)
	for i := range longReason {
		longReason[i] = 'a'
	}
	_, err = uc.Execute(ctx, &Request{RestaurantID: 1, ReservationID: 1, Reason: ptr.Ptr(string(longReason))})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
