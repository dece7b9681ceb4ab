package create_reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/internal/events"
	"github.com/m04kA/RST-ReservationService/internal/infra/realtime"
	reservationRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/reservation"
	slotRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/slot"
	"github.com/m04kA/RST-ReservationService/pkg/ptr"
	"github.com/m04kA/RST-ReservationService/pkg/types"
)

type fakeReservationRepo struct {
	existing       []*domain.Reservation
	created        []*domain.Reservation
	createBatchErr error
	nextID         int64
}

func (f *fakeReservationRepo) GetWithFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	var matched []*domain.Reservation
	for _, r := range f.existing {
		if r.RestaurantID != filter.RestaurantID {
			continue
		}
		if filter.Date != nil && !domain.SameDay(r.ReservationDate, *filter.Date) {
			continue
		}
		if filter.SlotID != nil && r.SlotID != *filter.SlotID {
			continue
		}
		matched = append(matched, r)
	}
	return matched, nil
}

func (f *fakeReservationRepo) CreateBatch(ctx context.Context, reservations []*domain.Reservation) error {
	if f.createBatchErr != nil {
		return f.createBatchErr
	}
	for _, r := range reservations {
		f.nextID++
		r.ID = f.nextID
		f.created = append(f.created, r)
	}
	return nil
}

type fakeSlotRepo struct {
	slots map[int64]*domain.Slot
}

func (f *fakeSlotRepo) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	slot, ok := f.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return slot, nil
}

type fakeTableRepo struct {
	tables map[int64]*domain.Table
}

func (f *fakeTableRepo) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Table, error) {
	var found []*domain.Table
	for _, id := range ids {
		if t, ok := f.tables[id]; ok {
			found = append(found, t)
		}
	}
	return found, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeCache struct {
	invalidations int
}

func (f *fakeCache) Invalidate(ctx context.Context, restaurantID int64, date time.Time) {
	f.invalidations++
}

type fakePublisher struct {
	actions []realtime.ChangeAction
}

func (f *fakePublisher) Publish(ctx context.Context, restaurantID int64, date time.Time, slotID int64, action realtime.ChangeAction) {
	f.actions = append(f.actions, action)
}

type fakeNotifier struct {
	phones []string
	params [][]string
	err    error
}

func (f *fakeNotifier) SendGuestConfirmation(ctx context.Context, phone, templateID string, params []string) error {
	f.phones = append(f.phones, phone)
	f.params = append(f.params, params)
	return f.err
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

type fixture struct {
	uc       *UseCase
	resRepo  *fakeReservationRepo
	cache    *fakeCache
	pub      *fakePublisher
	notifier *fakeNotifier
}

var testDate = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	date := testDate
	slots := &fakeSlotRepo{slots: map[int64]*domain.Slot{
		7: {
			ID:           7,
			RestaurantID: 1,
			StartTime:    types.TimeString("18:00"),
			EndTime:      types.TimeString("23:00"),
			SpecificDate: &date,
			IsActive:     true,
		},
	}}
	tables := &fakeTableRepo{tables: map[int64]*domain.Table{
		10: {ID: 10, RestaurantID: 1, TableNumber: "T1", Capacity: 4},
		11: {ID: 11, RestaurantID: 1, TableNumber: "T2", Capacity: 4},
		12: {ID: 12, RestaurantID: 1, TableNumber: "T3", Capacity: 2},
		99: {ID: 99, RestaurantID: 2, TableNumber: "X1", Capacity: 4},
	}}

	f := &fixture{
		resRepo:  &fakeReservationRepo{},
		cache:    &fakeCache{},
		pub:      &fakePublisher{},
		notifier: &fakeNotifier{},
	}
	f.uc = NewUseCase(
		f.resRepo, slots, tables,
		fakeTxManager{}, f.cache, f.pub, f.notifier, syncDispatcher{}, nopLogger{},
	)
	return f
}

func baseRequest() *Request {
	return &Request{
		RestaurantID:  1,
		TableID:       10,
		SlotID:        7,
		Date:          testDate,
		CustomerName:  "Анна",
		CustomerPhone: "+79990001122",
		AdultCount:    2,
	}
}

func TestExecuteCreatesSingleReservation(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	require.Len(t, resp.Reservations, 1)
	row := resp.Reservations[0]
	assert.Nil(t, resp.GroupID)
	assert.Equal(t, int64(10), row.TableID)
	assert.Equal(t, string(domain.StatusBooked), row.Status)

	assert.Equal(t, 1, f.cache.invalidations)
	assert.Equal(t, []realtime.ChangeAction{realtime.ActionReservationCreated}, f.pub.actions)
	require.Len(t, f.notifier.params, 1)
	assert.Equal(t, []string{"2026-09-01", "18:00"}, f.notifier.params[0])
}

func TestExecuteCreatesGroupWithSharedID(t *testing.T) {
	f := newFixture()
	req := baseRequest()
	req.MergeTableIDs = []int64{11, 12}
	req.AdultCount = 6

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, resp.GroupID)
	require.Len(t, resp.Reservations, 3)
	for _, row := range resp.Reservations {
		require.NotNil(t, row.GroupID)
		assert.Equal(t, *resp.GroupID, *row.GroupID)
	}
	assert.ElementsMatch(t, []int64{10, 11, 12},
		[]int64{resp.Reservations[0].TableID, resp.Reservations[1].TableID, resp.Reservations[2].TableID})
}

func TestExecuteRejectsOccupiedTable(t *testing.T) {
	f := newFixture()
	f.resRepo.existing = []*domain.Reservation{
		{ID: 1, RestaurantID: 1, TableID: 10, SlotID: 7, ReservationDate: testDate, Status: domain.StatusBooked},
	}

	_, err := f.uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrTableConflict)
	assert.Empty(t, f.resRepo.created)
	assert.Equal(t, 0, f.cache.invalidations)
	assert.Empty(t, f.pub.actions)
}

func TestExecuteGroupConflictBlocksAllRows(t *testing.T) {
	f := newFixture()
	f.resRepo.existing = []*domain.Reservation{
		{ID: 1, RestaurantID: 1, TableID: 12, SlotID: 7, ReservationDate: testDate, Status: domain.StatusBooked},
	}

	req := baseRequest()
	req.MergeTableIDs = []int64{11, 12}
	req.AdultCount = 6

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTableConflict)
	assert.Empty(t, f.resRepo.created)
}

func TestExecuteCancelledRowDoesNotBlock(t *testing.T) {
	f := newFixture()
	f.resRepo.existing = []*domain.Reservation{
		{ID: 1, RestaurantID: 1, TableID: 10, SlotID: 7, ReservationDate: testDate, Status: domain.StatusCancelled},
	}

	resp, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Len(t, resp.Reservations, 1)
}

func TestExecuteUniqueIndexRace(t *testing.T) {
	f := newFixture()
	f.resRepo.createBatchErr = reservationRepo.ErrTableAlreadyBooked

	_, err := f.uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrTableConflict)
}

func TestExecuteSlotChecks(t *testing.T) {
	t.Run("unknown slot", func(t *testing.T) {
		f := newFixture()
		req := baseRequest()
		req.SlotID = 404

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})

	t.Run("slot on another date", func(t *testing.T) {
		f := newFixture()
		req := baseRequest()
		req.Date = testDate.AddDate(0, 0, 1)

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	})
}

func TestExecuteForeignTable(t *testing.T) {
	f := newFixture()
	req := baseRequest()
	req.MergeTableIDs = []int64{99}
	req.AdultCount = 4

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTableNotFound)
	assert.Empty(t, f.resRepo.created)
}

func TestExecuteCustomStartTimeStored(t *testing.T) {
	f := newFixture()
	req := baseRequest()
	req.CustomStartTime = ptr.Ptr("19:30")

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, resp.Reservations, 1)
	require.NotNil(t, resp.Reservations[0].CustomStartTime)
	assert.Equal(t, "19:30", resp.Reservations[0].CustomStartTime.String())

	// Уведомление уходит с кастомным временем, не с началом слота
	require.Len(t, f.notifier.params, 1)
	assert.Equal(t, []string{"2026-09-01", "19:30"}, f.notifier.params[0])
}

func TestExecuteNotifierFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture()
	f.notifier.err = errors.New("gateway timeout")

	resp, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Len(t, resp.Reservations, 1)
}
