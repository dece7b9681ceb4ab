package update_reservation

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
	byID      map[int64]*domain.Reservation
	nextID    int64
	created   []*domain.Reservation
	createErr error
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

func (f *fakeReservationRepo) GetWithFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	var rows []*domain.Reservation
	for _, res := range f.byID {
		if res.RestaurantID != filter.RestaurantID || res.Status != domain.StatusBooked {
			continue
		}
		if filter.Date != nil && !domain.SameDay(res.ReservationDate, *filter.Date) {
			continue
		}
		if filter.SlotID != nil && res.SlotID != *filter.SlotID {
			continue
		}
		copied := *res
		rows = append(rows, &copied)
	}
	return rows, nil
}

func (f *fakeReservationRepo) UpdateInfo(ctx context.Context, ids []int64, upd reservationRepo.InfoUpdate) error {
	for _, id := range ids {
		res, ok := f.byID[id]
		if !ok {
			return reservationRepo.ErrReservationNotFound
		}
		if upd.CustomerName != nil {
			res.CustomerName = *upd.CustomerName
		}
		if upd.CustomerPhone != nil {
			res.CustomerPhone = *upd.CustomerPhone
		}
		if upd.AdultCount != nil {
			res.AdultCount = *upd.AdultCount
		}
		if upd.KidsCount != nil {
			res.KidsCount = *upd.KidsCount
		}
		if upd.FoodPreference != nil {
			res.FoodPreference = upd.FoodPreference
		}
		if upd.SpecialRequest != nil {
			res.SpecialRequest = upd.SpecialRequest
		}
	}
	return nil
}

func (f *fakeReservationRepo) SetGroupID(ctx context.Context, ids []int64, groupID string) error {
	for _, id := range ids {
		f.byID[id].GroupID = ptr.Ptr(groupID)
	}
	return nil
}

func (f *fakeReservationRepo) CreateBatch(ctx context.Context, reservations []*domain.Reservation) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, res := range reservations {
		f.nextID++
		res.ID = f.nextID
		copied := *res
		f.byID[res.ID] = &copied
		f.created = append(f.created, &copied)
	}
	return nil
}

type fakeTableRepo struct {
	byID map[int64]*domain.Table
}

func (f *fakeTableRepo) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Table, error) {
	var tables []*domain.Table
	for _, id := range ids {
		if t, ok := f.byID[id]; ok {
			tables = append(tables, t)
		}
	}
	return tables, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
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

var updateDate = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

type fixture struct {
	uc      *UseCase
	resRepo *fakeReservationRepo
	cache   *fakeCache
	pub     *fakePublisher
}

func newFixture(rows ...*domain.Reservation) *fixture {
	repo := &fakeReservationRepo{byID: make(map[int64]*domain.Reservation), nextID: 100}
	for _, r := range rows {
		repo.byID[r.ID] = r
	}
	tables := &fakeTableRepo{byID: map[int64]*domain.Table{
		10: {ID: 10, RestaurantID: 1, TableNumber: "T1", Capacity: 2},
		11: {ID: 11, RestaurantID: 1, TableNumber: "T2", Capacity: 4},
		12: {ID: 12, RestaurantID: 1, TableNumber: "T3", Capacity: 6},
		99: {ID: 99, RestaurantID: 2, TableNumber: "X1", Capacity: 4},
	}}

	f := &fixture{
		resRepo: repo,
		cache:   &fakeCache{},
		pub:     &fakePublisher{},
	}
	f.uc = NewUseCase(repo, tables, fakeTxManager{}, f.cache, f.pub, syncDispatcher{}, nopLogger{})
	return f
}

func bookedRow(id, tableID int64, groupID *string) *domain.Reservation {
	return &domain.Reservation{
		ID:              id,
		RestaurantID:    1,
		TableID:         tableID,
		SlotID:          7,
		ReservationDate: updateDate,
		CustomerName:    "Анна",
		CustomerPhone:   "+79990001122",
		AdultCount:      2,
		Status:          domain.StatusBooked,
		GroupID:         groupID,
	}
}

func TestExecuteUpdatesInfoOnWholeGroup(t *testing.T) {
	group := ptr.Ptr("2f1c9a4e-0000-0000-0000-0000000000bb")
	f := newFixture(
		bookedRow(1, 10, group),
		bookedRow(2, 11, group),
	)

	resp, err := f.uc.Execute(context.Background(), &Request{
		RestaurantID:  1,
		ReservationID: 1,
		CustomerName:  ptr.Ptr("Мария"),
		AdultCount:    ptr.Ptr(4),
	})
	require.NoError(t, err)
	require.Len(t, resp.Reservations, 2)

	// Поля компании едины для всех строк группы
	for _, r := range resp.Reservations {
		assert.Equal(t, "Мария", r.CustomerName)
		assert.Equal(t, 4, r.AdultCount)
	}
	assert.Equal(t, []string{"2026-09-01"}, f.cache.invalidations)
	assert.Equal(t, []realtime.ChangeAction{realtime.ActionReservationUpdated}, f.pub.actions)
}

func TestExecuteNoFieldsToUpdate(t *testing.T) {
	f := newFixture(bookedRow(1, 10, nil))

	_, err := f.uc.Execute(context.Background(), &Request{
		RestaurantID:  1,
		ReservationID: 1,
	})
	require.ErrorIs(t, err, ErrNoFieldsToUpdate)
	assert.Empty(t, f.cache.invalidations)
}

func TestExecuteAddTablesAssignsRetroGroupID(t *testing.T) {
	f := newFixture(bookedRow(1, 10, nil))

	resp, err := f.uc.Execute(context.Background(), &Request{
		RestaurantID:  1,
		ReservationID: 1,
		AddTableIDs:   []int64{11, 12},
	})
	require.NoError(t, err)

	// Одиночная бронь ретроактивно получила group_id, новые строки делят его
	require.NotNil(t, resp.GroupID)
	require.Len(t, resp.Reservations, 3)
	for _, r := range resp.Reservations {
		require.NotNil(t, r.GroupID)
		assert.Equal(t, *resp.GroupID, *r.GroupID)
	}

	// Новые строки наследуют контакты и слот исходной брони
	require.Len(t, f.resRepo.created, 2)
	for _, r := range f.resRepo.created {
		assert.Equal(t, "Анна", r.CustomerName)
		assert.Equal(t, int64(7), r.SlotID)
		assert.Equal(t, domain.StatusBooked, r.Status)
	}
}

func TestExecuteAddTablesConflict(t *testing.T) {
	f := newFixture(
		bookedRow(1, 10, nil),
		bookedRow(2, 11, nil),
	)

	_, err := f.uc.Execute(context.Background(), &Request{
		RestaurantID:  1,
		ReservationID: 1,
		AddTableIDs:   []int64{11},
	})
	require.ErrorIs(t, err, ErrTableConflict)
	assert.Empty(t, f.resRepo.created)
	assert.Empty(t, f.cache.invalidations)
	assert.Empty(t, f.pub.actions)
}

func TestExecuteAddTablesConflictFromStorage(t *testing.T) {
	f := newFixture(bookedRow(1, 10, nil))
	f.resRepo.createErr = reservationRepo.ErrTableAlreadyBooked

	_, err := f.uc.Execute(context.Background(), &Request{
		RestaurantID:  1,
		ReservationID: 1,
		AddTableIDs:   []int64{11},
	})
	require.ErrorIs(t, err, ErrTableConflict)
}

func TestExecuteAddAlreadyHeldTable(t *testing.T) {
	group := ptr.Ptr("2f1c9a4e-0000-0000-0000-0000000000cc")
	f := newFixture(
		bookedRow(1, 10, group),
		bookedRow(2, 11, group),
	)

	_, err := f.uc.Execute(context.Background(), &Request{
		RestaurantID:  1,
		ReservationID: 1,
		AddTableIDs:   []int64{11},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecuteAddForeignTable(t *testing.T) {
	f := newFixture(bookedRow(1, 10, nil))

	_, err := f.uc.Execute(context.Background(), &Request{
		RestaurantID:  1,
		ReservationID: 1,
		AddTableIDs:   []int64{99},
	})
	require.ErrorIs(t, err, ErrTableNotFound)
}

func TestExecuteUpdateCancelledReservation(t *testing.T) {
	row := bookedRow(1, 10, nil)
	row.Status = domain.StatusCancelled
	f := newFixture(row)

	_, err := f.uc.Execute(context.Background(), &Request{
		RestaurantID:  1,
		ReservationID: 1,
		CustomerName:  ptr.Ptr("Мария"),
	})
	require.ErrorIs(t, err, ErrReservationCancelled)
}

func TestExecuteUpdateForeignRestaurant(t *testing.T) {
	f := newFixture(bookedRow(1, 10, nil))

	_, err := f.uc.Execute(context.Background(), &Request{
		RestaurantID:  2,
		ReservationID: 1,
		CustomerName:  ptr.Ptr("Мария"),
	})
	require.ErrorIs(t, err, ErrReservationNotFound)
}

func TestExecutePartySizeOutOfBounds(t *testing.T) {
	f := newFixture(bookedRow(1, 10, nil))

	_, err := f.uc.Execute(context.Background(), &Request{
		RestaurantID:  1,
		ReservationID: 1,
		AdultCount:    ptr.Ptr(domain.MaxPartySize + 1),
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}
