package move_reservation

import (
	"context"
	"fmt"
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

// fakeReservationRepo воспроизводит поведение ограничения занятости столов:
// вне отложенного режима каждое обновление проверяется сразу, в отложенном -
// только при EnforceLiveTableCheck по итоговому состоянию
type fakeReservationRepo struct {
	byID map[int64]*domain.Reservation

	deferred     bool
	deferCalls   int
	enforceCalls int
	enforceErr   error
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

func (f *fakeReservationRepo) UpdateAssignment(ctx context.Context, id int64, tableID int64, date time.Time, slotID int64) error {
	if !f.deferred {
		for _, other := range f.byID {
			if other.ID == id || other.Status != domain.StatusBooked {
				continue
			}
			if other.TableID == tableID && other.SlotID == slotID && domain.SameDay(other.ReservationDate, date) {
				return reservationRepo.ErrTableAlreadyBooked
			}
		}
	}

	res, ok := f.byID[id]
	if !ok {
		return reservationRepo.ErrReservationNotFound
	}
	res.TableID = tableID
	res.ReservationDate = date
	res.SlotID = slotID
	return nil
}

func (f *fakeReservationRepo) DeferLiveTableCheck(ctx context.Context) error {
	f.deferred = true
	f.deferCalls++
	return nil
}

func (f *fakeReservationRepo) EnforceLiveTableCheck(ctx context.Context) error {
	f.deferred = false
	f.enforceCalls++
	if f.enforceErr != nil {
		return f.enforceErr
	}

	seen := make(map[string]struct{}, len(f.byID))
	for _, res := range f.byID {
		if res.Status != domain.StatusBooked {
			continue
		}
		key := fmt.Sprintf("%d|%d|%s", res.TableID, res.SlotID, res.ReservationDate.Format(domain.DateFormat))
		if _, dup := seen[key]; dup {
			return reservationRepo.ErrTableAlreadyBooked
		}
		seen[key] = struct{}{}
	}
	return nil
}

type fakeSlotRepo struct {
	byID map[int64]*domain.Slot
}

func (f *fakeSlotRepo) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	slot, ok := f.byID[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return slot, nil
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

type fakeNotifier struct {
	phones []string
	params [][]string
}

func (f *fakeNotifier) SendGuestConfirmation(ctx context.Context, phone, templateID string, params []string) error {
	f.phones = append(f.phones, phone)
	f.params = append(f.params, params)
	return nil
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

var (
	moveDate   = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	moveDate2  = time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	groupAlpha = ptr.Ptr("2f1c9a4e-0000-0000-0000-0000000000aa")
)

type fixture struct {
	uc       *UseCase
	resRepo  *fakeReservationRepo
	cache    *fakeCache
	pub      *fakePublisher
	notifier *fakeNotifier
}

func newFixture(rows ...*domain.Reservation) *fixture {
	date := moveDate
	date2 := moveDate2
	slots := &fakeSlotRepo{byID: map[int64]*domain.Slot{
		7: {ID: 7, RestaurantID: 1, StartTime: types.TimeString("18:00"), EndTime: types.TimeString("23:00"), SpecificDate: &date, IsActive: true},
		8: {ID: 8, RestaurantID: 1, StartTime: types.TimeString("12:00"), EndTime: types.TimeString("17:00"), SpecificDate: &date2, IsActive: true},
	}}
	tables := &fakeTableRepo{byID: map[int64]*domain.Table{
		10: {ID: 10, RestaurantID: 1, TableNumber: "T1", Capacity: 2},
		11: {ID: 11, RestaurantID: 1, TableNumber: "T2", Capacity: 4},
		12: {ID: 12, RestaurantID: 1, TableNumber: "T3", Capacity: 6},
		20: {ID: 20, RestaurantID: 1, TableNumber: "T4", Capacity: 4},
	}}

	repo := &fakeReservationRepo{byID: make(map[int64]*domain.Reservation)}
	for _, r := range rows {
		repo.byID[r.ID] = r
	}

	f := &fixture{
		resRepo:  repo,
		cache:    &fakeCache{},
		pub:      &fakePublisher{},
		notifier: &fakeNotifier{},
	}
	f.uc = NewUseCase(
		repo, slots, tables,
		fakeTxManager{}, f.cache, f.pub, f.notifier, syncDispatcher{}, nopLogger{},
	)
	return f
}

func bookedRow(id, tableID int64, groupID *string) *domain.Reservation {
	return &domain.Reservation{
		ID:              id,
		RestaurantID:    1,
		TableID:         tableID,
		SlotID:          7,
		ReservationDate: moveDate,
		CustomerName:    "Анна",
		CustomerPhone:   "+79990001122",
		AdultCount:      2,
		GroupID:         groupID,
		Status:          domain.StatusBooked,
	}
}

func TestExecuteMovesGroupToOverlappingTables(t *testing.T) {
	// Группа держит столы 10 и 11, переезжает на 11 и 12: стол 11 остаётся
	// занят группой, и построчное обновление проходит только потому,
	// что проверка занятости откладывается до конца транзакции
	f := newFixture(
		bookedRow(1, 10, groupAlpha),
		bookedRow(2, 11, groupAlpha),
	)

	resp, err := f.uc.Execute(context.Background(), &Request{
		RestaurantID:  1,
		ReservationID: 1,
		NewTableIDs:   []int64{11, 12},
	})
	require.NoError(t, err)
	require.Len(t, resp.Reservations, 2)

	assert.Equal(t, 1, f.resRepo.deferCalls)
	assert.Equal(t, 1, f.resRepo.enforceCalls)

	moved := map[int64]struct{}{}
	for _, r := range resp.Reservations {
		moved[r.TableID] = struct{}{}
	}
	assert.Contains(t, moved, int64(11))
	assert.Contains(t, moved, int64(12))
}

func TestExecuteMoveRejectsForeignTableConflict(t *testing.T) {
	f := newFixture(
		bookedRow(1, 10, nil),
		bookedRow(2, 20, nil),
	)

	_, err := f.uc.Execute(context.Background(), &Request{
		RestaurantID:  1,
		ReservationID: 1,
		NewTableIDs:   []int64{20},
	})
	require.ErrorIs(t, err, ErrTableConflict)

	// Ничего не сдвинулось, побочных эффектов нет
	assert.Equal(t, int64(10), f.resRepo.byID[1].TableID)
	assert.Empty(t, f.cache.invalidations)
	assert.Empty(t, f.pub.actions)
	assert.Empty(t, f.notifier.params)
}

func TestExecuteMoveConflictAtEnforceTime(t *testing.T) {
	f := newFixture(bookedRow(1, 10, nil))
	f.resRepo.enforceErr = reservationRepo.ErrTableAlreadyBooked

	_, err := f.uc.Execute(context.Background(), &Request{
		RestaurantID:  1,
		ReservationID: 1,
		NewTableIDs:   []int64{11},
	})
	require.ErrorIs(t, err, ErrTableConflict)
	assert.Empty(t, f.cache.invalidations)
	assert.Empty(t, f.notifier.params)
}

func TestExecuteMoveToNewDateAndSlot(t *testing.T) {
	f := newFixture(bookedRow(1, 10, nil))

	newDate := moveDate2
	newSlot := int64(8)
	resp, err := f.uc.Execute(context.Background(), &Request{
		RestaurantID:  1,
		ReservationID: 1,
		NewTableIDs:   []int64{12},
		NewDate:       &newDate,
		NewSlotID:     &newSlot,
	})
	require.NoError(t, err)
	require.Len(t, resp.Reservations, 1)
	assert.Equal(t, int64(12), resp.Reservations[0].TableID)
	assert.Equal(t, int64(8), resp.Reservations[0].SlotID)

	// Кеш сброшен и для исходного, и для целевого дня
	assert.Equal(t, []string{"2026-09-01", "2026-09-02"}, f.cache.invalidations)
	assert.Equal(t, []realtime.ChangeAction{realtime.ActionReservationMoved}, f.pub.actions)

	// Гость получает целевые дату и время начала слота
	require.Len(t, f.notifier.params, 1)
	assert.Equal(t, []string{"2026-09-02", "12:00"}, f.notifier.params[0])
	assert.Equal(t, []string{"+79990001122"}, f.notifier.phones)
}

func TestExecuteMoveNotifiesWithCustomStartTime(t *testing.T) {
	row := bookedRow(1, 10, nil)
	custom := types.TimeString("19:30")
	row.CustomStartTime = &custom
	f := newFixture(row)

	_, err := f.uc.Execute(context.Background(), &Request{
		RestaurantID:  1,
		ReservationID: 1,
		NewTableIDs:   []int64{11},
	})
	require.NoError(t, err)

	require.Len(t, f.notifier.params, 1)
	assert.Equal(t, []string{"2026-09-01", "19:30"}, f.notifier.params[0])
}

func TestExecuteMoveTableCountMismatch(t *testing.T) {
	f := newFixture(
		bookedRow(1, 10, groupAlpha),
		bookedRow(2, 11, groupAlpha),
	)

	_, err := f.uc.Execute(context.Background(), &Request{
		RestaurantID:  1,
		ReservationID: 1,
		NewTableIDs:   []int64{12},
	})
	require.ErrorIs(t, err, ErrTableCountMismatch)
}

func TestExecuteMoveCancelledReservation(t *testing.T) {
	row := bookedRow(1, 10, nil)
	row.Status = domain.StatusCancelled
	f := newFixture(row)

	_, err := f.uc.Execute(context.Background(), &Request{
		RestaurantID:  1,
		ReservationID: 1,
		NewTableIDs:   []int64{11},
	})
	require.ErrorIs(t, err, ErrReservationCancelled)
}

func TestExecuteMoveForeignRestaurant(t *testing.T) {
	f := newFixture(bookedRow(1, 10, nil))

	_, err := f.uc.Execute(context.Background(), &Request{
		RestaurantID:  2,
		ReservationID: 1,
		NewTableIDs:   []int64{11},
	})
	require.ErrorIs(t, err, ErrReservationNotFound)
}

func TestExecuteMoveToInactiveSlotDate(t *testing.T) {
	f := newFixture(bookedRow(1, 10, nil))

	// Слот 8 действует только на 2026-09-02
	newSlot := int64(8)
	_, err := f.uc.Execute(context.Background(), &Request{
		RestaurantID:  1,
		ReservationID: 1,
		NewTableIDs:   []int64{11},
		NewSlotID:     &newSlot,
	})
	require.ErrorIs(t, err, ErrSlotNotAvailable)
}
