package get_table_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	slotRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/slot"
	"github.com/m04kA/RST-ReservationService/pkg/types"
)

type fakeReservationRepo struct {
	reservations []*domain.Reservation
}

func (f *fakeReservationRepo) GetWithFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	matched := make([]*domain.Reservation, 0, len(f.reservations))
	for _, r := range f.reservations {
		if filter.SlotID != nil && r.SlotID != *filter.SlotID {
			continue
		}
		matched = append(matched, r)
	}
	return matched, nil
}

type fakeSlotRepo struct {
	slots     []*domain.Slot
	overrides map[int64]*domain.SlotOverride
}

func (f *fakeSlotRepo) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	for _, s := range f.slots {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, slotRepo.ErrSlotNotFound
}

func (f *fakeSlotRepo) ListForDate(ctx context.Context, restaurantID int64, date time.Time) ([]*domain.Slot, error) {
	return f.slots, nil
}

func (f *fakeSlotRepo) GetOverride(ctx context.Context, slotID int64, date time.Time) (*domain.SlotOverride, error) {
	if ov, ok := f.overrides[slotID]; ok {
		return ov, nil
	}
	return nil, slotRepo.ErrOverrideNotFound
}

type fakeTableRepo struct {
	tables []*domain.Table
}

func (f *fakeTableRepo) ListByRestaurant(ctx context.Context, restaurantID int64) ([]*domain.Table, error) {
	return f.tables, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

var availabilityDate = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func newAvailabilityFixture(reservations []*domain.Reservation, overrides map[int64]*domain.SlotOverride) *UseCase {
	date := availabilityDate
	slots := &fakeSlotRepo{
		slots: []*domain.Slot{{
			ID:           7,
			RestaurantID: 1,
			StartTime:    types.TimeString("18:00"),
			EndTime:      types.TimeString("23:00"),
			SpecificDate: &date,
			IsActive:     true,
		}},
		overrides: overrides,
	}
	tables := &fakeTableRepo{tables: []*domain.Table{
		{ID: 10, RestaurantID: 1, TableNumber: "T1", Capacity: 2},
		{ID: 11, RestaurantID: 1, TableNumber: "T2", Capacity: 4},
		{ID: 12, RestaurantID: 1, TableNumber: "T3", Capacity: 6},
	}}
	return NewUseCase(&fakeReservationRepo{reservations: reservations}, slots, tables, nopLogger{})
}

func TestExecuteSlotOccupancyCounters(t *testing.T) {
	uc := newAvailabilityFixture([]*domain.Reservation{
		{ID: 1, RestaurantID: 1, TableID: 11, SlotID: 7, Status: domain.StatusBooked},
	}, nil)

	slotID := int64(7)
	resp, err := uc.Execute(context.Background(), &Request{
		RestaurantID: 1,
		Date:         availabilityDate,
		SlotID:       &slotID,
	})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)

	occ := resp.Slots[0]
	assert.Equal(t, 3, occ.TotalTables)
	assert.Equal(t, 1, occ.OccupiedTables)
	assert.Equal(t, 2, occ.FreeTables())
	assert.True(t, occ.IsBookable())
	assert.False(t, occ.IsAutoDisabled)

	// Конкретный слот отдаёт полную карту столов
	require.Len(t, occ.Tables, 3)
	assert.True(t, occ.Tables[1].IsOccupied)
}

func TestExecuteFullSlotAutoDisabled(t *testing.T) {
	uc := newAvailabilityFixture([]*domain.Reservation{
		{ID: 1, RestaurantID: 1, TableID: 10, SlotID: 7, Status: domain.StatusBooked},
		{ID: 2, RestaurantID: 1, TableID: 11, SlotID: 7, Status: domain.StatusBooked},
		{ID: 3, RestaurantID: 1, TableID: 12, SlotID: 7, Status: domain.StatusBooked},
	}, nil)

	slotID := int64(7)
	resp, err := uc.Execute(context.Background(), &Request{
		RestaurantID: 1,
		Date:         availabilityDate,
		SlotID:       &slotID,
	})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)

	occ := resp.Slots[0]
	assert.True(t, occ.IsAutoDisabled)
	assert.False(t, occ.IsBookable())
	assert.Equal(t, 0, occ.FreeTables())
}

func TestExecuteManuallyDisabledSlot(t *testing.T) {
	uc := newAvailabilityFixture(nil, map[int64]*domain.SlotOverride{
		7: {SlotID: 7, Date: availabilityDate, IsSlotDisabled: true},
	})

	resp, err := uc.Execute(context.Background(), &Request{
		RestaurantID: 1,
		Date:         availabilityDate,
	})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)

	occ := resp.Slots[0]
	assert.True(t, occ.IsSlotDisabled)
	assert.False(t, occ.IsBookable())
	assert.Equal(t, 3, occ.FreeTables())

	// Без slotId карта столов не собирается, только счётчики
	assert.Empty(t, occ.Tables)
}
