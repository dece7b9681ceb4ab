package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/RST-ReservationService/pkg/ptr"
)

func TestSlotMatchesDate(t *testing.T) {
	// 2026-09-01 - вторник (weekday 2)
	tuesday := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	wednesday := tuesday.AddDate(0, 0, 1)

	recurring := &Slot{DayOfWeek: ptr.Ptr(2)}
	assert.True(t, recurring.IsRecurring())
	assert.True(t, recurring.MatchesDate(tuesday))
	assert.False(t, recurring.MatchesDate(wednesday))

	oneOff := &Slot{SpecificDate: &tuesday}
	assert.True(t, oneOff.IsOneOff())
	assert.True(t, oneOff.MatchesDate(tuesday))
	assert.False(t, oneOff.MatchesDate(wednesday))

	// Время суток в дате не влияет на сопоставление
	evening := time.Date(2026, 9, 1, 19, 30, 0, 0, time.UTC)
	assert.True(t, oneOff.MatchesDate(evening))

	broken := &Slot{}
	assert.False(t, broken.IsMatchable())
	assert.False(t, broken.MatchesDate(tuesday))
}

func TestComputeAutoDisabled(t *testing.T) {
	assert.False(t, ComputeAutoDisabled(0, 10))
	assert.False(t, ComputeAutoDisabled(9, 10))
	assert.True(t, ComputeAutoDisabled(10, 10))
	assert.True(t, ComputeAutoDisabled(11, 10))

	// Пустой ресторан не считается заполненным
	assert.False(t, ComputeAutoDisabled(0, 0))
}

func TestSlotOccupancyIsBookable(t *testing.T) {
	occ := &SlotOccupancy{}
	assert.True(t, occ.IsBookable())

	occ.IsSlotDisabled = true
	assert.False(t, occ.IsBookable())

	occ.IsSlotDisabled = false
	occ.IsAutoDisabled = true
	assert.False(t, occ.IsBookable())

	// Флаги зон не блокируют бронирование
	occ.IsAutoDisabled = false
	occ.IsIndoorDisabled = true
	occ.IsOutdoorDisabled = true
	assert.True(t, occ.IsBookable())
}

func TestSlotOccupancyFreeTables(t *testing.T) {
	occ := &SlotOccupancy{TotalTables: 10, OccupiedTables: 4}
	assert.Equal(t, 6, occ.FreeTables())

	occ.OccupiedTables = 12
	assert.Equal(t, 0, occ.FreeTables())
}

func TestReservationGuests(t *testing.T) {
	r := &Reservation{AdultCount: 4, KidsCount: 2}
	assert.Equal(t, 6, r.Guests())
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2026, 9, 1, 23, 59, 0, 0, time.UTC)
	c := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(a, c))
}
