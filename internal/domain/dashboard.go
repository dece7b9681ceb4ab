package domain

import (
	"time"

	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// ReservationRow одна строка дневной сводки дашборда
// Группа объединённых столов схлопывается в одну строку: номера столов
// перечисляются вместе, гости считаются один раз на группу
type ReservationRow struct {
	ReservationID int64 // ID первой строки группы (или единственной строки)
	GroupID       *string
	TableNumbers  []string
	SlotID        int64
	SlotStartTime types.TimeString
	SlotEndTime   types.TimeString

	CustomerName  string
	CustomerPhone string
	AdultCount    int
	KidsCount     int

	FoodPreference  *string
	SpecialRequest  *string
	CustomStartTime *types.TimeString

	CreatedAt time.Time
}

// Guests returns the total party size of the row
func (r *ReservationRow) Guests() int {
	return r.AdultCount + r.KidsCount
}

// DashboardSummary дневная сводка по ресторану
// Производная величина: считается из бронирований, кешируется с коротким TTL,
// источником истины не является
type DashboardSummary struct {
	RestaurantID  int64
	Date          time.Time
	TotalTables   int
	BookingsCount int // одна бронь на группу или одиночное бронирование
	GuestsCount   int
	Reservations  []ReservationRow
}
