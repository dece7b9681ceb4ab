package domain

import "github.com/m04kA/RST-ReservationService/pkg/types"

// ReservationDetail бронирование вместе с данными стола и слота
// Используется для дневной сводки и staff-представлений, где номер стола
// и границы слота нужны без дополнительных запросов
type ReservationDetail struct {
	Reservation

	TableNumber   string
	TableCapacity int
	SlotStartTime types.TimeString
	SlotEndTime   types.TimeString
}
