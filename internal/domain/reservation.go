package domain

import (
	"time"

	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// ReservationStatus represents the status of a table reservation
type ReservationStatus string

const (
	StatusBooked    ReservationStatus = "BOOKED"
	StatusCancelled ReservationStatus = "CANCELLED"
)

// Reservation represents a single table held by a party for a slot on a date
// Несколько строк с одинаковым GroupID - одна компания гостей за несколькими
// объединёнными столами (одна дата, один слот, разные столы)
type Reservation struct {
	ID              int64
	RestaurantID    int64
	TableID         int64
	SlotID          int64
	ReservationDate time.Time // сравнивается по календарному дню, время суток смысла не несёт

	CustomerName  string
	CustomerPhone string
	AdultCount    int
	KidsCount     int

	FoodPreference *string
	SpecialRequest *string

	Status  ReservationStatus
	GroupID *string // UUID группы объединённых столов, nil для одиночного стола

	// Кастомное время начала внутри слота (шаг 15 минут, фиксированная
	// длительность). Влияет только на отображение и текст уведомления,
	// конфликт проверяется по (table, slot, date)
	CustomStartTime *types.TimeString

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the reservation still occupies its table
func (r *Reservation) IsActive() bool {
	return r.Status == StatusBooked
}

// IsCancelled returns true if the reservation has been cancelled
func (r *Reservation) IsCancelled() bool {
	return r.Status == StatusCancelled
}

// IsGrouped returns true if the reservation is part of a multi-table group
func (r *Reservation) IsGrouped() bool {
	return r.GroupID != nil && *r.GroupID != ""
}

// Guests returns the total party size
func (r *Reservation) Guests() int {
	return r.AdultCount + r.KidsCount
}

// SameDay returns true if both dates fall on the same calendar day
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DateOnly обнуляет время суток, оставляя только календарную дату
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ReservationsFilter фильтр для выборки бронирований ресторана
type ReservationsFilter struct {
	RestaurantID     int64              // Обязательный параметр
	Date             *time.Time         // Фильтр по календарной дате (опционально)
	SlotID           *int64             // Фильтр по слоту (опционально)
	TableID          *int64             // Фильтр по столу (опционально)
	GroupID          *string            // Фильтр по группе столов (опционально)
	Status           *ReservationStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool               // Включать ли отменённые бронирования
}
