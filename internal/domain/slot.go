package domain

import (
	"time"

	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// Slot represents a named time window in which reservations can be made
// Слот либо повторяющийся (задан DayOfWeek), либо разовый (задана SpecificDate).
// Ровно одно из двух полей должно быть заполнено, иначе слот не сопоставим с датой
type Slot struct {
	ID           int64
	RestaurantID int64
	StartTime    types.TimeString
	EndTime      types.TimeString
	DayOfWeek    *int       // 0 (воскресенье) - 6 (суббота), nil для разовых слотов
	SpecificDate *time.Time // конкретная дата для разовых слотов, nil для повторяющихся
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsRecurring returns true if the slot repeats weekly
func (s *Slot) IsRecurring() bool {
	return s.DayOfWeek != nil && s.SpecificDate == nil
}

// IsOneOff returns true if the slot is bound to a single calendar date
func (s *Slot) IsOneOff() bool {
	return s.SpecificDate != nil && s.DayOfWeek == nil
}

// IsMatchable returns true if exactly one of {dayOfWeek, specificDate} is set
func (s *Slot) IsMatchable() bool {
	return s.IsRecurring() || s.IsOneOff()
}

// MatchesDate returns true if the slot is visible on the given calendar date
func (s *Slot) MatchesDate(date time.Time) bool {
	if s.IsRecurring() {
		return *s.DayOfWeek == int(date.Weekday())
	}
	if s.IsOneOff() {
		return SameDay(*s.SpecificDate, date)
	}
	return false
}

// SlotOverride per-date manual exception layered on a slot's defaults
// Отсутствие записи эквивалентно трём false
type SlotOverride struct {
	ID     int64
	SlotID int64
	Date   time.Time

	IsSlotDisabled    bool // слот целиком скрыт от бронирования на эту дату
	IsIndoorDisabled  bool // indoor-зона закрыта (флаг для UI, слот остаётся бронируемым)
	IsOutdoorDisabled bool // outdoor-зона закрыта (флаг для UI)

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasAnyRestriction returns true if at least one override flag is set
func (o *SlotOverride) HasAnyRestriction() bool {
	return o.IsSlotDisabled || o.IsIndoorDisabled || o.IsOutdoorDisabled
}
