package domain

import "time"

// TableState occupancy state of a single table within a slot on a date
type TableState struct {
	Table       Table
	IsOccupied  bool
	Reservation *Reservation // активное бронирование, занимающее стол, nil если стол свободен
}

// SlotOccupancy computed occupancy of a slot on a given date
type SlotOccupancy struct {
	Slot           Slot
	Date           time.Time
	TotalTables    int
	OccupiedTables int

	// Ручные флаги из SlotOverride (все false, если записи нет)
	IsSlotDisabled    bool
	IsIndoorDisabled  bool
	IsOutdoorDisabled bool

	// Слот сам скрывается, когда заняты все столы ресторана
	IsAutoDisabled bool

	Tables []TableState
}

// IsBookable returns true if the slot accepts new reservations on this date
func (o *SlotOccupancy) IsBookable() bool {
	return !o.IsSlotDisabled && !o.IsAutoDisabled
}

// FreeTables returns the number of unoccupied tables
func (o *SlotOccupancy) FreeTables() int {
	free := o.TotalTables - o.OccupiedTables
	if free < 0 {
		return 0
	}
	return free
}

// ComputeAutoDisabled возвращает true, когда заняты все столы ресторана
// Пустой ресторан (0 столов) не считается заполненным
func ComputeAutoDisabled(occupiedTables, totalTables int) bool {
	return totalTables > 0 && occupiedTables >= totalTables
}
