package domain

import "time"

// Table represents a physical table in a restaurant
type Table struct {
	ID           int64
	RestaurantID int64
	TableNumber  string // номер стола, может быть нечисловым ("A1", "Terrace-3")
	Capacity     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
