package get_table_availability

import (
	"context"
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetWithFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	ListForDate(ctx context.Context, restaurantID int64, date time.Time) ([]*domain.Slot, error)
	GetOverride(ctx context.Context, slotID int64, date time.Time) (*domain.SlotOverride, error)
}

// TableRepository интерфейс репозитория столов
type TableRepository interface {
	ListByRestaurant(ctx context.Context, restaurantID int64) ([]*domain.Table, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
