package list_slots

import (
	"context"

	"github.com/m04kA/RST-ReservationService/internal/domain"
)

type SlotsService interface {
	List(ctx context.Context, restaurantID int64, dateStr string) ([]*domain.Slot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
