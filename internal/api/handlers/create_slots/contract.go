package create_slots

import (
	"context"

	"github.com/m04kA/RST-ReservationService/internal/domain"
)

type SlotsService interface {
	CreateBatch(ctx context.Context, restaurantID int64, startTime, endTime string, days []int) ([]*domain.Slot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
