package upsert_slot_override

import (
	"context"

	"github.com/m04kA/RST-ReservationService/internal/domain"
)

type SlotsService interface {
	UpsertOverride(ctx context.Context, restaurantID int64, override *domain.SlotOverride) (*domain.SlotOverride, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
