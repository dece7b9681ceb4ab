package deactivate_slot

import "context"

type SlotsService interface {
	Deactivate(ctx context.Context, restaurantID, slotID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
