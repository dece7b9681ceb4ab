package get_dashboard_summary

import (
	"context"
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
)

type DashboardService interface {
	GetOrCompute(ctx context.Context, restaurantID int64, date time.Time) (*domain.DashboardSummary, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
