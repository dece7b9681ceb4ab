package dashboard

import (
	"context"
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	ListDetailsForDay(ctx context.Context, restaurantID int64, date time.Time) ([]*domain.ReservationDetail, error)
}

// TableRepository интерфейс репозитория столов
type TableRepository interface {
	CountByRestaurant(ctx context.Context, restaurantID int64) (int, error)
}

// SummaryCache кеш дневных сводок (best-effort)
type SummaryCache interface {
	Get(ctx context.Context, restaurantID int64, date time.Time) (*domain.DashboardSummary, bool)
	Set(ctx context.Context, summary *domain.DashboardSummary)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
