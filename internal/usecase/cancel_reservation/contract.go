package cancel_reservation

import (
	"context"
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/internal/events"
	"github.com/m04kA/RST-ReservationService/internal/infra/realtime"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByGroupID(ctx context.Context, groupID string) ([]*domain.Reservation, error)
	CancelByIDs(ctx context.Context, ids []int64, reason *string) error
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// CacheInvalidator сброс кеша дашборда
type CacheInvalidator interface {
	Invalidate(ctx context.Context, restaurantID int64, date time.Time)
}

// ChangePublisher публикация событий изменений
type ChangePublisher interface {
	Publish(ctx context.Context, restaurantID int64, date time.Time, slotID int64, action realtime.ChangeAction)
}

// TaskDispatcher постановка фоновых задач
type TaskDispatcher interface {
	Enqueue(task events.Task)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
