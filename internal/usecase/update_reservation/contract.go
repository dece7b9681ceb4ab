package update_reservation

import (
	"context"
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/internal/events"
	"github.com/m04kA/RST-ReservationService/internal/infra/realtime"
	reservationRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/reservation"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByGroupID(ctx context.Context, groupID string) ([]*domain.Reservation, error)
	GetWithFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
	UpdateInfo(ctx context.Context, ids []int64, upd reservationRepo.InfoUpdate) error
	SetGroupID(ctx context.Context, ids []int64, groupID string) error
	CreateBatch(ctx context.Context, reservations []*domain.Reservation) error
}

// TableRepository интерфейс репозитория столов
type TableRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Table, error)
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
