package slots

import (
	"context"
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/internal/events"
	"github.com/m04kA/RST-ReservationService/internal/infra/realtime"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error)
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	ListAll(ctx context.Context, restaurantID int64) ([]*domain.Slot, error)
	ListForDate(ctx context.Context, restaurantID int64, date time.Time) ([]*domain.Slot, error)
	Delete(ctx context.Context, id int64) error
	Deactivate(ctx context.Context, id int64) error
	GetOverride(ctx context.Context, slotID int64, date time.Time) (*domain.SlotOverride, error)
	UpsertOverride(ctx context.Context, override *domain.SlotOverride) (*domain.SlotOverride, error)
}

// CacheInvalidator синхронная инвалидация кеша дневной сводки
type CacheInvalidator interface {
	Invalidate(ctx context.Context, restaurantID int64, date time.Time)
}

// ChangePublisher публикация событий изменения доступности
type ChangePublisher interface {
	Publish(ctx context.Context, restaurantID int64, date time.Time, slotID int64, action realtime.ChangeAction)
}

// TaskDispatcher очередь фоновых задач
type TaskDispatcher interface {
	Enqueue(task events.Task)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
