package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/RST-ReservationService/internal/domain"
)

// ChangeAction тип изменения, о котором уведомляются подключённые дашборды
type ChangeAction string

const (
	ActionReservationCreated   ChangeAction = "reservation_created"
	ActionReservationUpdated   ChangeAction = "reservation_updated"
	ActionReservationMoved     ChangeAction = "reservation_moved"
	ActionReservationCancelled ChangeAction = "reservation_cancelled"
	ActionAvailabilityChanged  ChangeAction = "availability_changed"
)

// ChangeEvent событие изменения для канала ресторана
// Клиент по нему решает, что перезапросить: слоты, сетку столов или и то и другое
type ChangeEvent struct {
	RestaurantID int64        `json:"restaurantId"`
	Date         string       `json:"date"` // YYYY-MM-DD
	SlotID       int64        `json:"slotId,omitempty"`
	Action       ChangeAction `json:"action"`
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Publisher fire-and-forget публикация событий изменения в Redis pub/sub
// Доставка не гарантируется и не требуется: пропустивший событие клиент
// всегда может перечитать занятость напрямую
type Publisher struct {
	rdb    *redis.Client
	logger Logger
}

// NewPublisher создает новый экземпляр издателя событий
func NewPublisher(rdb *redis.Client, logger Logger) *Publisher {
	return &Publisher{rdb: rdb, logger: logger}
}

// Channel возвращает имя канала ресторана
func Channel(restaurantID int64) string {
	return fmt.Sprintf("restaurant_%d", restaurantID)
}

// Publish отправляет событие в канал ресторана
// Ошибка публикации логируется и глотается - мутация к этому моменту уже закоммичена
func (p *Publisher) Publish(ctx context.Context, restaurantID int64, date time.Time, slotID int64, action ChangeAction) {
	event := ChangeEvent{
		RestaurantID: restaurantID,
		Date:         date.Format(domain.DateFormat),
		SlotID:       slotID,
		Action:       action,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("realtime: failed to encode event for restaurant=%d: %v", restaurantID, err)
		return
	}

	if err := p.rdb.Publish(ctx, Channel(restaurantID), payload).Err(); err != nil {
		p.logger.Warn("realtime: publish failed for channel=%s: %v", Channel(restaurantID), err)
	}
}
