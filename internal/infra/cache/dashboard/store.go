package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/RST-ReservationService/internal/domain"
)

// keyVersion версия формата кешируемой сводки
// Единственная точка версионирования: поднимается при любом изменении формы
// cachedSummary, после деплоя старые записи перестают читаться и доживают свой TTL
const keyVersion = "v5"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Store кеш дневных сводок дашборда поверх Redis
// Строго best-effort: любая ошибка Redis логируется и глотается, источником
// истины остаются строки бронирований в Postgres
type Store struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger Logger
}

// NewStore создает новый экземпляр кеша сводок
func NewStore(rdb *redis.Client, ttl time.Duration, logger Logger) *Store {
	return &Store{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

// Key возвращает версионированный ключ кеша для (ресторан, дата)
func Key(restaurantID int64, date time.Time) string {
	return fmt.Sprintf("dashboard:%s:%d:%s", keyVersion, restaurantID, date.Format(domain.DateFormat))
}

// Get читает сводку из кеша
// Возвращает (nil, false) при промахе или любой ошибке Redis
func (s *Store) Get(ctx context.Context, restaurantID int64, date time.Time) (*domain.DashboardSummary, bool) {
	key := Key(restaurantID, date)

	payload, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("dashboard cache: Get failed for key=%s: %v", key, err)
		}
		return nil, false
	}

	var cached cachedSummary
	if err := json.Unmarshal(payload, &cached); err != nil {
		s.logger.Warn("dashboard cache: failed to decode cached summary for key=%s: %v", key, err)
		return nil, false
	}

	summary, err := fromCached(&cached)
	if err != nil {
		s.logger.Warn("dashboard cache: failed to restore cached summary for key=%s: %v", key, err)
		return nil, false
	}

	return summary, true
}

// Set сохраняет сводку с коротким TTL
// Ошибки записи не влияют на вызывающий код
func (s *Store) Set(ctx context.Context, summary *domain.DashboardSummary) {
	key := Key(summary.RestaurantID, summary.Date)

	payload, err := json.Marshal(toCached(summary))
	if err != nil {
		s.logger.Warn("dashboard cache: failed to encode summary for key=%s: %v", key, err)
		return
	}

	if err := s.rdb.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		s.logger.Warn("dashboard cache: Set failed for key=%s: %v", key, err)
	}
}

// Invalidate удаляет запись текущей версии для (ресторан, дата)
// Вызывается синхронно каждой мутирующей операцией до возврата ответа клиенту.
// Ошибка удаления логируется и глотается: короткий TTL - страховочная сетка
func (s *Store) Invalidate(ctx context.Context, restaurantID int64, date time.Time) {
	key := Key(restaurantID, date)

	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.logger.Error("dashboard cache: Invalidate failed for key=%s: %v", key, err)
	}
}
