package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/internal/events"
	"github.com/m04kA/RST-ReservationService/internal/infra/realtime"
	slotRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/slot"
)

// DateAll специальное значение фильтра даты: вернуть все активные слоты
const DateAll = "all"

// Service каталог слотов: определения повторяющихся/разовых окон
// и ручные переопределения доступности на конкретные даты
type Service struct {
	slotRepo   SlotRepository
	cache      CacheInvalidator
	publisher  ChangePublisher
	dispatcher TaskDispatcher
	logger     Logger
}

// NewService создает новый экземпляр каталога слотов
func NewService(
	slotRepo SlotRepository,
	cache CacheInvalidator,
	publisher ChangePublisher,
	dispatcher TaskDispatcher,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:   slotRepo,
		cache:      cache,
		publisher:  publisher,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// List возвращает слоты ресторана
// dateStr - либо DateAll (все активные слоты, порядок по дню недели и времени),
// либо дата YYYY-MM-DD (слоты, видимые на эту дату, порядок по времени начала)
func (s *Service) List(ctx context.Context, restaurantID int64, dateStr string) ([]*domain.Slot, error) {
	if dateStr == "" {
		s.logger.Warn("List: missing date for restaurant=%d", restaurantID)
		return nil, fmt.Errorf("%w: date or %q is required", ErrInvalidInput, DateAll)
	}

	if dateStr == DateAll {
		slots, err := s.slotRepo.ListAll(ctx, restaurantID)
		if err != nil {
			s.logger.Error("List: failed to list all slots for restaurant=%d: %v", restaurantID, err)
			return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
		}
		s.logger.Info("List: fetched %d slots for restaurant=%d (all)", len(slots), restaurantID)
		return slots, nil
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		s.logger.Warn("List: invalid date %q for restaurant=%d", dateStr, restaurantID)
		return nil, fmt.Errorf("%w: invalid date format, expected YYYY-MM-DD", ErrInvalidInput)
	}

	slots, err := s.slotRepo.ListForDate(ctx, restaurantID, date)
	if err != nil {
		s.logger.Error("List: failed to list slots for restaurant=%d date=%s: %v", restaurantID, dateStr, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d slots for restaurant=%d date=%s", len(slots), restaurantID, dateStr)
	return slots, nil
}

// CreateBatch создает по одному повторяющемуся слоту на каждый день из days
// Дни дедуплицируются. Создание по дням независимо: при ошибке на середине
// уже созданные слоты остаются, возвращаются вместе с ErrPartialCreate
func (s *Service) CreateBatch(ctx context.Context, restaurantID int64, startTime, endTime string, days []int) ([]*domain.Slot, error) {
	start, end, uniqueDays, err := validateBatch(startTime, endTime, days)
	if err != nil {
		s.logger.Warn("CreateBatch: validation failed for restaurant=%d: %v", restaurantID, err)
		return nil, err
	}

	created := make([]*domain.Slot, 0, len(uniqueDays))

	for _, day := range uniqueDays {
		day := day
		slot := &domain.Slot{
			RestaurantID: restaurantID,
			StartTime:    start,
			EndTime:      end,
			DayOfWeek:    &day,
			IsActive:     true,
		}

		result, err := s.slotRepo.Create(ctx, slot)
		if err != nil {
			s.logger.Error("CreateBatch: failed to create slot for restaurant=%d day=%d: %v", restaurantID, day, err)
			if len(created) > 0 {
				return created, fmt.Errorf("%w: %d of %d slots created: %v", ErrPartialCreate, len(created), len(uniqueDays), err)
			}
			return nil, fmt.Errorf("%w: CreateBatch - repository error: %v", ErrInternal, err)
		}
		created = append(created, result)
	}

	s.logger.Info("CreateBatch: created %d slots for restaurant=%d (%s-%s)", len(created), restaurantID, startTime, endTime)
	return created, nil
}

// Delete удаляет слот с проверкой принадлежности ресторану
// Существующие бронирования на слот не проверяются: слот - шаблон,
// бронирования хранят собственные дату и время
func (s *Service) Delete(ctx context.Context, restaurantID, slotID int64) error {
	if _, err := s.getOwned(ctx, restaurantID, slotID); err != nil {
		return err
	}

	if err := s.slotRepo.Delete(ctx, slotID); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return ErrSlotNotFound
		}
		s.logger.Error("Delete: failed to delete slot=%d for restaurant=%d: %v", slotID, restaurantID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: slot=%d deleted for restaurant=%d", slotID, restaurantID)
	return nil
}

// Deactivate выключает слот с проверкой принадлежности ресторану
// Мягкая альтернатива удалению: слот пропадает из выдачи и доступности,
// но запись остаётся, и бронирования продолжают ссылаться на живой слот
func (s *Service) Deactivate(ctx context.Context, restaurantID, slotID int64) error {
	if _, err := s.getOwned(ctx, restaurantID, slotID); err != nil {
		return err
	}

	if err := s.slotRepo.Deactivate(ctx, slotID); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return ErrSlotNotFound
		}
		s.logger.Error("Deactivate: failed to deactivate slot=%d for restaurant=%d: %v", slotID, restaurantID, err)
		return fmt.Errorf("%w: Deactivate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Deactivate: slot=%d deactivated for restaurant=%d", slotID, restaurantID)
	return nil
}

// GetOverride возвращает переопределение доступности слота на дату
// Отсутствие записи - это валидное состояние: все три флага false
func (s *Service) GetOverride(ctx context.Context, restaurantID, slotID int64, date time.Time) (*domain.SlotOverride, error) {
	if _, err := s.getOwned(ctx, restaurantID, slotID); err != nil {
		return nil, err
	}

	override, err := s.slotRepo.GetOverride(ctx, slotID, date)
	if err != nil {
		if errors.Is(err, slotRepo.ErrOverrideNotFound) {
			return &domain.SlotOverride{SlotID: slotID, Date: domain.DateOnly(date)}, nil
		}
		s.logger.Error("GetOverride: failed for slot=%d date=%s: %v", slotID, date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: GetOverride - repository error: %v", ErrInternal, err)
	}

	return override, nil
}

// UpsertOverride создает или обновляет переопределение доступности по ключу (slot, date)
// Синхронно инвалидирует кеш сводки и публикует событие изменения доступности
func (s *Service) UpsertOverride(ctx context.Context, restaurantID int64, override *domain.SlotOverride) (*domain.SlotOverride, error) {
	if override.Date.IsZero() {
		s.logger.Warn("UpsertOverride: missing date for slot=%d", override.SlotID)
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if _, err := s.getOwned(ctx, restaurantID, override.SlotID); err != nil {
		return nil, err
	}

	result, err := s.slotRepo.UpsertOverride(ctx, override)
	if err != nil {
		s.logger.Error("UpsertOverride: failed for slot=%d date=%s: %v",
			override.SlotID, override.Date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: UpsertOverride - repository error: %v", ErrInternal, err)
	}

	// Инвалидация синхронная: клиент не должен увидеть устаревшую сводку
	// сразу после своего изменения
	s.cache.Invalidate(ctx, restaurantID, result.Date)

	date := result.Date
	slotID := result.SlotID
	s.dispatcher.Enqueue(events.Task{
		Name: "realtime.availability_changed",
		Run: func(taskCtx context.Context) error {
			s.publisher.Publish(taskCtx, restaurantID, date, slotID, realtime.ActionAvailabilityChanged)
			return nil
		},
	})

	s.logger.Info("UpsertOverride: slot=%d date=%s disabled=%v indoor=%v outdoor=%v",
		result.SlotID, result.Date.Format(domain.DateFormat),
		result.IsSlotDisabled, result.IsIndoorDisabled, result.IsOutdoorDisabled)

	return result, nil
}

// getOwned получает слот и проверяет принадлежность ресторану
func (s *Service) getOwned(ctx context.Context, restaurantID, slotID int64) (*domain.Slot, error) {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("slot=%d not found", slotID)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("failed to get slot=%d: %v", slotID, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}

	if slot.RestaurantID != restaurantID {
		s.logger.Warn("slot=%d belongs to restaurant=%d, requested by restaurant=%d",
			slotID, slot.RestaurantID, restaurantID)
		return nil, ErrSlotNotFound
	}

	return slot, nil
}
