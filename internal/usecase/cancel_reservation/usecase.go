package cancel_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/internal/events"
	"github.com/m04kA/RST-ReservationService/internal/infra/realtime"
	reservationRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/reservation"
)

// UseCase use case для отмены бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	txManager       TransactionManager
	cache           CacheInvalidator
	publisher       ChangePublisher
	dispatcher      TaskDispatcher
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	cache CacheInvalidator,
	publisher ChangePublisher,
	dispatcher TaskDispatcher,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		txManager:       txManager,
		cache:           cache,
		publisher:       publisher,
		dispatcher:      dispatcher,
		logger:          logger,
	}
}

// Execute выполняет use case отмены бронирования
// Отмена идемпотентна: повторный запрос возвращает текущее состояние
// без записи в БД. Группа отменяется целиком
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelReservation: restaurant=%d, reservation=%d",
		req.RestaurantID, req.ReservationID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бронирование и проверяем принадлежность ресторану
	current, err := uc.getOwnedReservation(ctx, req.RestaurantID, req.ReservationID)
	if err != nil {
		return nil, err
	}

	// 3. Все строки группы
	groupRows, err := uc.loadGroupRows(ctx, current)
	if err != nil {
		return nil, err
	}

	// 4. Уже отменённая бронь - успешный no-op, столы давно свободны
	if current.IsCancelled() {
		uc.logger.Info("CancelReservation: reservation=%d already cancelled", req.ReservationID)
		return toResponse(groupRows, true), nil
	}

	ids := make([]int64, 0, len(groupRows))
	for _, r := range groupRows {
		ids = append(ids, r.ID)
	}

	// 5. Отменяем все строки группы атомарно
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.reservationRepo.CancelByIDs(txCtx, ids, req.Reason); err != nil {
			uc.logger.Error("CancelReservation: failed to cancel: %v", err)
			return fmt.Errorf("%w: failed to cancel: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CancelReservation: cancelled %d row(s)", len(ids))

	// 6. Сбрасываем кеш дашборда до ответа клиенту
	uc.cache.Invalidate(ctx, req.RestaurantID, current.ReservationDate)

	// 7. Фоновая публикация события
	uc.enqueuePublish(req.RestaurantID, current)

	// 8. Возвращаем актуальное состояние всех строк
	updated, err := uc.loadGroupRows(ctx, current)
	if err != nil {
		return nil, err
	}
	return toResponse(updated, false), nil
}

// loadGroupRows возвращает все строки группы или одиночную строку
func (uc *UseCase) loadGroupRows(ctx context.Context, current *domain.Reservation) ([]*domain.Reservation, error) {
	if !current.IsGrouped() {
		fresh, err := uc.reservationRepo.GetByID(ctx, current.ID)
		if err != nil {
			uc.logger.Error("CancelReservation: failed to get reservation=%d: %v", current.ID, err)
			return nil, fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
		}
		return []*domain.Reservation{fresh}, nil
	}

	rows, err := uc.reservationRepo.GetByGroupID(ctx, *current.GroupID)
	if err != nil {
		uc.logger.Error("CancelReservation: failed to get group %s: %v", *current.GroupID, err)
		return nil, fmt.Errorf("%w: failed to get group: %v", ErrInternal, err)
	}
	return rows, nil
}

// getOwnedReservation получает бронирование с проверкой принадлежности ресторану
func (uc *UseCase) getOwnedReservation(ctx context.Context, restaurantID, reservationID int64) (*domain.Reservation, error) {
	res, err := uc.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Warn("CancelReservation: reservation=%d not found", reservationID)
			return nil, ErrReservationNotFound
		}
		uc.logger.Error("CancelReservation: failed to get reservation=%d: %v", reservationID, err)
		return nil, fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
	}
	if res.RestaurantID != restaurantID {
		uc.logger.Warn("CancelReservation: reservation=%d belongs to restaurant=%d, requested by restaurant=%d",
			reservationID, res.RestaurantID, restaurantID)
		return nil, ErrReservationNotFound
	}
	return res, nil
}

func (uc *UseCase) enqueuePublish(restaurantID int64, current *domain.Reservation) {
	date := current.ReservationDate
	slotID := current.SlotID
	uc.dispatcher.Enqueue(events.Task{
		Name: "realtime.reservation_cancelled",
		Run: func(ctx context.Context) error {
			uc.publisher.Publish(ctx, restaurantID, date, slotID, realtime.ActionReservationCancelled)
			return nil
		},
	})
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.RestaurantID <= 0 {
		return fmt.Errorf("%w: restaurantID must be positive", ErrInvalidInput)
	}
	if req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}
	if req.Reason != nil && len(*req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: reason too long", ErrInvalidInput)
	}
	return nil
}
