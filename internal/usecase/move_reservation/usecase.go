package move_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/internal/events"
	"github.com/m04kA/RST-ReservationService/internal/infra/realtime"
	reservationRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/reservation"
	slotRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/slot"
)

// templateReservationMoved шаблон уведомления гостю о переносе бронирования
const templateReservationMoved = "reservation_moved"

// UseCase use case для переноса бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	slotRepo        SlotRepository
	tableRepo       TableRepository
	txManager       TransactionManager
	cache           CacheInvalidator
	publisher       ChangePublisher
	notifier        GuestNotifier
	dispatcher      TaskDispatcher
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	slotRepo SlotRepository,
	tableRepo TableRepository,
	txManager TransactionManager,
	cache CacheInvalidator,
	publisher ChangePublisher,
	notifier GuestNotifier,
	dispatcher TaskDispatcher,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		slotRepo:        slotRepo,
		tableRepo:       tableRepo,
		txManager:       txManager,
		cache:           cache,
		publisher:       publisher,
		notifier:        notifier,
		dispatcher:      dispatcher,
		logger:          logger,
	}
}

// Execute выполняет use case переноса бронирования
// Вся группа переезжает целиком: либо все строки получают новые столы,
// дату и слот, либо ни одна
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("MoveReservation: restaurant=%d, reservation=%d, tables=%v, date=%v, slot=%v",
		req.RestaurantID, req.ReservationID, req.NewTableIDs, req.NewDate, req.NewSlotID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("MoveReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бронирование и проверяем принадлежность ресторану
	current, err := uc.getOwnedReservation(ctx, req.RestaurantID, req.ReservationID)
	if err != nil {
		return nil, err
	}

	// 3. Отменённую бронь не переносим
	if current.IsCancelled() {
		uc.logger.Warn("MoveReservation: reservation=%d is cancelled", req.ReservationID)
		return nil, ErrReservationCancelled
	}

	// 4. Все строки группы
	groupRows, err := uc.loadGroupRows(ctx, current)
	if err != nil {
		return nil, err
	}

	// 5. Столов ровно столько, сколько строк в группе
	if len(req.NewTableIDs) != len(groupRows) {
		uc.logger.Warn("MoveReservation: got %d tables for group of %d",
			len(req.NewTableIDs), len(groupRows))
		return nil, ErrTableCountMismatch
	}

	// 6. Целевые дата и слот: по умолчанию текущие
	destDate := domain.DateOnly(current.ReservationDate)
	if req.NewDate != nil {
		destDate = domain.DateOnly(*req.NewDate)
	}
	destSlotID := current.SlotID
	if req.NewSlotID != nil {
		destSlotID = *req.NewSlotID
	}

	// 7. Целевой слот существует, активен и действует на целевую дату
	destSlot, err := uc.getOwnedSlot(ctx, req.RestaurantID, destSlotID)
	if err != nil {
		return nil, err
	}
	if !destSlot.IsActive || !destSlot.MatchesDate(destDate) {
		uc.logger.Warn("MoveReservation: slot=%d not available on date=%s",
			destSlotID, destDate.Format(domain.DateFormat))
		return nil, ErrSlotNotAvailable
	}

	// 8. Целевые столы существуют и принадлежат ресторану
	if err := uc.checkTablesOwned(ctx, req.RestaurantID, req.NewTableIDs); err != nil {
		return nil, err
	}

	ownIDs := make(map[int64]struct{}, len(groupRows))
	for _, r := range groupRows {
		ownIDs[r.ID] = struct{}{}
	}

	// 9. Проверка конфликтов в пункте назначения и перенос в одной транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 9.1. Свежие активные бронирования в пункте назначения с блокировкой строк
		existing, err := uc.reservationRepo.GetWithFilter(txCtx, domain.ReservationsFilter{
			RestaurantID: req.RestaurantID,
			Date:         &destDate,
			SlotID:       &destSlotID,
		})
		if err != nil {
			uc.logger.Error("MoveReservation: failed to get reservations: %v", err)
			return fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
		}

		// 9.2. Собственные строки группы не считаются конфликтом:
		// перенос внутри того же слота на соседние столы разрешён
		occupied := make(map[int64]struct{}, len(existing))
		for _, r := range existing {
			if !r.IsActive() {
				continue
			}
			if _, own := ownIDs[r.ID]; own {
				continue
			}
			occupied[r.TableID] = struct{}{}
		}
		for _, tableID := range req.NewTableIDs {
			if _, busy := occupied[tableID]; busy {
				uc.logger.Warn("MoveReservation: table=%d already booked for slot=%d, date=%s",
					tableID, destSlotID, destDate.Format(domain.DateFormat))
				return fmt.Errorf("%w: table id=%d", ErrTableConflict, tableID)
			}
		}

		// 9.3. Откладываем проверку занятости столов: при переносе группы
		// на пересекающийся набор столов промежуточные состояния
		// легитимно конфликтуют между собой
		if err := uc.reservationRepo.DeferLiveTableCheck(txCtx); err != nil {
			uc.logger.Error("MoveReservation: failed to defer constraint: %v", err)
			return fmt.Errorf("%w: failed to defer constraint: %v", ErrInternal, err)
		}

		// 9.4. Перезаписываем назначение каждой строки группы
		for i, row := range groupRows {
			if err := uc.reservationRepo.UpdateAssignment(txCtx, row.ID, req.NewTableIDs[i], destDate, destSlotID); err != nil {
				if errors.Is(err, reservationRepo.ErrTableAlreadyBooked) {
					return ErrTableConflict
				}
				uc.logger.Error("MoveReservation: failed to move reservation=%d: %v", row.ID, err)
				return fmt.Errorf("%w: failed to move reservation: %v", ErrInternal, err)
			}
		}

		// 9.5. Возвращаем проверку и ловим реальные конфликты по итоговому состоянию
		if err := uc.reservationRepo.EnforceLiveTableCheck(txCtx); err != nil {
			if errors.Is(err, reservationRepo.ErrTableAlreadyBooked) {
				uc.logger.Warn("MoveReservation: destination tables already booked for slot=%d, date=%s",
					destSlotID, destDate.Format(domain.DateFormat))
				return ErrTableConflict
			}
			uc.logger.Error("MoveReservation: failed to enforce constraint: %v", err)
			return fmt.Errorf("%w: failed to enforce constraint: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("MoveReservation: moved %d row(s) to date=%s, slot=%d",
		len(groupRows), destDate.Format(domain.DateFormat), destSlotID)

	// 10. Сбрасываем кеш дашборда исходного и целевого дня до ответа
	uc.cache.Invalidate(ctx, req.RestaurantID, current.ReservationDate)
	if !domain.SameDay(current.ReservationDate, destDate) {
		uc.cache.Invalidate(ctx, req.RestaurantID, destDate)
	}

	// 11. Фоновая публикация события и уведомление гостя о новых дате и времени
	uc.enqueueSideEffects(current, destSlot, destDate, destSlotID)

	// 12. Возвращаем актуальное состояние всех строк
	updated, err := uc.loadGroupRows(ctx, current)
	if err != nil {
		return nil, err
	}
	return toResponse(updated), nil
}

// loadGroupRows возвращает все строки группы или одиночную строку
func (uc *UseCase) loadGroupRows(ctx context.Context, current *domain.Reservation) ([]*domain.Reservation, error) {
	if !current.IsGrouped() {
		fresh, err := uc.reservationRepo.GetByID(ctx, current.ID)
		if err != nil {
			uc.logger.Error("MoveReservation: failed to get reservation=%d: %v", current.ID, err)
			return nil, fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
		}
		return []*domain.Reservation{fresh}, nil
	}

	rows, err := uc.reservationRepo.GetByGroupID(ctx, *current.GroupID)
	if err != nil {
		uc.logger.Error("MoveReservation: failed to get group %s: %v", *current.GroupID, err)
		return nil, fmt.Errorf("%w: failed to get group: %v", ErrInternal, err)
	}
	return rows, nil
}

// getOwnedReservation получает бронирование с проверкой принадлежности ресторану
func (uc *UseCase) getOwnedReservation(ctx context.Context, restaurantID, reservationID int64) (*domain.Reservation, error) {
	res, err := uc.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Warn("MoveReservation: reservation=%d not found", reservationID)
			return nil, ErrReservationNotFound
		}
		uc.logger.Error("MoveReservation: failed to get reservation=%d: %v", reservationID, err)
		return nil, fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
	}
	if res.RestaurantID != restaurantID {
		uc.logger.Warn("MoveReservation: reservation=%d belongs to restaurant=%d, requested by restaurant=%d",
			reservationID, res.RestaurantID, restaurantID)
		return nil, ErrReservationNotFound
	}
	return res, nil
}

// getOwnedSlot получает слот с проверкой принадлежности ресторану
func (uc *UseCase) getOwnedSlot(ctx context.Context, restaurantID, slotID int64) (*domain.Slot, error) {
	slot, err := uc.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("MoveReservation: slot=%d not found", slotID)
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("MoveReservation: failed to get slot=%d: %v", slotID, err)
		return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}
	if slot.RestaurantID != restaurantID {
		uc.logger.Warn("MoveReservation: slot=%d belongs to restaurant=%d, requested by restaurant=%d",
			slotID, slot.RestaurantID, restaurantID)
		return nil, ErrSlotNotFound
	}
	return slot, nil
}

// checkTablesOwned проверяет существование столов и их принадлежность ресторану
func (uc *UseCase) checkTablesOwned(ctx context.Context, restaurantID int64, tableIDs []int64) error {
	tables, err := uc.tableRepo.GetByIDs(ctx, tableIDs)
	if err != nil {
		uc.logger.Error("MoveReservation: failed to get tables: %v", err)
		return fmt.Errorf("%w: failed to get tables: %v", ErrInternal, err)
	}

	found := make(map[int64]*domain.Table, len(tables))
	for _, t := range tables {
		found[t.ID] = t
	}
	for _, id := range tableIDs {
		table, ok := found[id]
		if !ok || table.RestaurantID != restaurantID {
			uc.logger.Warn("MoveReservation: table=%d not found in restaurant=%d", id, restaurantID)
			return fmt.Errorf("%w: table id=%d", ErrTableNotFound, id)
		}
	}
	return nil
}

// enqueueSideEffects ставит в очередь публикацию события и уведомление гостя
// Переполненная очередь роняет задачу, но не перенос
func (uc *UseCase) enqueueSideEffects(current *domain.Reservation, destSlot *domain.Slot, destDate time.Time, destSlotID int64) {
	restaurantID := current.RestaurantID
	phone := current.CustomerPhone

	startTime := destSlot.StartTime
	if current.CustomStartTime != nil {
		startTime = *current.CustomStartTime
	}
	params := []string{destDate.Format(domain.DateFormat), startTime.String()}

	uc.dispatcher.Enqueue(events.Task{
		Name: "realtime.reservation_moved",
		Run: func(ctx context.Context) error {
			uc.publisher.Publish(ctx, restaurantID, destDate, destSlotID, realtime.ActionReservationMoved)
			return nil
		},
	})

	uc.dispatcher.Enqueue(events.Task{
		Name: "notify.reservation_moved",
		Run: func(ctx context.Context) error {
			return uc.notifier.SendGuestConfirmation(ctx, phone, templateReservationMoved, params)
		},
	})
}
