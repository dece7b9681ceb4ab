package create_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/internal/events"
	"github.com/m04kA/RST-ReservationService/internal/infra/realtime"
	reservationRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/reservation"
	slotRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/slot"
	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// templateReservationCreated шаблон уведомления гостю о созданном бронировании
const templateReservationCreated = "reservation_created"

// UseCase use case для создания бронирования
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

// Execute выполняет use case создания бронирования
// Проверка конфликтов и вставка строк идут в одной сериализуемой транзакции,
// чтобы исключить двойное бронирование между проверкой и записью
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: restaurant=%d, table=%d, merge=%v, slot=%d, date=%s",
		req.RestaurantID, req.TableID, req.MergeTableIDs, req.SlotID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем слот и проверяем принадлежность ресторану
	slot, err := uc.getOwnedSlot(ctx, req.RestaurantID, req.SlotID)
	if err != nil {
		return nil, err
	}

	// 3. Слот должен быть активен и действовать на запрошенную дату
	if !slot.IsActive || !slot.MatchesDate(req.Date) {
		uc.logger.Warn("CreateReservation: slot=%d not available on date=%s",
			req.SlotID, req.Date.Format(domain.DateFormat))
		return nil, ErrSlotNotAvailable
	}

	// 4. Кастомное время начала проверяем относительно границ слота
	var customStart *types.TimeString
	if req.CustomStartTime != nil {
		customStart, err = validateCustomStartTime(*req.CustomStartTime, slot)
		if err != nil {
			uc.logger.Warn("CreateReservation: custom start time invalid: %v", err)
			return nil, err
		}
	}

	// 5. Проверяем, что все столы существуют и принадлежат ресторану
	targetTableIDs := append([]int64{req.TableID}, req.MergeTableIDs...)
	if err := uc.checkTablesOwned(ctx, req.RestaurantID, targetTableIDs); err != nil {
		return nil, err
	}

	// 6. Один group_id на все строки при объединении столов
	var groupID *string
	if len(targetTableIDs) > 1 {
		id := uuid.NewString()
		groupID = &id
	}

	rows := uc.buildRows(req, targetTableIDs, groupID, customStart)

	// 7. Проверка конфликтов + вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Свежие активные бронирования на (дата, слот) с блокировкой строк
		existing, err := uc.reservationRepo.GetWithFilter(txCtx, domain.ReservationsFilter{
			RestaurantID: req.RestaurantID,
			Date:         &req.Date,
			SlotID:       &req.SlotID,
		})
		if err != nil {
			uc.logger.Error("CreateReservation: failed to get reservations: %v", err)
			return fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
		}

		// 7.2. Каждый целевой стол должен быть свободен
		occupied := occupiedTableSet(existing)
		for _, tableID := range targetTableIDs {
			if _, busy := occupied[tableID]; busy {
				uc.logger.Warn("CreateReservation: table=%d already booked for slot=%d, date=%s",
					tableID, req.SlotID, req.Date.Format(domain.DateFormat))
				return fmt.Errorf("%w: table id=%d", ErrTableConflict, tableID)
			}
		}

		// 7.3. Вставляем все строки группы одним batch
		if err := uc.reservationRepo.CreateBatch(txCtx, rows); err != nil {
			if errors.Is(err, reservationRepo.ErrTableAlreadyBooked) {
				// Параллельная транзакция успела занять стол, уникальный индекс отработал
				return ErrTableConflict
			}
			uc.logger.Error("CreateReservation: failed to create reservations: %v", err)
			return fmt.Errorf("%w: failed to create reservations: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateReservation: created %d row(s), group=%v", len(rows), groupID)

	// 8. Сбрасываем кеш дашборда до ответа клиенту
	uc.cache.Invalidate(ctx, req.RestaurantID, req.Date)

	// 9. Фоновые задачи: публикация события и уведомление гостя
	uc.enqueueSideEffects(req, slot, customStart)

	return toResponse(rows), nil
}

// buildRows собирает строки бронирования по одной на каждый стол группы
func (uc *UseCase) buildRows(req *Request, tableIDs []int64, groupID *string, customStart *types.TimeString) []*domain.Reservation {
	rows := make([]*domain.Reservation, 0, len(tableIDs))
	for _, tableID := range tableIDs {
		rows = append(rows, &domain.Reservation{
			RestaurantID:    req.RestaurantID,
			TableID:         tableID,
			SlotID:          req.SlotID,
			ReservationDate: domain.DateOnly(req.Date),
			CustomerName:    req.CustomerName,
			CustomerPhone:   req.CustomerPhone,
			AdultCount:      req.AdultCount,
			KidsCount:       req.KidsCount,
			FoodPreference:  req.FoodPreference,
			SpecialRequest:  req.SpecialRequest,
			Status:          domain.StatusBooked,
			GroupID:         groupID,
			CustomStartTime: customStart,
		})
	}
	return rows
}

// enqueueSideEffects ставит в очередь публикацию события и уведомление гостя
// Переполненная очередь роняет задачу, но не бронирование
func (uc *UseCase) enqueueSideEffects(req *Request, slot *domain.Slot, customStart *types.TimeString) {
	restaurantID := req.RestaurantID
	date := req.Date
	slotID := req.SlotID
	phone := req.CustomerPhone

	startTime := slot.StartTime
	if customStart != nil {
		startTime = *customStart
	}
	params := []string{date.Format(domain.DateFormat), startTime.String()}

	uc.dispatcher.Enqueue(events.Task{
		Name: "realtime.reservation_created",
		Run: func(ctx context.Context) error {
			uc.publisher.Publish(ctx, restaurantID, date, slotID, realtime.ActionReservationCreated)
			return nil
		},
	})

	uc.dispatcher.Enqueue(events.Task{
		Name: "notify.reservation_created",
		Run: func(ctx context.Context) error {
			return uc.notifier.SendGuestConfirmation(ctx, phone, templateReservationCreated, params)
		},
	})
}

// getOwnedSlot получает слот с проверкой принадлежности ресторану
func (uc *UseCase) getOwnedSlot(ctx context.Context, restaurantID, slotID int64) (*domain.Slot, error) {
	slot, err := uc.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("CreateReservation: slot=%d not found", slotID)
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("CreateReservation: failed to get slot=%d: %v", slotID, err)
		return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}
	if slot.RestaurantID != restaurantID {
		uc.logger.Warn("CreateReservation: slot=%d belongs to restaurant=%d, requested by restaurant=%d",
			slotID, slot.RestaurantID, restaurantID)
		return nil, ErrSlotNotFound
	}
	return slot, nil
}

// checkTablesOwned проверяет существование столов и их принадлежность ресторану
func (uc *UseCase) checkTablesOwned(ctx context.Context, restaurantID int64, tableIDs []int64) error {
	tables, err := uc.tableRepo.GetByIDs(ctx, tableIDs)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to get tables: %v", err)
		return fmt.Errorf("%w: failed to get tables: %v", ErrInternal, err)
	}

	found := make(map[int64]*domain.Table, len(tables))
	for _, t := range tables {
		found[t.ID] = t
	}

	for _, id := range tableIDs {
		table, ok := found[id]
		if !ok || table.RestaurantID != restaurantID {
			uc.logger.Warn("CreateReservation: table=%d not found in restaurant=%d", id, restaurantID)
			return fmt.Errorf("%w: table id=%d", ErrTableNotFound, id)
		}
	}
	return nil
}

// occupiedTableSet собирает множество занятых столов из активных бронирований
func occupiedTableSet(reservations []*domain.Reservation) map[int64]struct{} {
	occupied := make(map[int64]struct{}, len(reservations))
	for _, r := range reservations {
		if r.IsActive() {
			occupied[r.TableID] = struct{}{}
		}
	}
	return occupied
}
