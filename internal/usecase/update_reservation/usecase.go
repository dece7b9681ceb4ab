package update_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/internal/events"
	"github.com/m04kA/RST-ReservationService/internal/infra/realtime"
	reservationRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/reservation"
)

// UseCase use case для обновления бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	tableRepo       TableRepository
	txManager       TransactionManager
	cache           CacheInvalidator
	publisher       ChangePublisher
	dispatcher      TaskDispatcher
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	tableRepo TableRepository,
	txManager TransactionManager,
	cache CacheInvalidator,
	publisher ChangePublisher,
	dispatcher TaskDispatcher,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		tableRepo:       tableRepo,
		txManager:       txManager,
		cache:           cache,
		publisher:       publisher,
		dispatcher:      dispatcher,
		logger:          logger,
	}
}

// Execute выполняет use case обновления бронирования
// Обновляет контактные данные и состав компании на всех строках группы;
// добавление столов проверяется на конфликты как при создании
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateReservation: restaurant=%d, reservation=%d, addTables=%v",
		req.RestaurantID, req.ReservationID, req.AddTableIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateReservation: validation failed: %v", err)
		return nil, err
	}

	upd := reservationRepo.InfoUpdate{
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		AdultCount:     req.AdultCount,
		KidsCount:      req.KidsCount,
		FoodPreference: req.FoodPreference,
		SpecialRequest: req.SpecialRequest,
	}
	if upd.IsEmpty() && len(req.AddTableIDs) == 0 {
		uc.logger.Warn("UpdateReservation: empty request for reservation=%d", req.ReservationID)
		return nil, ErrNoFieldsToUpdate
	}

	// 2. Получаем бронирование и проверяем принадлежность ресторану
	current, err := uc.getOwnedReservation(ctx, req.RestaurantID, req.ReservationID)
	if err != nil {
		return nil, err
	}

	// 3. Отменённую бронь не редактируем
	if current.IsCancelled() {
		uc.logger.Warn("UpdateReservation: reservation=%d is cancelled", req.ReservationID)
		return nil, ErrReservationCancelled
	}

	// 4. Итоговый размер компании в допустимых границах
	if err := validatePartySize(current, req); err != nil {
		uc.logger.Warn("UpdateReservation: party size invalid: %v", err)
		return nil, err
	}

	// 5. Все строки группы: поля компании едины для всех столов
	groupRows, err := uc.loadGroupRows(ctx, current)
	if err != nil {
		return nil, err
	}

	// 6. Новые столы должны существовать, принадлежать ресторану
	// и не повторять уже занятые группой
	if len(req.AddTableIDs) > 0 {
		if err := uc.checkAddedTables(ctx, req, groupRows); err != nil {
			return nil, err
		}
	}

	groupIDs := rowIDs(groupRows)

	// 7. Обновление полей и добавление столов в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if !upd.IsEmpty() {
			if err := uc.reservationRepo.UpdateInfo(txCtx, groupIDs, upd); err != nil {
				uc.logger.Error("UpdateReservation: failed to update info: %v", err)
				return fmt.Errorf("%w: failed to update info: %v", ErrInternal, err)
			}
		}

		if len(req.AddTableIDs) > 0 {
			if err := uc.addTables(txCtx, req, current, groupIDs, upd); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 8. Сбрасываем кеш дашборда до ответа клиенту
	uc.cache.Invalidate(ctx, req.RestaurantID, current.ReservationDate)

	// 9. Фоновая публикация события
	uc.enqueuePublish(req.RestaurantID, current)

	// 10. Возвращаем актуальное состояние всех строк
	updated, err := uc.loadGroupRows(ctx, current)
	if err != nil {
		return nil, err
	}
	return toResponse(updated), nil
}

// addTables добавляет столы к существующей брони внутри транзакции
// Если бронь была одиночной, она ретроактивно получает group_id
func (uc *UseCase) addTables(
	txCtx context.Context,
	req *Request,
	current *domain.Reservation,
	groupIDs []int64,
	upd reservationRepo.InfoUpdate,
) error {
	// Свежие активные бронирования на (дата, слот) с блокировкой строк
	existing, err := uc.reservationRepo.GetWithFilter(txCtx, domain.ReservationsFilter{
		RestaurantID: req.RestaurantID,
		Date:         &current.ReservationDate,
		SlotID:       &current.SlotID,
	})
	if err != nil {
		uc.logger.Error("UpdateReservation: failed to get reservations: %v", err)
		return fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	occupied := make(map[int64]struct{}, len(existing))
	for _, r := range existing {
		if r.IsActive() {
			occupied[r.TableID] = struct{}{}
		}
	}
	for _, tableID := range req.AddTableIDs {
		if _, busy := occupied[tableID]; busy {
			uc.logger.Warn("UpdateReservation: table=%d already booked for slot=%d, date=%s",
				tableID, current.SlotID, current.ReservationDate.Format(domain.DateFormat))
			return fmt.Errorf("%w: table id=%d", ErrTableConflict, tableID)
		}
	}

	// Одиночная бронь получает group_id перед расширением
	groupID := current.GroupID
	if groupID == nil {
		id := uuid.NewString()
		groupID = &id
		if err := uc.reservationRepo.SetGroupID(txCtx, groupIDs, id); err != nil {
			uc.logger.Error("UpdateReservation: failed to set group id: %v", err)
			return fmt.Errorf("%w: failed to set group id: %v", ErrInternal, err)
		}
		current.GroupID = groupID
	}

	rows := make([]*domain.Reservation, 0, len(req.AddTableIDs))
	for _, tableID := range req.AddTableIDs {
		rows = append(rows, &domain.Reservation{
			RestaurantID:    current.RestaurantID,
			TableID:         tableID,
			SlotID:          current.SlotID,
			ReservationDate: current.ReservationDate,
			CustomerName:    applied(upd.CustomerName, current.CustomerName),
			CustomerPhone:   applied(upd.CustomerPhone, current.CustomerPhone),
			AdultCount:      appliedInt(upd.AdultCount, current.AdultCount),
			KidsCount:       appliedInt(upd.KidsCount, current.KidsCount),
			FoodPreference:  firstNonNil(upd.FoodPreference, current.FoodPreference),
			SpecialRequest:  firstNonNil(upd.SpecialRequest, current.SpecialRequest),
			Status:          domain.StatusBooked,
			GroupID:         groupID,
			CustomStartTime: current.CustomStartTime,
		})
	}

	if err := uc.reservationRepo.CreateBatch(txCtx, rows); err != nil {
		if errors.Is(err, reservationRepo.ErrTableAlreadyBooked) {
			return ErrTableConflict
		}
		uc.logger.Error("UpdateReservation: failed to create reservations: %v", err)
		return fmt.Errorf("%w: failed to create reservations: %v", ErrInternal, err)
	}
	return nil
}

// checkAddedTables проверяет добавляемые столы до входа в транзакцию
func (uc *UseCase) checkAddedTables(ctx context.Context, req *Request, groupRows []*domain.Reservation) error {
	held := make(map[int64]struct{}, len(groupRows))
	for _, r := range groupRows {
		held[r.TableID] = struct{}{}
	}
	for _, id := range req.AddTableIDs {
		if _, ok := held[id]; ok {
			return fmt.Errorf("%w: table id=%d is already part of this reservation", ErrInvalidInput, id)
		}
	}

	tables, err := uc.tableRepo.GetByIDs(ctx, req.AddTableIDs)
	if err != nil {
		uc.logger.Error("UpdateReservation: failed to get tables: %v", err)
		return fmt.Errorf("%w: failed to get tables: %v", ErrInternal, err)
	}
	found := make(map[int64]*domain.Table, len(tables))
	for _, t := range tables {
		found[t.ID] = t
	}
	for _, id := range req.AddTableIDs {
		table, ok := found[id]
		if !ok || table.RestaurantID != req.RestaurantID {
			uc.logger.Warn("UpdateReservation: table=%d not found in restaurant=%d", id, req.RestaurantID)
			return fmt.Errorf("%w: table id=%d", ErrTableNotFound, id)
		}
	}
	return nil
}

// loadGroupRows возвращает все строки группы или одиночную строку
func (uc *UseCase) loadGroupRows(ctx context.Context, current *domain.Reservation) ([]*domain.Reservation, error) {
	if !current.IsGrouped() {
		fresh, err := uc.reservationRepo.GetByID(ctx, current.ID)
		if err != nil {
			uc.logger.Error("UpdateReservation: failed to get reservation=%d: %v", current.ID, err)
			return nil, fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
		}
		return []*domain.Reservation{fresh}, nil
	}

	rows, err := uc.reservationRepo.GetByGroupID(ctx, *current.GroupID)
	if err != nil {
		uc.logger.Error("UpdateReservation: failed to get group %s: %v", *current.GroupID, err)
		return nil, fmt.Errorf("%w: failed to get group: %v", ErrInternal, err)
	}
	return rows, nil
}

// getOwnedReservation получает бронирование с проверкой принадлежности ресторану
func (uc *UseCase) getOwnedReservation(ctx context.Context, restaurantID, reservationID int64) (*domain.Reservation, error) {
	res, err := uc.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Warn("UpdateReservation: reservation=%d not found", reservationID)
			return nil, ErrReservationNotFound
		}
		uc.logger.Error("UpdateReservation: failed to get reservation=%d: %v", reservationID, err)
		return nil, fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
	}
	if res.RestaurantID != restaurantID {
		uc.logger.Warn("UpdateReservation: reservation=%d belongs to restaurant=%d, requested by restaurant=%d",
			reservationID, res.RestaurantID, restaurantID)
		return nil, ErrReservationNotFound
	}
	return res, nil
}

func (uc *UseCase) enqueuePublish(restaurantID int64, current *domain.Reservation) {
	date := current.ReservationDate
	slotID := current.SlotID
	uc.dispatcher.Enqueue(events.Task{
		Name: "realtime.reservation_updated",
		Run: func(ctx context.Context) error {
			uc.publisher.Publish(ctx, restaurantID, date, slotID, realtime.ActionReservationUpdated)
			return nil
		},
	})
}

func rowIDs(rows []*domain.Reservation) []int64 {
	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids
}

func applied(upd *string, current string) string {
	if upd != nil {
		return *upd
	}
	return current
}

func appliedInt(upd *int, current int) int {
	if upd != nil {
		return *upd
	}
	return current
}

func firstNonNil(upd, current *string) *string {
	if upd != nil {
		return upd
	}
	return current
}
