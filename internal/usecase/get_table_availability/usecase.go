package get_table_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	slotRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/slot"
	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// UseCase use case расчёта занятости столов
// Только чтение: занятость всегда считается из свежих строк бронирований,
// никакого внутреннего кеширования
type UseCase struct {
	reservationRepo ReservationRepository
	slotRepo        SlotRepository
	tableRepo       TableRepository
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	slotRepo SlotRepository,
	tableRepo TableRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		slotRepo:        slotRepo,
		tableRepo:       tableRepo,
		logger:          logger,
	}
}

// Execute выполняет расчёт занятости
// С указанным SlotID возвращается один слот с полной картой столов,
// без него - все слоты, видимые на дату, со счётчиками занятости
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetTableAvailability: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("GetTableAvailability: restaurant=%d, date=%s, slot=%v",
		req.RestaurantID, req.Date.Format(domain.DateFormat), req.SlotID)

	// Список слотов: один конкретный либо все видимые на дату
	var slots []*domain.Slot
	var customStart, customEnd *types.TimeString
	if req.SlotID != nil {
		slot, err := uc.getOwnedSlot(ctx, req.RestaurantID, *req.SlotID)
		if err != nil {
			return nil, err
		}
		if req.CustomStartTime != nil {
			customStart, customEnd, err = resolveCustomWindow(*req.CustomStartTime, slot)
			if err != nil {
				uc.logger.Warn("GetTableAvailability: invalid custom window for slot=%d: %v", slot.ID, err)
				return nil, err
			}
		}
		slots = []*domain.Slot{slot}
	} else {
		matched, err := uc.slotRepo.ListForDate(ctx, req.RestaurantID, req.Date)
		if err != nil {
			uc.logger.Error("GetTableAvailability: failed to list slots: %v", err)
			return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
		}
		slots = matched
	}

	tables, err := uc.tableRepo.ListByRestaurant(ctx, req.RestaurantID)
	if err != nil {
		uc.logger.Error("GetTableAvailability: failed to list tables: %v", err)
		return nil, fmt.Errorf("%w: failed to list tables: %v", ErrInternal, err)
	}

	response := &Response{
		RestaurantID: req.RestaurantID,
		Date:         domain.DateOnly(req.Date),
		Slots:        make([]SlotAvailability, 0, len(slots)),
	}

	withTables := req.SlotID != nil

	for _, slot := range slots {
		availability, err := uc.computeSlot(ctx, req, slot, tables, withTables)
		if err != nil {
			return nil, err
		}
		availability.CustomStart = customStart
		availability.CustomEnd = customEnd
		response.Slots = append(response.Slots, *availability)
	}

	return response, nil
}

// resolveCustomWindow проверяет кастомное время начала относительно слота
// и возвращает границы окна фиксированной длительности
func resolveCustomWindow(raw string, slot *domain.Slot) (*types.TimeString, *types.TimeString, error) {
	start, err := types.NewTimeStringFromString(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: customStartTime: %v", ErrInvalidInput, err)
	}

	minutes, err := start.Minutes()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: customStartTime: %v", ErrInvalidInput, err)
	}
	if minutes%domain.CustomSlotStepMinutes != 0 {
		return nil, nil, fmt.Errorf("%w: customStartTime must be aligned to %d minutes",
			ErrInvalidInput, domain.CustomSlotStepMinutes)
	}

	if start.IsBefore(slot.StartTime) {
		return nil, nil, fmt.Errorf("%w: customStartTime is before slot start", ErrInvalidInput)
	}

	end, err := start.AddMinutes(domain.CustomSlotDurationMinutes)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: customStartTime: %v", ErrInvalidInput, err)
	}
	if end.IsAfter(slot.EndTime) {
		return nil, nil, fmt.Errorf("%w: customStartTime does not fit into the slot", ErrInvalidInput)
	}

	return &start, &end, nil
}

// computeSlot считает занятость одного слота на дату
func (uc *UseCase) computeSlot(
	ctx context.Context,
	req *Request,
	slot *domain.Slot,
	tables []*domain.Table,
	withTables bool,
) (*SlotAvailability, error) {
	filter := domain.ReservationsFilter{
		RestaurantID: req.RestaurantID,
		Date:         &req.Date,
		SlotID:       &slot.ID,
	}

	reservations, err := uc.reservationRepo.GetWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetTableAvailability: failed to get reservations for slot=%d: %v", slot.ID, err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	occupied := buildOccupiedSet(reservations)

	override, err := uc.slotRepo.GetOverride(ctx, slot.ID, req.Date)
	if err != nil && !errors.Is(err, slotRepo.ErrOverrideNotFound) {
		uc.logger.Error("GetTableAvailability: failed to get override for slot=%d: %v", slot.ID, err)
		return nil, fmt.Errorf("%w: failed to get override: %v", ErrInternal, err)
	}
	if override == nil {
		// Отсутствие записи - валидное состояние: ручных ограничений нет
		override = &domain.SlotOverride{SlotID: slot.ID, Date: domain.DateOnly(req.Date)}
	}

	availability := &SlotAvailability{
		SlotOccupancy: domain.SlotOccupancy{
			Slot:              *slot,
			Date:              domain.DateOnly(req.Date),
			TotalTables:       len(tables),
			OccupiedTables:    len(occupied),
			IsSlotDisabled:    override.IsSlotDisabled,
			IsIndoorDisabled:  override.IsIndoorDisabled,
			IsOutdoorDisabled: override.IsOutdoorDisabled,
			IsAutoDisabled:    domain.ComputeAutoDisabled(len(occupied), len(tables)),
		},
	}

	if withTables {
		availability.Tables = buildTableStates(tables, occupied)
	}

	return availability, nil
}

// getOwnedSlot получает слот с проверкой принадлежности ресторану
func (uc *UseCase) getOwnedSlot(ctx context.Context, restaurantID, slotID int64) (*domain.Slot, error) {
	slot, err := uc.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("GetTableAvailability: slot=%d not found", slotID)
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("GetTableAvailability: failed to get slot=%d: %v", slotID, err)
		return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}

	if slot.RestaurantID != restaurantID {
		uc.logger.Warn("GetTableAvailability: slot=%d belongs to restaurant=%d, requested by restaurant=%d",
			slotID, slot.RestaurantID, restaurantID)
		return nil, ErrSlotNotFound
	}

	return slot, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.RestaurantID <= 0 {
		return fmt.Errorf("%w: restaurantID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.SlotID != nil && *req.SlotID <= 0 {
		return fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}
	if req.CustomStartTime != nil && req.SlotID == nil {
		return fmt.Errorf("%w: customStartTime requires slotId", ErrInvalidInput)
	}
	return nil
}
