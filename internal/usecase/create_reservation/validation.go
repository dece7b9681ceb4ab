package create_reservation

import (
	"fmt"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.RestaurantID <= 0 {
		return fmt.Errorf("%w: restaurantID must be positive", ErrInvalidInput)
	}
	if req.TableID <= 0 {
		return fmt.Errorf("%w: tableID must be positive", ErrInvalidInput)
	}
	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.CustomerName == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}
	if len(req.CustomerName) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customerName too long", ErrInvalidInput)
	}
	if req.CustomerPhone == "" {
		return fmt.Errorf("%w: customerPhone is required", ErrInvalidInput)
	}
	if len(req.CustomerPhone) > domain.MaxPhoneLength {
		return fmt.Errorf("%w: customerPhone too long", ErrInvalidInput)
	}

	guests := req.AdultCount + req.KidsCount
	if req.AdultCount < 0 || req.KidsCount < 0 {
		return fmt.Errorf("%w: guest counts must be non-negative", ErrInvalidInput)
	}
	if guests < domain.MinPartySize || guests > domain.MaxPartySize {
		return fmt.Errorf("%w: party size must be between %d and %d",
			ErrInvalidInput, domain.MinPartySize, domain.MaxPartySize)
	}

	if err := validateTableSet(req); err != nil {
		return err
	}

	return nil
}

// validateTableSet проверяет набор объединяемых столов на дубликаты
func validateTableSet(req *Request) error {
	seen := map[int64]struct{}{req.TableID: {}}
	for _, id := range req.MergeTableIDs {
		if id <= 0 {
			return fmt.Errorf("%w: mergeTableIds must be positive", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate table id=%d in merge set", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// validateCustomStartTime проверяет кастомное время начала относительно слота
// Шаг 15 минут, фиксированная длительность, не выходит за границы слота
func validateCustomStartTime(raw string, slot *domain.Slot) (*types.TimeString, error) {
	start, err := types.NewTimeStringFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: customStartTime: %v", ErrInvalidInput, err)
	}

	minutes, err := start.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: customStartTime: %v", ErrInvalidInput, err)
	}
	if minutes%domain.CustomSlotStepMinutes != 0 {
		return nil, fmt.Errorf("%w: customStartTime must be aligned to %d minutes",
			ErrInvalidInput, domain.CustomSlotStepMinutes)
	}

	if start.IsBefore(slot.StartTime) {
		return nil, fmt.Errorf("%w: customStartTime is before slot start", ErrInvalidInput)
	}

	end, err := start.AddMinutes(domain.CustomSlotDurationMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: customStartTime: %v", ErrInvalidInput, err)
	}
	if end.IsAfter(slot.EndTime) {
		return nil, fmt.Errorf("%w: customStartTime does not fit into the slot", ErrInvalidInput)
	}

	return &start, nil
}
