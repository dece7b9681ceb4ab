package move_reservation

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.RestaurantID <= 0 {
		return fmt.Errorf("%w: restaurantID must be positive", ErrInvalidInput)
	}
	if req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}
	if len(req.NewTableIDs) == 0 {
		return fmt.Errorf("%w: newTableIds is required", ErrInvalidInput)
	}
	if req.NewSlotID != nil && *req.NewSlotID <= 0 {
		return fmt.Errorf("%w: newSlotId must be positive", ErrInvalidInput)
	}
	if req.NewDate != nil && req.NewDate.IsZero() {
		return fmt.Errorf("%w: newDate must be a valid date", ErrInvalidInput)
	}

	seen := make(map[int64]struct{}, len(req.NewTableIDs))
	for _, id := range req.NewTableIDs {
		if id <= 0 {
			return fmt.Errorf("%w: newTableIds must be positive", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate table id=%d in newTableIds", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
