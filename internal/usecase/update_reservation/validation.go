package update_reservation

import (
	"fmt"

	"github.com/m04kA/RST-ReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.RestaurantID <= 0 {
		return fmt.Errorf("%w: restaurantID must be positive", ErrInvalidInput)
	}
	if req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}

	if req.CustomerName != nil {
		if *req.CustomerName == "" {
			return fmt.Errorf("%w: customerName must not be empty", ErrInvalidInput)
		}
		if len(*req.CustomerName) > domain.MaxCustomerNameLength {
			return fmt.Errorf("%w: customerName too long", ErrInvalidInput)
		}
	}
	if req.CustomerPhone != nil {
		if *req.CustomerPhone == "" {
			return fmt.Errorf("%w: customerPhone must not be empty", ErrInvalidInput)
		}
		if len(*req.CustomerPhone) > domain.MaxPhoneLength {
			return fmt.Errorf("%w: customerPhone too long", ErrInvalidInput)
		}
	}
	if req.AdultCount != nil && *req.AdultCount < 0 {
		return fmt.Errorf("%w: adultCount must be non-negative", ErrInvalidInput)
	}
	if req.KidsCount != nil && *req.KidsCount < 0 {
		return fmt.Errorf("%w: kidsCount must be non-negative", ErrInvalidInput)
	}
	if req.FoodPreference != nil && len(*req.FoodPreference) > domain.MaxFoodPreferenceLength {
		return fmt.Errorf("%w: foodPreference too long", ErrInvalidInput)
	}
	if req.SpecialRequest != nil && len(*req.SpecialRequest) > domain.MaxSpecialRequestLength {
		return fmt.Errorf("%w: specialRequest too long", ErrInvalidInput)
	}

	seen := make(map[int64]struct{}, len(req.AddTableIDs))
	for _, id := range req.AddTableIDs {
		if id <= 0 {
			return fmt.Errorf("%w: addTableIds must be positive", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate table id=%d in addTableIds", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	return nil
}

// validatePartySize проверяет итоговый размер компании после применения изменений
func validatePartySize(current *domain.Reservation, req *Request) error {
	adults := current.AdultCount
	kids := current.KidsCount
	if req.AdultCount != nil {
		adults = *req.AdultCount
	}
	if req.KidsCount != nil {
		kids = *req.KidsCount
	}
	guests := adults + kids
	if guests < domain.MinPartySize || guests > domain.MaxPartySize {
		return fmt.Errorf("%w: party size must be between %d and %d",
			ErrInvalidInput, domain.MinPartySize, domain.MaxPartySize)
	}
	return nil
}
