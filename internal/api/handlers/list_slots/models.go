package list_slots

import (
	"github.com/m04kA/RST-ReservationService/internal/domain"
)

// SlotResponse HTTP response model
type SlotResponse struct {
	ID           int64   `json:"id"`
	RestaurantID int64   `json:"restaurantId"`
	StartTime    string  `json:"startTime"`
	EndTime      string  `json:"endTime"`
	DayOfWeek    *int    `json:"dayOfWeek,omitempty"`
	SpecificDate *string `json:"specificDate,omitempty"`
	IsActive     bool    `json:"isActive"`
}

// ListSlotsResponse HTTP response model
type ListSlotsResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// FromDomain конвертирует доменные слоты в HTTP response
func FromDomain(slots []*domain.Slot) *ListSlotsResponse {
	resp := &ListSlotsResponse{Slots: make([]SlotResponse, 0, len(slots))}
	for _, s := range slots {
		item := SlotResponse{
			ID:           s.ID,
			RestaurantID: s.RestaurantID,
			StartTime:    s.StartTime.String(),
			EndTime:      s.EndTime.String(),
			DayOfWeek:    s.DayOfWeek,
			IsActive:     s.IsActive,
		}
		if s.SpecificDate != nil {
			date := s.SpecificDate.Format(domain.DateFormat)
			item.SpecificDate = &date
		}
		resp.Slots = append(resp.Slots, item)
	}
	return resp
}
