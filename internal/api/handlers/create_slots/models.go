package create_slots

import (
	"github.com/m04kA/RST-ReservationService/internal/domain"
)

// CreateSlotsRequest HTTP request model
type CreateSlotsRequest struct {
	StartTime string `json:"startTime"` // "12:00"
	EndTime   string `json:"endTime"`   // "14:00"
	Days      []int  `json:"days"`      // 0=воскресенье .. 6=суббота
}

// SlotResponse HTTP response model
type SlotResponse struct {
	ID           int64  `json:"id"`
	RestaurantID int64  `json:"restaurantId"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	DayOfWeek    *int   `json:"dayOfWeek,omitempty"`
	IsActive     bool   `json:"isActive"`
}

// CreateSlotsResponse HTTP response model
type CreateSlotsResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// FromDomain конвертирует доменные слоты в HTTP response
func FromDomain(slots []*domain.Slot) *CreateSlotsResponse {
	resp := &CreateSlotsResponse{Slots: make([]SlotResponse, 0, len(slots))}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, SlotResponse{
			ID:           s.ID,
			RestaurantID: s.RestaurantID,
			StartTime:    s.StartTime.String(),
			EndTime:      s.EndTime.String(),
			DayOfWeek:    s.DayOfWeek,
			IsActive:     s.IsActive,
		})
	}
	return resp
}
