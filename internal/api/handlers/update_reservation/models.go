package update_reservation

import (
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	updateReservation "github.com/m04kA/RST-ReservationService/internal/usecase/update_reservation"
)

// UpdateReservationRequest HTTP request model
// Отсутствующие поля не изменяются
type UpdateReservationRequest struct {
	CustomerName   *string `json:"customerName,omitempty"`
	CustomerPhone  *string `json:"customerPhone,omitempty"`
	AdultCount     *int    `json:"adultCount,omitempty"`
	KidsCount      *int    `json:"kidsCount,omitempty"`
	FoodPreference *string `json:"foodPreference,omitempty"`
	SpecialRequest *string `json:"specialRequest,omitempty"`
	AddTableIDs    []int64 `json:"addTableIds,omitempty"`
}

// ReservationResponse HTTP response model одной строки бронирования
type ReservationResponse struct {
	ID              int64   `json:"id"`
	RestaurantID    int64   `json:"restaurantId"`
	TableID         int64   `json:"tableId"`
	SlotID          int64   `json:"slotId"`
	Date            string  `json:"date"`
	CustomerName    string  `json:"customerName"`
	CustomerPhone   string  `json:"customerPhone"`
	AdultCount      int     `json:"adultCount"`
	KidsCount       int     `json:"kidsCount"`
	FoodPreference  *string `json:"foodPreference,omitempty"`
	SpecialRequest  *string `json:"specialRequest,omitempty"`
	Status          string  `json:"status"`
	GroupID         *string `json:"groupId,omitempty"`
	CustomStartTime *string `json:"customStartTime,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// UpdateReservationResponse HTTP response model
type UpdateReservationResponse struct {
	GroupID      *string               `json:"groupId,omitempty"`
	Reservations []ReservationResponse `json:"reservations"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateReservationRequest) ToUseCaseRequest(restaurantID, reservationID int64) *updateReservation.Request {
	return &updateReservation.Request{
		RestaurantID:   restaurantID,
		ReservationID:  reservationID,
		CustomerName:   r.CustomerName,
		CustomerPhone:  r.CustomerPhone,
		AdultCount:     r.AdultCount,
		KidsCount:      r.KidsCount,
		FoodPreference: r.FoodPreference,
		SpecialRequest: r.SpecialRequest,
		AddTableIDs:    r.AddTableIDs,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateReservation.Response) *UpdateReservationResponse {
	out := &UpdateReservationResponse{
		GroupID:      resp.GroupID,
		Reservations: make([]ReservationResponse, 0, len(resp.Reservations)),
	}
	for _, r := range resp.Reservations {
		item := ReservationResponse{
			ID:             r.ID,
			RestaurantID:   r.RestaurantID,
			TableID:        r.TableID,
			SlotID:         r.SlotID,
			Date:           r.ReservationDate.Format(domain.DateFormat),
			CustomerName:   r.CustomerName,
			CustomerPhone:  r.CustomerPhone,
			AdultCount:     r.AdultCount,
			KidsCount:      r.KidsCount,
			FoodPreference: r.FoodPreference,
			SpecialRequest: r.SpecialRequest,
			Status:         r.Status,
			GroupID:        r.GroupID,
			CreatedAt:      r.CreatedAt.Format(time.RFC3339),
			UpdatedAt:      r.UpdatedAt.Format(time.RFC3339),
		}
		if r.CustomStartTime != nil {
			s := r.CustomStartTime.String()
			item.CustomStartTime = &s
		}
		out.Reservations = append(out.Reservations, item)
	}
	return out
}
