package create_reservation

import (
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	createReservation "github.com/m04kA/RST-ReservationService/internal/usecase/create_reservation"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	RestaurantID    int64   `json:"restaurantId"`
	TableID         int64   `json:"tableId"`
	MergeTableIDs   []int64 `json:"mergeTableIds,omitempty"`
	SlotID          int64   `json:"slotId"`
	Date            string  `json:"date"` // "2026-09-01"
	CustomerName    string  `json:"customerName"`
	CustomerPhone   string  `json:"customerPhone"`
	AdultCount      int     `json:"adultCount"`
	KidsCount       int     `json:"kidsCount"`
	FoodPreference  *string `json:"foodPreference,omitempty"`
	SpecialRequest  *string `json:"specialRequest,omitempty"`
	CustomStartTime *string `json:"customStartTime,omitempty"` // "12:15"
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

// CreateReservationResponse HTTP response model
type CreateReservationResponse struct {
	GroupID      *string               `json:"groupId,omitempty"`
	Reservations []ReservationResponse `json:"reservations"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(restaurantID int64) (*createReservation.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}
	return &createReservation.Request{
		RestaurantID:    restaurantID,
		TableID:         r.TableID,
		MergeTableIDs:   r.MergeTableIDs,
		SlotID:          r.SlotID,
		Date:            date,
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		AdultCount:      r.AdultCount,
		KidsCount:       r.KidsCount,
		FoodPreference:  r.FoodPreference,
		SpecialRequest:  r.SpecialRequest,
		CustomStartTime: r.CustomStartTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *CreateReservationResponse {
	out := &CreateReservationResponse{
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
