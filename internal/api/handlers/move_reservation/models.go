package move_reservation

import (
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	moveReservation "github.com/m04kA/RST-ReservationService/internal/usecase/move_reservation"
)

// MoveReservationRequest HTTP request model
// Дата и слот опциональны: по умолчанию бронь остаётся в текущих
type MoveReservationRequest struct {
	NewTableIDs []int64 `json:"newTableIds"`
	NewDate     *string `json:"newDate,omitempty"` // "2026-09-01"
	NewSlotID   *int64  `json:"newSlotId,omitempty"`
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
	Status          string  `json:"status"`
	GroupID         *string `json:"groupId,omitempty"`
	CustomStartTime *string `json:"customStartTime,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// MoveReservationResponse HTTP response model
type MoveReservationResponse struct {
	GroupID      *string               `json:"groupId,omitempty"`
	Reservations []ReservationResponse `json:"reservations"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *MoveReservationRequest) ToUseCaseRequest(restaurantID, reservationID int64) (*moveReservation.Request, error) {
	req := &moveReservation.Request{
		RestaurantID:  restaurantID,
		ReservationID: reservationID,
		NewTableIDs:   r.NewTableIDs,
		NewSlotID:     r.NewSlotID,
	}
	if r.NewDate != nil {
		date, err := time.Parse(domain.DateFormat, *r.NewDate)
		if err != nil {
			return nil, err
		}
		req.NewDate = &date
	}
	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *moveReservation.Response) *MoveReservationResponse {
	out := &MoveReservationResponse{
		GroupID:      resp.GroupID,
		Reservations: make([]ReservationResponse, 0, len(resp.Reservations)),
	}
	for _, r := range resp.Reservations {
		item := ReservationResponse{
			ID:            r.ID,
			RestaurantID:  r.RestaurantID,
			TableID:       r.TableID,
			SlotID:        r.SlotID,
			Date:          r.ReservationDate.Format(domain.DateFormat),
			CustomerName:  r.CustomerName,
			CustomerPhone: r.CustomerPhone,
			AdultCount:    r.AdultCount,
			KidsCount:     r.KidsCount,
			Status:        r.Status,
			GroupID:       r.GroupID,
			CreatedAt:     r.CreatedAt.Format(time.RFC3339),
			UpdatedAt:     r.UpdatedAt.Format(time.RFC3339),
		}
		if r.CustomStartTime != nil {
			s := r.CustomStartTime.String()
			item.CustomStartTime = &s
		}
		out.Reservations = append(out.Reservations, item)
	}
	return out
}
