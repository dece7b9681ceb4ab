package cancel_reservation

import (
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	cancelReservation "github.com/m04kA/RST-ReservationService/internal/usecase/cancel_reservation"
)

// CancelReservationRequest HTTP request model
type CancelReservationRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// CancelledReservationResponse HTTP response model одной строки бронирования
type CancelledReservationResponse struct {
	ID                 int64   `json:"id"`
	TableID            int64   `json:"tableId"`
	SlotID             int64   `json:"slotId"`
	Date               string  `json:"date"`
	Status             string  `json:"status"`
	GroupID            *string `json:"groupId,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`
}

// CancelReservationResponse HTTP response model
type CancelReservationResponse struct {
	GroupID          *string                        `json:"groupId,omitempty"`
	AlreadyCancelled bool                           `json:"alreadyCancelled"`
	Reservations     []CancelledReservationResponse `json:"reservations"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelReservation.Response) *CancelReservationResponse {
	out := &CancelReservationResponse{
		GroupID:          resp.GroupID,
		AlreadyCancelled: resp.AlreadyCancelled,
		Reservations:     make([]CancelledReservationResponse, 0, len(resp.Reservations)),
	}
	for _, r := range resp.Reservations {
		item := CancelledReservationResponse{
			ID:                 r.ID,
			TableID:            r.TableID,
			SlotID:             r.SlotID,
			Date:               r.ReservationDate.Format(domain.DateFormat),
			Status:             r.Status,
			GroupID:            r.GroupID,
			CancellationReason: r.CancellationReason,
		}
		if r.CancelledAt != nil {
			s := r.CancelledAt.Format(time.RFC3339)
			item.CancelledAt = &s
		}
		out.Reservations = append(out.Reservations, item)
	}
	return out
}
