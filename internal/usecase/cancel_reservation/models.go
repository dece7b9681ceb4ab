package cancel_reservation

import (
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
)

// Request модель запроса на отмену бронирования
type Request struct {
	RestaurantID  int64   // ID ресторана (из заголовка авторизации)
	ReservationID int64   // ID любой строки бронирования (для группы - любой её член)
	Reason        *string // Причина отмены (опционально)
}

// ReservationData данные одной строки бронирования в ответе
type ReservationData struct {
	ID                 int64
	TableID            int64
	SlotID             int64
	ReservationDate    time.Time
	Status             string
	GroupID            *string
	CancellationReason *string
	CancelledAt        *time.Time
}

// Response модель ответа с отменёнными строками
// AlreadyCancelled true, когда бронь была отменена ранее и запись не менялась
type Response struct {
	GroupID          *string
	AlreadyCancelled bool
	Reservations     []ReservationData
}

func toResponse(reservations []*domain.Reservation, alreadyCancelled bool) *Response {
	resp := &Response{
		AlreadyCancelled: alreadyCancelled,
		Reservations:     make([]ReservationData, 0, len(reservations)),
	}
	for _, r := range reservations {
		resp.Reservations = append(resp.Reservations, ReservationData{
			ID:                 r.ID,
			TableID:            r.TableID,
			SlotID:             r.SlotID,
			ReservationDate:    r.ReservationDate,
			Status:             string(r.Status),
			GroupID:            r.GroupID,
			CancellationReason: r.CancellationReason,
			CancelledAt:        r.CancelledAt,
		})
	}
	if len(reservations) > 0 {
		resp.GroupID = reservations[0].GroupID
	}
	return resp
}
