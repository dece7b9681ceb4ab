package create_reservation

import (
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	RestaurantID  int64     // ID ресторана (из заголовка авторизации)
	TableID       int64     // Основной стол
	MergeTableIDs []int64   // Дополнительные столы для объединения (опционально)
	SlotID        int64     // ID слота
	Date          time.Time // Дата бронирования (без времени)

	CustomerName  string // Имя гостя
	CustomerPhone string // Телефон гостя
	AdultCount    int    // Количество взрослых
	KidsCount     int    // Количество детей

	FoodPreference *string // Предпочтения по еде (опционально)
	SpecialRequest *string // Особые пожелания (опционально)

	// Кастомное время начала внутри слота, "HH:MM", шаг 15 минут (опционально)
	CustomStartTime *string
}

// ReservationData данные одной строки бронирования в ответе
type ReservationData struct {
	ID              int64
	RestaurantID    int64
	TableID         int64
	SlotID          int64
	ReservationDate time.Time
	CustomerName    string
	CustomerPhone   string
	AdultCount      int
	KidsCount       int
	FoodPreference  *string
	SpecialRequest  *string
	Status          string
	GroupID         *string
	CustomStartTime *types.TimeString
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Response модель ответа с созданным бронированием
// Для объединённых столов возвращаются все строки группы
type Response struct {
	GroupID      *string
	Reservations []ReservationData
}

func toReservationData(r *domain.Reservation) ReservationData {
	return ReservationData{
		ID:              r.ID,
		RestaurantID:    r.RestaurantID,
		TableID:         r.TableID,
		SlotID:          r.SlotID,
		ReservationDate: r.ReservationDate,
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		AdultCount:      r.AdultCount,
		KidsCount:       r.KidsCount,
		FoodPreference:  r.FoodPreference,
		SpecialRequest:  r.SpecialRequest,
		Status:          string(r.Status),
		GroupID:         r.GroupID,
		CustomStartTime: r.CustomStartTime,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func toResponse(reservations []*domain.Reservation) *Response {
	resp := &Response{
		Reservations: make([]ReservationData, 0, len(reservations)),
	}
	for _, r := range reservations {
		resp.Reservations = append(resp.Reservations, toReservationData(r))
	}
	if len(reservations) > 0 {
		resp.GroupID = reservations[0].GroupID
	}
	return resp
}
