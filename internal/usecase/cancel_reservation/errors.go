package cancel_reservation

import "errors"

var (
	// ErrInvalidInput невалидные входные данные
	ErrInvalidInput = errors.New("cancel_reservation: invalid input")

	// ErrReservationNotFound бронирование не найдено или принадлежит другому ресторану
	ErrReservationNotFound = errors.New("cancel_reservation: reservation not found")

	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("cancel_reservation: internal error")
)
