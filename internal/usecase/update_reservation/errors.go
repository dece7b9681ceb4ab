package update_reservation

import "errors"

var (
	// ErrInvalidInput невалидные входные данные
	ErrInvalidInput = errors.New("update_reservation: invalid input")

	// ErrReservationNotFound бронирование не найдено или принадлежит другому ресторану
	ErrReservationNotFound = errors.New("update_reservation: reservation not found")

	// ErrReservationCancelled бронирование уже отменено
	ErrReservationCancelled = errors.New("update_reservation: reservation is cancelled")

	// ErrNoFieldsToUpdate в запросе нет ни одного поля для обновления
	ErrNoFieldsToUpdate = errors.New("update_reservation: no fields to update")

	// ErrTableNotFound стол не найден или принадлежит другому ресторану
	ErrTableNotFound = errors.New("update_reservation: table not found")

	// ErrTableConflict стол уже занят в этом слоте на эту дату
	ErrTableConflict = errors.New("update_reservation: table already booked for this slot")

	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("update_reservation: internal error")
)
