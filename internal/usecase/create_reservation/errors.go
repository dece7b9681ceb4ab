package create_reservation

import "errors"

var (
	// ErrInvalidInput невалидные входные данные
	ErrInvalidInput = errors.New("create_reservation: invalid input")

	// ErrSlotNotFound слот не найден или принадлежит другому ресторану
	ErrSlotNotFound = errors.New("create_reservation: slot not found")

	// ErrSlotNotAvailable слот неактивен или не действует на запрошенную дату
	ErrSlotNotAvailable = errors.New("create_reservation: slot not available on this date")

	// ErrTableNotFound стол не найден или принадлежит другому ресторану
	ErrTableNotFound = errors.New("create_reservation: table not found")

	// ErrTableConflict стол уже занят в этом слоте на эту дату
	ErrTableConflict = errors.New("create_reservation: table already booked for this slot")

	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("create_reservation: internal error")
)
