package move_reservation

import "errors"

var (
	// ErrInvalidInput невалидные входные данные
	ErrInvalidInput = errors.New("move_reservation: invalid input")

	// ErrReservationNotFound бронирование не найдено или принадлежит другому ресторану
	ErrReservationNotFound = errors.New("move_reservation: reservation not found")

	// ErrReservationCancelled бронирование уже отменено
	ErrReservationCancelled = errors.New("move_reservation: reservation is cancelled")

	// ErrSlotNotFound целевой слот не найден или принадлежит другому ресторану
	ErrSlotNotFound = errors.New("move_reservation: slot not found")

	// ErrSlotNotAvailable целевой слот неактивен или не действует на дату
	ErrSlotNotAvailable = errors.New("move_reservation: slot not available on this date")

	// ErrTableNotFound целевой стол не найден или принадлежит другому ресторану
	ErrTableNotFound = errors.New("move_reservation: table not found")

	// ErrTableConflict целевой стол уже занят в этом слоте на эту дату
	ErrTableConflict = errors.New("move_reservation: table already booked for this slot")

	// ErrTableCountMismatch число целевых столов не совпадает с размером группы
	ErrTableCountMismatch = errors.New("move_reservation: table count does not match group size")

	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("move_reservation: internal error")
)
