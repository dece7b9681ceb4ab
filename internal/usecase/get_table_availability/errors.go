package get_table_availability

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден или принадлежит другому ресторану
	ErrSlotNotFound = errors.New("get_table_availability: slot not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_table_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_table_availability: internal error")
)
