package slots

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден или принадлежит другому ресторану
	// Чужой слот неотличим от несуществующего, чтобы не раскрывать чужие данные
	ErrSlotNotFound = errors.New("slots: slot not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("slots: invalid input data")

	// ErrPartialCreate возвращается, когда создана только часть слотов из пакета
	// Создание по дням независимо и не откатывается как единое целое
	ErrPartialCreate = errors.New("slots: batch create failed partway")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("slots: internal error")
)
