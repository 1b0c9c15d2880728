package get_available_slots

import "errors"

var (
	// ErrProviderNotFound возвращается, когда специалист не найден или неактивен
	ErrProviderNotFound = errors.New("get_available_slots: provider not found")

	// ErrInvalidDate возвращается для прошедшей даты или даты за горизонтом записи
	ErrInvalidDate = errors.New("get_available_slots: invalid date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
