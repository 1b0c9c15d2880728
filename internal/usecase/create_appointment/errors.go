package create_appointment

import "errors"

var (
	// ErrProviderNotFound возвращается, когда специалист не найден или неактивен
	ErrProviderNotFound = errors.New("create_appointment: provider not found")

	// ErrClientNotFound возвращается, когда клиент не найден или у пользователя нет карточки клиента
	ErrClientNotFound = errors.New("create_appointment: client not found")

	// ErrInvalidDate возвращается для выходных, прошедших дат и дат за горизонтом записи
	ErrInvalidDate = errors.New("create_appointment: invalid appointment date")

	// ErrInvalidTimeSlot возвращается, когда время вне рабочих часов или не на сетке слотов
	ErrInvalidTimeSlot = errors.New("create_appointment: invalid time slot")

	// ErrTooLateToBook возвращается, когда до начала приёма меньше минимального уведомления
	ErrTooLateToBook = errors.New("create_appointment: too late to book this slot")

	// ErrSlotNotAvailable возвращается, когда слот пересекается с активной записью специалиста
	ErrSlotNotAvailable = errors.New("create_appointment: slot is not available")

	// ErrScheduleBusy возвращается, когда расписание специалиста заблокировано параллельной записью
	ErrScheduleBusy = errors.New("create_appointment: schedule is busy")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
