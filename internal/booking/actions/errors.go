package actions

import "errors"

var (
	// ErrAppointmentNotLoaded запись отсутствует в хранилище сессии
	ErrAppointmentNotLoaded = errors.New("actions: appointment is not loaded")

	// ErrCannotConfirm подтвердить можно только ожидающую запись
	ErrCannotConfirm = errors.New("actions: appointment cannot be confirmed")

	// ErrCannotCancel запись в терминальном статусе или уже началась
	ErrCannotCancel = errors.New("actions: appointment cannot be cancelled")

	// ErrActionInProgress предыдущее изменение статуса еще выполняется
	ErrActionInProgress = errors.New("actions: another status change is in progress")

	// ErrNotCommitted сервер не подтвердил изменение, состояние откатено
	ErrNotCommitted = errors.New("actions: change was rolled back")
)
