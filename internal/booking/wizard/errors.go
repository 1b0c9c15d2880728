package wizard

import "errors"

var (
	// ErrInvalidTransition событие недопустимо в текущем шаге
	ErrInvalidTransition = errors.New("wizard: invalid transition")

	// ErrUnknownVariant неизвестный вариант мастера
	ErrUnknownVariant = errors.New("wizard: unknown variant")
)
