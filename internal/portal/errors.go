package portal

import "errors"

var (
	// ErrSessionNotFound сессия не существует, истекла или принадлежит другому пользователю
	ErrSessionNotFound = errors.New("portal: session not found")

	// ErrInvalidInput некорректные параметры сессии
	ErrInvalidInput = errors.New("portal: invalid input")
)
