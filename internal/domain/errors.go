package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Классы ошибок, которые видит клиентская часть
var (
	// ErrValidation локальное предусловие не выполнено, до сети не доходит
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized сессия отсутствует или недействительна
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTransient сетевой сбой или 5xx
	ErrTransient = errors.New("transient failure")

	// ErrConflict например, слот уже занят
	ErrConflict = errors.New("conflict")

	// ErrNotFound сущность не найдена
	ErrNotFound = errors.New("not found")
)

// ValidationError ошибка валидации конкретного поля
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is позволяет проверять errors.Is(err, ErrValidation)
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ValidateTitle проверяет, что заголовок не пуст после trim
func ValidateTitle(title string) error {
	t := strings.TrimSpace(title)
	if t == "" {
		return NewValidationError("title", "el título es obligatorio")
	}
	if len([]rune(t)) > MaxTitleLength {
		return NewValidationError("title", fmt.Sprintf("el título no puede superar %d caracteres", MaxTitleLength))
	}
	return nil
}

// ValidateDuration допускает только 45 или 60 минут
func ValidateDuration(minutes int) error {
	if !IsAllowedDuration(minutes) {
		return NewValidationError("durationMinutes", "la duración debe ser de 45 o 60 minutos")
	}
	return nil
}

// ValidateCancellationReason требует непустую причину отмены после trim
func ValidateCancellationReason(reason string) error {
	r := strings.TrimSpace(reason)
	if r == "" {
		return NewValidationError("reason", "el motivo de cancelación es obligatorio")
	}
	if len([]rune(r)) > MaxCancellationReasonLength {
		return NewValidationError("reason", fmt.Sprintf("el motivo no puede superar %d caracteres", MaxCancellationReasonLength))
	}
	return nil
}

// UserMessage сообщение об ошибке для пользователя
func UserMessage(err error) string {
	var vErr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &vErr):
		return vErr.Message
	case errors.Is(err, ErrUnauthorized):
		return "Tu sesión ha expirado, vuelve a iniciar sesión"
	case errors.Is(err, ErrConflict):
		return "El horario seleccionado ya no está disponible"
	case errors.Is(err, ErrNotFound):
		return "No se ha encontrado el recurso solicitado"
	case errors.Is(err, ErrTransient):
		return "Error de conexión, inténtalo de nuevo"
	default:
		return "Ha ocurrido un error inesperado"
	}
}
