package create_appointment

import (
	"time"

	"github.com/arnela/gabinete-booking/internal/domain"
)

// Request модель запроса на создание записи
type Request struct {
	UserID          string  // пользователь, создающий запись (X-User-ID)
	ClientID        *string // nil: клиент, связанный с пользователем
	ProviderID      string
	Title           string
	Description     *string
	Room            *string
	StartTime       time.Time
	DurationMinutes int
}

// Response модель ответа с созданной записью
type Response struct {
	Appointment *domain.Appointment
}
