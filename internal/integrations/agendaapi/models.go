package agendaapi

import (
	"time"

	"github.com/arnela/gabinete-booking/internal/domain"
)

// Appointment модель записи в agenda API
type Appointment struct {
	ID                 string     `json:"id"`
	ClientID           string     `json:"clientId"`
	ProviderID         string     `json:"providerId"`
	Title              string     `json:"title"`
	Description        *string    `json:"description,omitempty"`
	Room               *string    `json:"room,omitempty"`
	StartTime          time.Time  `json:"startTime"`
	EndTime            time.Time  `json:"endTime"`
	DurationMinutes    int        `json:"durationMinutes"`
	Status             string     `json:"status"`
	Notes              *string    `json:"notes,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	ConfirmedAt        *time.Time `json:"confirmedAt,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CreatedBy          string     `json:"createdBy"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// ToDomain конвертирует ответ API в доменную модель; EndTime пересчитывается
func (a *Appointment) ToDomain() domain.Appointment {
	result := domain.Appointment{
		ID:                 a.ID,
		ClientID:           a.ClientID,
		ProviderID:         a.ProviderID,
		Title:              a.Title,
		Description:        a.Description,
		Room:               a.Room,
		StartTime:          a.StartTime,
		DurationMinutes:    a.DurationMinutes,
		Status:             domain.AppointmentStatus(a.Status),
		Notes:              a.Notes,
		CancellationReason: a.CancellationReason,
		ConfirmedAt:        a.ConfirmedAt,
		CancelledAt:        a.CancelledAt,
		CreatedBy:          a.CreatedBy,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
	result.Normalize()
	return result
}

type SlotsResponse struct {
	Slots []time.Time `json:"slots"`
}

type CreateAppointmentRequest struct {
	ClientID        *string   `json:"clientId,omitempty"`
	ProviderID      string    `json:"providerId"`
	Title           string    `json:"title"`
	Description     *string   `json:"description,omitempty"`
	Room            *string   `json:"room,omitempty"`
	StartTime       time.Time `json:"startTime"`
	DurationMinutes int       `json:"durationMinutes"`
}

type ConfirmRequest struct {
	Notes *string `json:"notes,omitempty"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ClientSummary результат поиска клиента
type ClientSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	DNI   string `json:"dni"`
	Email string `json:"email"`
}

type Employee struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	IsActive  bool   `json:"isActive"`
}

// ErrorResponse модель ошибки от agenda API
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
