package create_appointment

import (
	"time"

	createAppointment "github.com/arnela/gabinete-booking/internal/usecase/create_appointment"
	"github.com/arnela/gabinete-booking/internal/service/appointments/models"
)

// CreateAppointmentRequest HTTP модель запроса
type CreateAppointmentRequest struct {
	ClientID        *string   `json:"clientId,omitempty"`
	ProviderID      string    `json:"providerId"`
	Title           string    `json:"title"`
	Description     *string   `json:"description,omitempty"`
	Room            *string   `json:"room,omitempty"`
	StartTime       time.Time `json:"startTime"`
	DurationMinutes int       `json:"durationMinutes"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(userID string) *createAppointment.Request {
	return &createAppointment.Request{
		UserID:          userID,
		ClientID:        r.ClientID,
		ProviderID:      r.ProviderID,
		Title:           r.Title,
		Description:     r.Description,
		Room:            r.Room,
		StartTime:       r.StartTime,
		DurationMinutes: r.DurationMinutes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *models.AppointmentResponse {
	return models.FromDomainAppointment(resp.Appointment)
}
