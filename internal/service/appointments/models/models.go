package models

import (
	"time"

	"github.com/arnela/gabinete-booking/internal/domain"
)

// CancelledMessage ответ на успешную отмену записи
const CancelledMessage = "Cita cancelada correctamente"

// Request модели

// ConfirmRequest запрос на подтверждение записи
type ConfirmRequest struct {
	Notes *string `json:"notes,omitempty"`
}

// CancelRequest запрос на отмену записи
type CancelRequest struct {
	Reason string `json:"reason"`
}

// ListRequest фильтр списка записей; все поля опциональны
type ListRequest struct {
	ProviderID *string
	ClientID   *string
	Status     *string
	From       *time.Time
	To         *time.Time
	ActiveOnly bool
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListRequest) ToDomainFilter() (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		ProviderID: r.ProviderID,
		ClientID:   r.ClientID,
		From:       r.From,
		To:         r.To,
		ActiveOnly: r.ActiveOnly,
	}

	if r.Status != nil {
		status, err := domain.ParseStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
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

// MessageResponse текстовый ответ
type MessageResponse struct {
	Message string `json:"message"`
}

// ClientSummaryResponse краткие данные клиента
type ClientSummaryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	DNI   string `json:"dni"`
	Email string `json:"email"`
}

// EmployeeResponse данные сотрудника
type EmployeeResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	IsActive  bool   `json:"isActive"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO; время в UTC
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		ClientID:           a.ClientID,
		ProviderID:         a.ProviderID,
		Title:              a.Title,
		Description:        a.Description,
		Room:               a.Room,
		StartTime:          a.StartTime.UTC(),
		EndTime:            domain.EndTime(a.StartTime, a.DurationMinutes).UTC(),
		DurationMinutes:    a.DurationMinutes,
		Status:             string(a.Status),
		Notes:              a.Notes,
		CancellationReason: a.CancellationReason,
		CreatedBy:          a.CreatedBy,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.ConfirmedAt != nil {
		t := a.ConfirmedAt.UTC()
		resp.ConfirmedAt = &t
	}
	if a.CancelledAt != nil {
		t := a.CancelledAt.UTC()
		resp.CancelledAt = &t
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) []AppointmentResponse {
	resp := make([]AppointmentResponse, 0, len(appointments))
	for _, a := range appointments {
		if r := FromDomainAppointment(a); r != nil {
			resp = append(resp, *r)
		}
	}
	return resp
}

// FromDomainClients конвертирует клиентов в краткий формат поиска
func FromDomainClients(clients []*domain.Client) []ClientSummaryResponse {
	resp := make([]ClientSummaryResponse, 0, len(clients))
	for _, c := range clients {
		s := c.Summary()
		resp = append(resp, ClientSummaryResponse{ID: s.ID, Name: s.Name, DNI: s.DNI, Email: s.Email})
	}
	return resp
}

// FromDomainEmployees конвертирует сотрудников в DTO
func FromDomainEmployees(employees []*domain.Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		resp = append(resp, EmployeeResponse{ID: e.ID, Name: e.Name, Specialty: e.Specialty, IsActive: e.IsActive})
	}
	return resp
}
