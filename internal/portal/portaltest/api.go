// Package portaltest содержит agenda API в памяти для тестов портала.
package portaltest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arnela/gabinete-booking/internal/domain"
)

// API agenda API в памяти
// Err, если задана, возвращается любым методом
type API struct {
	mu           sync.Mutex
	UserID       string
	Slots        map[string][]time.Time // по providerID
	Clients      []domain.ClientSummary
	Employees    []domain.Employee
	Appointments map[string]domain.Appointment
	Err          error
}

func NewAPI(userID string) *API {
	return &API{
		UserID:       userID,
		Slots:        make(map[string][]time.Time),
		Appointments: make(map[string]domain.Appointment),
	}
}

// Put добавляет запись в хранилище API
func (a *API) Put(appt domain.Appointment) {
	a.mu.Lock()
	defer a.mu.Unlock()
	appt.Normalize()
	a.Appointments[appt.ID] = appt
}

func (a *API) SetErr(err error) {
	a.mu.Lock()
	a.Err = err
	a.mu.Unlock()
}

func (a *API) GetAvailableSlots(ctx context.Context, providerID string, date time.Time, durationMinutes int) ([]time.Time, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return nil, a.Err
	}
	return append([]time.Time{}, a.Slots[providerID]...), nil
}

func (a *API) SearchClients(ctx context.Context, query string) ([]domain.ClientSummary, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return nil, a.Err
	}
	return append([]domain.ClientSummary{}, a.Clients...), nil
}

func (a *API) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return nil, a.Err
	}
	return append([]domain.Employee{}, a.Employees...), nil
}

func (a *API) CreateAppointment(ctx context.Context, req domain.CreateAppointmentRequest) (*domain.Appointment, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return nil, a.Err
	}

	appt := domain.Appointment{
		ID:              uuid.NewString(),
		ProviderID:      req.ProviderID,
		Title:           req.Title,
		Description:     req.Description,
		Room:            req.Room,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Status:          domain.StatusPending,
		CreatedBy:       a.UserID,
	}
	if req.ClientID != nil {
		appt.ClientID = *req.ClientID
	}
	appt.Normalize()
	a.Appointments[appt.ID] = appt
	return &appt, nil
}

func (a *API) GetAppointment(ctx context.Context, id string) (*domain.Appointment, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return nil, a.Err
	}
	appt, ok := a.Appointments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &appt, nil
}

func (a *API) ListAppointments(ctx context.Context, filter domain.AppointmentsFilter) ([]domain.Appointment, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return nil, a.Err
	}

	list := make([]domain.Appointment, 0, len(a.Appointments))
	for _, appt := range a.Appointments {
		if filter.ProviderID != nil && appt.ProviderID != *filter.ProviderID {
			continue
		}
		list = append(list, appt)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].StartTime.Before(list[j].StartTime) })
	return list, nil
}

func (a *API) ConfirmAppointment(ctx context.Context, id string, notes *string) (*domain.Appointment, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return nil, a.Err
	}
	appt, ok := a.Appointments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !appt.CanConfirm() {
		return nil, domain.ErrConflict
	}
	appt.Status = domain.StatusConfirmed
	appt.Notes = notes
	a.Appointments[id] = appt
	return &appt, nil
}

func (a *API) CancelAppointment(ctx context.Context, id, reason string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return "", a.Err
	}
	appt, ok := a.Appointments[id]
	if !ok {
		return "", domain.ErrNotFound
	}
	appt.Status = domain.StatusCancelled
	appt.CancellationReason = &reason
	a.Appointments[id] = appt
	return "Cita cancelada correctamente", nil
}
