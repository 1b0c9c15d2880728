package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnela/gabinete-booking/internal/domain"
	employeeRepo "github.com/arnela/gabinete-booking/internal/infra/storage/employee"
	"github.com/arnela/gabinete-booking/pkg/logger"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeEmployees struct {
	employees map[string]*domain.Employee
	err       error
}

func (f *fakeEmployees) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.employees[id]
	if !ok {
		return nil, employeeRepo.ErrEmployeeNotFound
	}
	return e, nil
}

type fakeAppointments struct {
	appointments []*domain.Appointment
	lastFilter   domain.AppointmentsFilter
	err          error
}

func (f *fakeAppointments) List(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	f.lastFilter = filter
	return f.appointments, f.err
}

// понедельник 24.11.2025, 08:00 UTC
var monday = time.Date(2025, 11, 24, 8, 0, 0, 0, time.UTC)

func newUseCase(t *testing.T, appointments *fakeAppointments, minNotice int) *UseCase {
	t.Helper()
	schedule, err := domain.NewClinicSchedule(time.UTC, "09:00", "13:00", 30, minNotice)
	require.NoError(t, err)

	employees := &fakeEmployees{employees: map[string]*domain.Employee{
		"p-1":      {ID: "p-1", Name: "Ana", IsActive: true},
		"inactive": {ID: "inactive", Name: "Luis", IsActive: false},
	}}

	uc := NewUseCase(appointments, employees, schedule, logger.Nop())
	uc.timeProvider = fixedTime{now: monday}
	return uc
}

func appointmentAt(h, m, minutes int, status domain.AppointmentStatus) *domain.Appointment {
	a := &domain.Appointment{
		ID:              "a",
		ProviderID:      "p-1",
		StartTime:       time.Date(2025, 11, 24, h, m, 0, 0, time.UTC),
		DurationMinutes: minutes,
		Status:          status,
	}
	a.Normalize()
	return a
}

func TestExecute_FreeDay(t *testing.T) {
	uc := newUseCase(t, &fakeAppointments{}, 0)

	resp, err := uc.Execute(context.Background(), &Request{ProviderID: "p-1", Date: monday, DurationMinutes: 60})
	require.NoError(t, err)

	// 09:00 .. 12:00 с шагом 30 минут, последний слот заканчивается ровно в 13:00
	require.Len(t, resp.Slots, 7)
	assert.Equal(t, time.Date(2025, 11, 24, 9, 0, 0, 0, time.UTC), resp.Slots[0])
	assert.Equal(t, time.Date(2025, 11, 24, 12, 0, 0, 0, time.UTC), resp.Slots[6])
}

func TestExecute_ExcludesOverlapsHalfOpen(t *testing.T) {
	appointments := &fakeAppointments{appointments: []*domain.Appointment{
		appointmentAt(10, 0, 60, domain.StatusConfirmed),
		appointmentAt(12, 0, 60, domain.StatusCancelled),
	}}
	uc := newUseCase(t, appointments, 0)

	resp, err := uc.Execute(context.Background(), &Request{ProviderID: "p-1", Date: monday, DurationMinutes: 60})
	require.NoError(t, err)

	var got []string
	for _, s := range resp.Slots {
		got = append(got, s.Format("15:04"))
	}
	// 09:00 заканчивается ровно в 10:00 и не пересекается; отменённая запись слот не занимает
	assert.Equal(t, []string{"09:00", "11:00", "11:30", "12:00"}, got)

	assert.True(t, appointments.lastFilter.ActiveOnly)
	assert.Equal(t, "p-1", *appointments.lastFilter.ProviderID)
}

func TestExecute_MinNotice(t *testing.T) {
	uc := newUseCase(t, &fakeAppointments{}, 120)

	resp, err := uc.Execute(context.Background(), &Request{ProviderID: "p-1", Date: monday, DurationMinutes: 45})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, time.Date(2025, 11, 24, 10, 0, 0, 0, time.UTC), resp.Slots[0])
}

func TestExecute_Weekend(t *testing.T) {
	uc := newUseCase(t, &fakeAppointments{}, 0)

	resp, err := uc.Execute(context.Background(), &Request{
		ProviderID: "p-1", Date: monday.AddDate(0, 0, 5), DurationMinutes: 60,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.NotNil(t, resp.Slots)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name string
		req  *Request
		want error
	}{
		{"empty provider", &Request{Date: monday, DurationMinutes: 60}, ErrInvalidInput},
		{"bad duration", &Request{ProviderID: "p-1", Date: monday, DurationMinutes: 30}, ErrInvalidInput},
		{"past date", &Request{ProviderID: "p-1", Date: monday.AddDate(0, 0, -3), DurationMinutes: 60}, ErrInvalidDate},
		{"beyond horizon", &Request{ProviderID: "p-1", Date: monday.AddDate(0, 7, 0), DurationMinutes: 60}, ErrInvalidDate},
		{"unknown provider", &Request{ProviderID: "nope", Date: monday, DurationMinutes: 60}, ErrProviderNotFound},
		{"inactive provider", &Request{ProviderID: "inactive", Date: monday, DurationMinutes: 60}, ErrProviderNotFound},
	}

	uc := newUseCase(t, &fakeAppointments{}, 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExecute_RepositoryFailure(t *testing.T) {
	uc := newUseCase(t, &fakeAppointments{err: errors.New("db down")}, 0)

	_, err := uc.Execute(context.Background(), &Request{ProviderID: "p-1", Date: monday, DurationMinutes: 60})
	assert.ErrorIs(t, err, ErrInternal)
}
