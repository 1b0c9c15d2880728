package create_appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnela/gabinete-booking/internal/domain"
	"github.com/arnela/gabinete-booking/internal/infra/lock"
	clientRepo "github.com/arnela/gabinete-booking/internal/infra/storage/client"
	employeeRepo "github.com/arnela/gabinete-booking/internal/infra/storage/employee"
	"github.com/arnela/gabinete-booking/pkg/logger"
	"github.com/arnela/gabinete-booking/pkg/ptr"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeAppointments struct {
	existing []*domain.Appointment
	created  []*domain.Appointment
	listErr  error
}

func (f *fakeAppointments) List(_ context.Context, _ domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	return f.existing, f.listErr
}

func (f *fakeAppointments) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	f.created = append(f.created, a)
	return a, nil
}

type fakeEmployees struct{}

func (fakeEmployees) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	if id != "p-1" {
		return nil, employeeRepo.ErrEmployeeNotFound
	}
	return &domain.Employee{ID: "p-1", IsActive: true}, nil
}

type fakeClients struct{}

func (fakeClients) GetByID(_ context.Context, id string) (*domain.Client, error) {
	if id != "c-1" {
		return nil, clientRepo.ErrClientNotFound
	}
	return &domain.Client{ID: "c-1", IsActive: true}, nil
}

func (fakeClients) GetByUserID(_ context.Context, userID string) (*domain.Client, error) {
	if userID != "user-portal" {
		return nil, clientRepo.ErrClientNotFound
	}
	return &domain.Client{ID: "c-portal", UserID: ptr.Ptr(userID), IsActive: true}, nil
}

type busyLocker struct{}

func (busyLocker) WithLock(context.Context, string, func(ctx context.Context) error) error {
	return lock.ErrNotAcquired
}

type passTx struct{ calls int }

func (p *passTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

// понедельник 24.11.2025, 08:15 UTC
var now = time.Date(2025, 11, 24, 8, 15, 0, 0, time.UTC)

func newUseCase(t *testing.T, appointments *fakeAppointments, locker Locker) (*UseCase, *passTx) {
	t.Helper()
	schedule, err := domain.NewClinicSchedule(time.UTC, "09:00", "20:00", 30, 60)
	require.NoError(t, err)

	tx := &passTx{}
	uc := NewUseCase(appointments, fakeEmployees{}, fakeClients{}, locker, tx, schedule, logger.Nop())
	uc.timeProvider = fixedTime{now: now}
	return uc, tx
}

func validRequest() *Request {
	return &Request{
		UserID:          "user-portal",
		ProviderID:      "p-1",
		Title:           "  Primera sesión ",
		StartTime:       time.Date(2025, 11, 24, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 45,
	}
}

func TestExecute_CreatesPendingForLinkedClient(t *testing.T) {
	appointments := &fakeAppointments{}
	uc, tx := newUseCase(t, appointments, lock.Noop{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	a := resp.Appointment
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "c-portal", a.ClientID)
	assert.Equal(t, "Primera sesión", a.Title)
	assert.Equal(t, domain.StatusPending, a.Status)
	assert.Equal(t, "user-portal", a.CreatedBy)
	assert.Equal(t, time.Date(2025, 11, 24, 10, 45, 0, 0, time.UTC), a.EndTime)
	assert.Equal(t, 1, tx.calls)
	assert.Len(t, appointments.created, 1)
}

func TestExecute_ExplicitClient(t *testing.T) {
	uc, _ := newUseCase(t, &fakeAppointments{}, lock.Noop{})
	req := validRequest()
	req.UserID = "user-staff"
	req.ClientID = ptr.Ptr("c-1")
	req.Room = ptr.Ptr("Sala 2")

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "c-1", resp.Appointment.ClientID)
	assert.Equal(t, "Sala 2", *resp.Appointment.Room)
}

func TestExecute_Overlap(t *testing.T) {
	existing := &domain.Appointment{
		ProviderID:      "p-1",
		StartTime:       time.Date(2025, 11, 24, 9, 30, 0, 0, time.UTC),
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
	}
	appointments := &fakeAppointments{existing: []*domain.Appointment{existing}}
	uc, _ := newUseCase(t, appointments, lock.Noop{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Empty(t, appointments.created)

	// запись, заканчивающаяся ровно в начале нового приёма, не мешает
	existing.DurationMinutes = 30
	_, err = uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_CancelledDoesNotBlock(t *testing.T) {
	appointments := &fakeAppointments{existing: []*domain.Appointment{{
		ProviderID:      "p-1",
		StartTime:       time.Date(2025, 11, 24, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Status:          domain.StatusCancelled,
	}}}
	uc, _ := newUseCase(t, appointments, lock.Noop{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
		want   error
	}{
		{"empty title", func(r *Request) { r.Title = "   " }, domain.ErrValidation},
		{"bad duration", func(r *Request) { r.DurationMinutes = 50 }, ErrInvalidInput},
		{"weekend", func(r *Request) { r.StartTime = time.Date(2025, 11, 29, 10, 0, 0, 0, time.UTC) }, ErrInvalidDate},
		{"past", func(r *Request) { r.StartTime = time.Date(2025, 11, 21, 10, 0, 0, 0, time.UTC) }, ErrInvalidDate},
		{"off grid", func(r *Request) { r.StartTime = time.Date(2025, 11, 24, 10, 10, 0, 0, time.UTC) }, ErrInvalidTimeSlot},
		{"after closing", func(r *Request) { r.StartTime = time.Date(2025, 11, 24, 19, 30, 0, 0, time.UTC) }, ErrInvalidTimeSlot},
		{"min notice", func(r *Request) { r.StartTime = time.Date(2025, 11, 24, 9, 0, 0, 0, time.UTC) }, ErrTooLateToBook},
		{"unknown provider", func(r *Request) { r.ProviderID = "p-x" }, ErrProviderNotFound},
		{"no linked client", func(r *Request) { r.UserID = "stranger" }, ErrClientNotFound},
		{"unknown client", func(r *Request) { r.ClientID = ptr.Ptr("c-x") }, ErrClientNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appointments := &fakeAppointments{}
			uc, _ := newUseCase(t, appointments, lock.Noop{})
			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, appointments.created)
		})
	}
}

func TestExecute_ScheduleLocked(t *testing.T) {
	uc, tx := newUseCase(t, &fakeAppointments{}, busyLocker{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrScheduleBusy)
	assert.Zero(t, tx.calls)
}

func TestExecute_RepositoryFailure(t *testing.T) {
	uc, _ := newUseCase(t, &fakeAppointments{listErr: errors.New("db down")}, lock.Noop{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInternal)
}
