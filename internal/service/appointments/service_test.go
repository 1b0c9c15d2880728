package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnela/gabinete-booking/internal/domain"
	appointmentRepo "github.com/arnela/gabinete-booking/internal/infra/storage/appointment"
	"github.com/arnela/gabinete-booking/internal/service/appointments/models"
	"github.com/arnela/gabinete-booking/pkg/logger"
	"github.com/arnela/gabinete-booking/pkg/ptr"
)

var now = time.Date(2025, 11, 24, 8, 0, 0, 0, time.UTC)

type fixedTime struct{}

func (fixedTime) Now() time.Time { return now }

type fakeRepo struct {
	items     map[string]*domain.Appointment
	cancelled []string
	reasons   []string
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*domain.Appointment, error) {
	a, ok := f.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeRepo) List(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	out := make([]*domain.Appointment, 0)
	for _, a := range f.items {
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeRepo) Confirm(_ context.Context, id string, notes *string, at time.Time) (*domain.Appointment, error) {
	a := f.items[id]
	a.Status = domain.StatusConfirmed
	a.Notes = notes
	a.ConfirmedAt = &at
	return a, nil
}

func (f *fakeRepo) Cancel(_ context.Context, id string, reason string, at time.Time) (*domain.Appointment, error) {
	f.cancelled = append(f.cancelled, id)
	f.reasons = append(f.reasons, reason)
	a := f.items[id]
	a.Status = domain.StatusCancelled
	a.CancelledAt = &at
	return a, nil
}

type fakeClients struct{ calls int }

func (f *fakeClients) Search(_ context.Context, term string, _ int) ([]*domain.Client, error) {
	f.calls++
	return []*domain.Client{{ID: "c-1", FirstName: "Marta", LastName: "López", DNI: "1", Email: "m@example.com"}}, nil
}

type fakeEmployees struct{ err error }

func (f fakeEmployees) List(_ context.Context, _ bool) ([]*domain.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*domain.Employee{{ID: "e-1", Name: "Ana", Specialty: "Psicología", IsActive: true}}, nil
}

type passTx struct{}

func (passTx) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
func (passTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
func (passTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

func newService(repo *fakeRepo, clients *fakeClients) *Service {
	s := NewService(repo, clients, fakeEmployees{}, passTx{}, logger.Nop())
	s.timeProvider = fixedTime{}
	return s
}

func appointment(id string, status domain.AppointmentStatus, start time.Time) *domain.Appointment {
	a := &domain.Appointment{ID: id, Status: status, StartTime: start, DurationMinutes: 60}
	a.Normalize()
	return a
}

func TestConfirm(t *testing.T) {
	repo := &fakeRepo{items: map[string]*domain.Appointment{
		"pending":   appointment("pending", domain.StatusPending, now.Add(24*time.Hour)),
		"confirmed": appointment("confirmed", domain.StatusConfirmed, now.Add(24*time.Hour)),
	}}
	svc := newService(repo, &fakeClients{})

	resp, err := svc.Confirm(context.Background(), "pending", &models.ConfirmRequest{Notes: ptr.Ptr("  traer informe ")})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, "traer informe", *resp.Notes)
	require.NotNil(t, resp.ConfirmedAt)
	assert.Equal(t, now, *resp.ConfirmedAt)

	_, err = svc.Confirm(context.Background(), "confirmed", &models.ConfirmRequest{})
	assert.ErrorIs(t, err, ErrCannotConfirm)

	_, err = svc.Confirm(context.Background(), "missing", &models.ConfirmRequest{})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCancel(t *testing.T) {
	repo := &fakeRepo{items: map[string]*domain.Appointment{
		"future":      appointment("future", domain.StatusConfirmed, now.Add(time.Hour)),
		"rescheduled": appointment("rescheduled", domain.StatusRescheduled, now.Add(time.Hour)),
		"past":        appointment("past", domain.StatusPending, now.Add(-time.Hour)),
		"done":        appointment("done", domain.StatusCompleted, now.Add(time.Hour)),
	}}
	svc := newService(repo, &fakeClients{})

	resp, err := svc.Cancel(context.Background(), "future", &models.CancelRequest{Reason: "  enfermedad "})
	require.NoError(t, err)
	assert.Equal(t, "Cita cancelada correctamente", resp.Message)
	assert.Equal(t, []string{"enfermedad"}, repo.reasons)

	_, err = svc.Cancel(context.Background(), "rescheduled", &models.CancelRequest{Reason: "viaje"})
	assert.NoError(t, err)

	_, err = svc.Cancel(context.Background(), "past", &models.CancelRequest{Reason: "tarde"})
	assert.ErrorIs(t, err, ErrCannotCancel)

	_, err = svc.Cancel(context.Background(), "done", &models.CancelRequest{Reason: "x"})
	assert.ErrorIs(t, err, ErrCannotCancel)

	assert.Equal(t, []string{"future", "rescheduled"}, repo.cancelled)
}

func TestCancel_EmptyReasonNeverReachesRepository(t *testing.T) {
	repo := &fakeRepo{items: map[string]*domain.Appointment{
		"future": appointment("future", domain.StatusConfirmed, now.Add(time.Hour)),
	}}
	svc := newService(repo, &fakeClients{})

	_, err := svc.Cancel(context.Background(), "future", &models.CancelRequest{Reason: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, repo.cancelled)
}

func TestList(t *testing.T) {
	repo := &fakeRepo{items: map[string]*domain.Appointment{
		"a": appointment("a", domain.StatusPending, now.Add(time.Hour)),
		"b": appointment("b", domain.StatusCancelled, now.Add(2*time.Hour)),
	}}
	svc := newService(repo, &fakeClients{})

	list, err := svc.List(context.Background(), &models.ListRequest{Status: ptr.Ptr("pending")})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].ID)

	_, err = svc.List(context.Background(), &models.ListRequest{Status: ptr.Ptr("unknown")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	from := now
	to := now.Add(-time.Hour)
	_, err = svc.List(context.Background(), &models.ListRequest{From: &from, To: &to})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSearchClients(t *testing.T) {
	clients := &fakeClients{}
	svc := newService(&fakeRepo{}, clients)

	result, err := svc.SearchClients(context.Background(), " m ")
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.Zero(t, clients.calls)

	result, err = svc.SearchClients(context.Background(), "mar")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Marta López", result[0].Name)
}

func TestListEmployees_Error(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeClients{}, fakeEmployees{err: errors.New("db")}, passTx{}, logger.Nop())

	_, err := svc.ListEmployees(context.Background(), true)
	assert.ErrorIs(t, err, ErrInternal)
}
