package appointment

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnela/gabinete-booking/internal/domain"
	"github.com/arnela/gabinete-booking/pkg/dbmetrics"
	"github.com/arnela/gabinete-booking/pkg/ptr"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock, db
}

var start = time.Date(2025, 11, 24, 10, 0, 0, 0, time.UTC)

func appointmentRow(id string, status domain.AppointmentStatus) *sqlmock.Rows {
	now := time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(columns).AddRow(
		id, "client-1", "provider-1", "Sesión", nil, "Sala 1",
		start, start.Add(time.Hour), 60, string(status),
		nil, nil, nil, nil, "user-1", now, now,
	)
}

func TestCreate(t *testing.T) {
	repo, mock, _ := newRepo(t)
	created := time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).
		WithArgs("a-1", "client-1", "provider-1", "Sesión", nil, nil,
			start, start.Add(45*time.Minute), 45, domain.StatusPending, "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(created, created))

	a, err := repo.Create(context.Background(), &domain.Appointment{
		ID:              "a-1",
		ClientID:        "client-1",
		ProviderID:      "provider-1",
		Title:           "Sesión",
		StartTime:       start,
		DurationMinutes: 45,
		Status:          domain.StatusPending,
		CreatedBy:       "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, start.Add(45*time.Minute), a.EndTime)
	assert.Equal(t, created, a.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM appointments WHERE deleted_at IS NULL AND id = $1")).
		WithArgs("a-1").
		WillReturnRows(appointmentRow("a-1", domain.StatusConfirmed))

	a, err := repo.GetByID(context.Background(), "a-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, a.Status)
	assert.Equal(t, "Sala 1", *a.Room)
	assert.Nil(t, a.Description)
	assert.Nil(t, a.CancelledAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectQuery("FROM appointments").WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetByID_LocksInsideTransaction(t *testing.T) {
	repo, mock, db := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM appointments .* FOR UPDATE`).
		WillReturnRows(appointmentRow("a-1", domain.StatusPending))
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	_, err = repo.GetByID(ctx, "a-1")
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_ActiveForProviderAndDay(t *testing.T) {
	repo, mock, _ := newRepo(t)
	from := time.Date(2025, 11, 24, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	mock.ExpectQuery(regexp.QuoteMeta(
		"WHERE deleted_at IS NULL AND provider_id = $1 AND status IN ($2,$3,$4,$5) AND start_time >= $6 AND start_time < $7 ORDER BY start_time ASC",
	)).
		WithArgs("provider-1", domain.StatusPending, domain.StatusConfirmed, domain.StatusRescheduled, domain.StatusCompleted, from, to).
		WillReturnRows(appointmentRow("a-1", domain.StatusPending).AddRow(
			"a-2", "client-2", "provider-1", "Otra", nil, nil,
			start.Add(2*time.Hour), start.Add(3*time.Hour), 60, "confirmed",
			"traer informe", nil, start, nil, "user-2", start, start,
		))

	list, err := repo.List(context.Background(), domain.AppointmentsFilter{
		ProviderID: ptr.Ptr("provider-1"),
		From:       &from,
		To:         &to,
		ActiveOnly: true,
	})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a-2", list[1].ID)
	assert.Equal(t, "traer informe", *list[1].Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirm(t *testing.T) {
	repo, mock, _ := newRepo(t)
	at := time.Date(2025, 11, 21, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE appointments SET status = $1, notes = $2, confirmed_at = $3, updated_at = $4")).
		WithArgs(domain.StatusConfirmed, "ok", at, at, "a-1", domain.StatusPending).
		WillReturnRows(appointmentRow("a-1", domain.StatusConfirmed))

	a, err := repo.Confirm(context.Background(), "a-1", ptr.Ptr("ok"), at)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, a.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirm_StatusConflict(t *testing.T) {
	repo, mock, _ := newRepo(t)
	at := time.Date(2025, 11, 21, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("UPDATE appointments").WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectQuery("FROM appointments").WillReturnRows(appointmentRow("a-1", domain.StatusCancelled))

	_, err := repo.Confirm(context.Background(), "a-1", nil, at)
	assert.ErrorIs(t, err, ErrStatusConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel_NotFound(t *testing.T) {
	repo, mock, _ := newRepo(t)
	at := time.Date(2025, 11, 21, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("UPDATE appointments").WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectQuery("FROM appointments").WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.Cancel(context.Background(), "missing", "motivo", at)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_QueryError(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectQuery("FROM appointments").WillReturnError(sql.ErrConnDone)

	_, err := repo.List(context.Background(), domain.AppointmentsFilter{})
	assert.ErrorIs(t, err, ErrExecQuery)
}
