package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/arnela/gabinete-booking/internal/domain"
	"github.com/arnela/gabinete-booking/pkg/dbmetrics"
	"github.com/arnela/gabinete-booking/pkg/psqlbuilder"
)

const tableName = "appointments"

var columns = []string{
	"id",
	"client_id",
	"provider_id",
	"title",
	"description",
	"room",
	"start_time",
	"end_time",
	"duration_minutes",
	"status",
	"notes",
	"cancellation_reason",
	"confirmed_at",
	"cancelled_at",
	"created_by",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями на приём
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	a.Normalize()

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"id",
			"client_id",
			"provider_id",
			"title",
			"description",
			"room",
			"start_time",
			"end_time",
			"duration_minutes",
			"status",
			"created_by",
		).
		Values(
			a.ID,
			a.ClientID,
			a.ProviderID,
			a.Title,
			a.Description,
			a.Room,
			a.StartTime,
			a.EndTime,
			a.DurationMinutes,
			a.Status,
			a.CreatedBy,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return a, nil
}

// GetByID получает запись по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id, "deleted_at": nil})

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return a, nil
}

// List получает записи с фильтрацией
// Поддерживает фильтрацию по:
// - специалисту (ProviderID) и клиенту (ClientID)
// - статусу (Status) или только активным (ActiveOnly)
// - периоду начала приёма [From, To)
//
// Внутри транзакции с фильтром по специалисту строки блокируются (FOR UPDATE),
// чтобы повторная проверка пересечений при создании записи была согласованной.
func (r *Repository) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"deleted_at": nil}).
		OrderBy("start_time ASC")

	if filter.ProviderID != nil {
		builder = builder.Where(squirrel.Eq{"provider_id": *filter.ProviderID})
	}
	if filter.ClientID != nil {
		builder = builder.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.ActiveOnly {
		builder = builder.Where(squirrel.Eq{"status": domain.ActiveStatuses})
	}
	if filter.From != nil {
		builder = builder.Where(squirrel.GtOrEq{"start_time": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(squirrel.Lt{"start_time": *filter.To})
	}

	if dbmetrics.IsInTransaction(ctx) && filter.ProviderID != nil {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

// Confirm подтверждает ожидающую запись
// Обновление выполняется только из статуса pending, иначе ErrStatusConflict
func (r *Repository) Confirm(ctx context.Context, id string, notes *string, at time.Time) (*domain.Appointment, error) {
	builder := psqlbuilder.Update(tableName).
		Set("status", domain.StatusConfirmed).
		Set("notes", notes).
		Set("confirmed_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "status": domain.StatusPending, "deleted_at": nil})

	return r.updateReturning(ctx, "Confirm", id, builder)
}

// Cancel отменяет запись с указанием причины
// Обновление выполняется только из статусов, допускающих отмену, иначе ErrStatusConflict
func (r *Repository) Cancel(ctx context.Context, id string, reason string, at time.Time) (*domain.Appointment, error) {
	cancellable := []domain.AppointmentStatus{domain.StatusPending, domain.StatusConfirmed, domain.StatusRescheduled}

	builder := psqlbuilder.Update(tableName).
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "status": cancellable, "deleted_at": nil})

	return r.updateReturning(ctx, "Cancel", id, builder)
}

// updateReturning выполняет UPDATE ... RETURNING и различает отсутствие записи и конфликт статуса
func (r *Repository) updateReturning(ctx context.Context, op, id string, builder squirrel.UpdateBuilder) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.Suffix("RETURNING " + strings.Join(columns, ", ")).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		// Строка не обновилась: либо её нет, либо статус не позволяет переход
		if _, getErr := r.GetByID(ctx, id); errors.Is(getErr, ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, ErrStatusConflict
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	return a, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanAppointment сканирует строку в запись
func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	err := row.Scan(
		&a.ID,
		&a.ClientID,
		&a.ProviderID,
		&a.Title,
		&a.Description,
		&a.Room,
		&a.StartTime,
		&a.EndTime,
		&a.DurationMinutes,
		&a.Status,
		&a.Notes,
		&a.CancellationReason,
		&a.ConfirmedAt,
		&a.CancelledAt,
		&a.CreatedBy,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

