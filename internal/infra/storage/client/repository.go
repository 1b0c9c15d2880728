package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/arnela/gabinete-booking/internal/domain"
	"github.com/arnela/gabinete-booking/pkg/dbmetrics"
	"github.com/arnela/gabinete-booking/pkg/psqlbuilder"
)

const (
	tableName = "clients"

	// DefaultSearchLimit ограничение выдачи поиска клиентов
	DefaultSearchLimit = 20
)

var columns = []string{
	"id",
	"user_id",
	"first_name",
	"last_name",
	"dni",
	"email",
	"phone",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с клиентами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает клиента
func (r *Repository) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("id", "user_id", "first_name", "last_name", "dni", "email", "phone", "is_active").
		Values(c.ID, c.UserID, c.FirstName, c.LastName, c.DNI, c.Email, c.Phone, c.IsActive).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return c, nil
}

// GetByID получает клиента по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id, "deleted_at": nil})
}

// GetByUserID получает клиента, связанного с пользователем портала
func (r *Repository) GetByUserID(ctx context.Context, userID string) (*domain.Client, error) {
	return r.getOne(ctx, "GetByUserID", squirrel.Eq{"user_id": userID, "deleted_at": nil})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	c, err := scanClient(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan client: %v", ErrScanRow, op, err)
	}

	return c, nil
}

// Search ищет активных клиентов по имени, DNI или email (без учёта регистра)
func (r *Repository) Search(ctx context.Context, term string, limit int) ([]*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	pattern := "%" + escapeLike(strings.TrimSpace(term)) + "%"

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"deleted_at": nil, "is_active": true}).
		Where(squirrel.Or{
			squirrel.ILike{"first_name || ' ' || last_name": pattern},
			squirrel.ILike{"dni": pattern},
			squirrel.ILike{"email": pattern},
		}).
		OrderBy("last_name ASC", "first_name ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Search - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Search - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: Search - scan row: %v", ErrScanRow, err)
		}
		clients = append(clients, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Search - rows error: %v", ErrScanRow, err)
	}

	return clients, nil
}

// escapeLike экранирует спецсимволы LIKE
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClient(row rowScanner) (*domain.Client, error) {
	var c domain.Client
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.FirstName,
		&c.LastName,
		&c.DNI,
		&c.Email,
		&c.Phone,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
