package client

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)
	now := time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		"WHERE deleted_at IS NULL AND is_active = $1 AND (first_name || ' ' || last_name ILIKE $2 OR dni ILIKE $3 OR email ILIKE $4) ORDER BY last_name ASC, first_name ASC LIMIT 20",
	)).
		WithArgs(true, `%50\_%`, `%50\_%`, `%50\_%`).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("c-1", nil, "Marta", "López", "12345650_", "marta@example.com", nil, true, now, now))

	clients, err := repo.Search(context.Background(), " 50_ ", 0)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Marta López", clients[0].FullName())
	assert.Nil(t, clients[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByUserID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)
	now := time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE deleted_at IS NULL AND user_id = $1")).
		WithArgs("user-7").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("c-7", "user-7", "Pablo", "Sanz", "87654321X", "pablo@example.com", "600000000", true, now, now))

	c, err := repo.GetByUserID(context.Background(), "user-7")
	require.NoError(t, err)
	assert.Equal(t, "c-7", c.ID)
	assert.Equal(t, "600000000", *c.Phone)

	mock.ExpectQuery("FROM clients").WillReturnRows(sqlmock.NewRows(columns))
	_, err = repo.GetByUserID(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrClientNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
