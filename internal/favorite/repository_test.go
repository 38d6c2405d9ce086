package favorite

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepository(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO favorites`).WithArgs("guest-1", int64(3)).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO favorites`).WithArgs("guest-1", int64(404)).WillReturnError(&pgconn.PgError{Code: "23503"})
	mock.ExpectQuery(`SELECT item_id FROM favorites WHERE customer_id = \$1`).WithArgs("guest-1").
		WillReturnRows(pgxmock.NewRows([]string{"item_id"}).AddRow(int64(3)))
	mock.ExpectExec(`DELETE FROM favorites`).WithArgs("guest-1", int64(3)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM favorites`).WithArgs("guest-1", int64(3)).WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewPostgresRepository(mock)

	require.NoError(t, repo.Add(ctx, "guest-1", 3))
	require.ErrorIs(t, repo.Add(ctx, "guest-1", 404), ErrItemNotFound)

	ids, err := repo.List(ctx, "guest-1")
	require.NoError(t, err)
	require.Equal(t, []int64{3}, ids)

	require.NoError(t, repo.Remove(ctx, "guest-1", 3))
	require.ErrorIs(t, repo.Remove(ctx, "guest-1", 3), ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
