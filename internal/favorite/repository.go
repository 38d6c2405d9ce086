package favorite

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/andreasstove999/cafeteria-go/internal/db"
)

var (
	ErrNotFound     = errors.New("favorite not found")
	ErrItemNotFound = errors.New("item not found")
)

type Repository interface {
	List(ctx context.Context, customerID string) ([]int64, error)
	Add(ctx context.Context, customerID string, itemID int64) error
	Remove(ctx context.Context, customerID string, itemID int64) error
}

type PostgresRepository struct {
	pool db.DBPool
}

func NewPostgresRepository(pool db.DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// List returns the favorite item ids of a customer, oldest first.
func (r *PostgresRepository) List(ctx context.Context, customerID string) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT item_id FROM favorites WHERE customer_id = $1 ORDER BY created_at, item_id
	`, customerID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Add is idempotent. A missing item is reported as ErrItemNotFound.
func (r *PostgresRepository) Add(ctx context.Context, customerID string, itemID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO favorites (customer_id, item_id) VALUES ($1, $2)
		ON CONFLICT (customer_id, item_id) DO NOTHING
	`, customerID, itemID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrItemNotFound
		}
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Remove(ctx context.Context, customerID string, itemID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM favorites WHERE customer_id = $1 AND item_id = $2`, customerID, itemID)
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
