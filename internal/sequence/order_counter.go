// Package sequence numbers the events published for each order so
// subscribers can drop redeliveries and out-of-order updates.
package sequence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrInvalidOrder = errors.New("order id must be positive")
	ErrUnknownOrder = errors.New("order does not exist")
)

type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// OrderCounter keeps one counter row per order. The first event of an
// order gets 1.
type OrderCounter struct {
	q Querier
}

func NewOrderCounter(q Querier) *OrderCounter {
	return &OrderCounter{q: q}
}

func (c *OrderCounter) Next(ctx context.Context, orderID int64) (int64, error) {
	if orderID <= 0 {
		return 0, ErrInvalidOrder
	}
	var seq int64
	err := c.q.QueryRow(ctx, `
		INSERT INTO order_event_sequence (order_id, last_sequence)
		VALUES ($1, 1)
		ON CONFLICT (order_id)
		DO UPDATE SET last_sequence = order_event_sequence.last_sequence + 1, updated_at = now()
		RETURNING last_sequence
	`, orderID).Scan(&seq)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return 0, fmt.Errorf("order %d: %w", orderID, ErrUnknownOrder)
		}
		return 0, fmt.Errorf("next sequence for order %d: %w", orderID, err)
	}
	return seq, nil
}
